package adaptivesdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/stretchr/testify/require"
)

func TestClientStats(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		_ = json.NewEncoder(w).Encode(adaptivesdk.SessionStats{
			SessionID:            "s-1",
			WindowSeconds:        30,
			AverageFrustration:   0.5,
			MaxFrustration:       0.9,
			CountHighFrustration: 1,
			TotalEvents:          2,
		})
	}))
	defer srv.Close()

	c := adaptivesdk.NewClient(srv.URL + "/").WithToken("tok")
	window := 30
	stats, err := c.Stats(context.Background(), "s-1", &window)
	require.NoError(t, err)

	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, "/sessions/s-1/stats", gotPath)
	require.Equal(t, "windowSeconds=30", gotQuery)
	require.Equal(t, 2, stats.TotalEvents)
	require.InDelta(t, 0.9, stats.MaxFrustration, 1e-9)

	_, err = c.Stats(context.Background(), "s-1", nil)
	require.NoError(t, err)
	require.Empty(t, gotQuery)
}

func TestClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions/missing/emotion":
			adaptivesdk.ErrSessionNotFound.WriteError(w)
		case "/me":
			adaptivesdk.ErrUnauthorized.WriteError(w)
		case "/auth/register":
			adaptivesdk.NewFieldError("email", "must be a valid email address").WriteError(w)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := adaptivesdk.NewClient(srv.URL)
	ctx := context.Background()

	score := 0.4
	_, err := c.RecordEmotion(ctx, "missing", adaptivesdk.RecordEmotionRequest{
		Timestamp:        "2025-01-01T00:00:00Z",
		FrustrationScore: &score,
	})
	require.ErrorIs(t, err, adaptivesdk.ErrSessionNotFound)

	_, err = c.Me(ctx)
	require.ErrorIs(t, err, adaptivesdk.ErrUnauthorized)

	_, err = c.Register(ctx, adaptivesdk.RegisterRequest{Email: "nope"})
	var apiErr *adaptivesdk.APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "must be a valid email address", apiErr.Details["email"])

	_, err = c.Liveness(ctx)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, adaptivesdk.ErrorCodeServerError, apiErr.Code)
}

func TestWriteErrorUnauthorizedChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	adaptivesdk.ErrInvalidCredentials.WriteError(rec)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"error":"invalid_credentials","error_description":"invalid credentials"}`, rec.Body.String())
}
