package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

// writeError maps a service error onto the API error surface. Anything not
// recognised is logged and answered with a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		slogx.FromContext(r.Context()).Error("request failed",
			slog.Int("status", apiErr.StatusCode),
			slog.Any("error", err),
		)
	}
	apiErr.WriteError(w)
}

func toAPIError(err error) *adaptivesdk.APIError {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return adaptivesdk.ErrSessionNotFound
	case errors.Is(err, service.ErrPrincipalNotFound):
		return adaptivesdk.ErrPrincipalNotFound
	case errors.Is(err, service.ErrInvalidTimestamp):
		return adaptivesdk.NewFieldError("timestamp", "must be an RFC 3339 timestamp with offset between 1677-09-21 and 2262-04-11")
	case errors.Is(err, service.ErrInvalidEmail):
		return adaptivesdk.NewFieldError("email", "must be a valid email address")
	case errors.Is(err, service.ErrInvalidRole):
		return adaptivesdk.NewFieldError("role", "must be one of: STUDENT INSTRUCTOR ADMIN")
	case errors.Is(err, service.ErrInvalidCredentials):
		return adaptivesdk.ErrInvalidCredentials
	case errors.Is(err, service.ErrEmailTaken):
		return adaptivesdk.ErrEmailTaken
	case errors.Is(err, service.ErrAlreadyBootstrapped):
		return adaptivesdk.ErrAlreadyBootstrapped
	case errors.Is(err, service.ErrBootstrapDisabled):
		return adaptivesdk.ErrNotFound
	case errors.Is(err, service.ErrBootstrapDenied):
		return adaptivesdk.ErrUnauthorized
	case errors.Is(err, service.ErrDependency):
		return adaptivesdk.ErrUnavailable
	default:
		return adaptivesdk.ErrServerError
	}
}

// decodeRequest reads and validates a JSON body, writing the 400 itself.
// It reports whether the handler should carry on.
func decodeRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := httpx.DecodeJSON(w, r, v); err != nil {
		adaptivesdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	if details := httpx.Validate(v); details != nil {
		adaptivesdk.NewValidationError(details).WriteError(w)
		return false
	}
	return true
}
