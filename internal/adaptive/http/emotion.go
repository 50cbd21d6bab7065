package http

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

// DefaultStatsWindow applies when a stats request has no windowSeconds.
const DefaultStatsWindow = 60 * time.Second

const maxWindowSeconds = math.MaxInt64 / int64(time.Second)

type EmotionHandler struct {
	EmotionService *service.EmotionService
	DefaultWindow  time.Duration
}

// HandleRecord ingests one emotion sample.
//
//	@Summary		Record emotion sample
//	@Description	Appends one frustration observation to a session. The score is stored as sent.
//	@Tags			Emotion
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			sessionId	path		string							true	"Session ID"
//	@Param			request		body		adaptivesdk.RecordEmotionRequest	true	"Sample"
//	@Success		201			{object}	adaptivesdk.CreatedResponse
//	@Failure		400			{object}	adaptivesdk.ErrorResponse	"Bad timestamp or body"
//	@Failure		401			{object}	adaptivesdk.ErrorResponse
//	@Failure		404			{object}	adaptivesdk.ErrorResponse	"Session not found"
//	@Failure		429			{object}	adaptivesdk.ErrorResponse
//	@Failure		503			{object}	adaptivesdk.ErrorResponse	"Store unavailable"
//	@Router			/sessions/{sessionId}/emotion [post].
func (h *EmotionHandler) HandleRecord(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
	var req adaptivesdk.RecordEmotionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	id, err := h.EmotionService.Record(r.Context(), service.RecordInput{
		SessionID:        r.PathValue("sessionId"),
		Timestamp:        req.Timestamp,
		FrustrationScore: *req.FrustrationScore,
		FaceDetected:     req.FaceDetected,
		Metadata:         req.MetaJSON,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adaptivesdk.CreatedResponse{ID: id})
}

// HandleStats returns windowed statistics for a session.
//
//	@Summary		Session statistics
//	@Description	Average, maximum, high-frustration count and total over samples in the last windowSeconds.
//	@Description	A window of zero or less is valid and yields zeroes.
//	@Tags			Emotion
//	@Produce		json
//	@Security		BearerAuth
//	@Param			sessionId		path		string	true	"Session ID"
//	@Param			windowSeconds	query		int		false	"Window length in seconds"	default(60)
//	@Success		200				{object}	adaptivesdk.SessionStats
//	@Failure		400				{object}	adaptivesdk.ErrorResponse	"windowSeconds is not an integer"
//	@Failure		401				{object}	adaptivesdk.ErrorResponse
//	@Failure		404				{object}	adaptivesdk.ErrorResponse	"Session not found"
//	@Failure		503				{object}	adaptivesdk.ErrorResponse	"Store unavailable"
//	@Router			/sessions/{sessionId}/stats [get].
func (h *EmotionHandler) HandleStats(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
	window, ok := h.window(r)
	if !ok {
		adaptivesdk.NewFieldError("windowSeconds", "must be an integer").WriteError(w)
		return
	}

	sessionID := r.PathValue("sessionId")
	stats, err := h.EmotionService.Stats(r.Context(), sessionID, window)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adaptivesdk.SessionStats{
		SessionID:            stats.SessionID,
		WindowSeconds:        int64(stats.Window / time.Second),
		AverageFrustration:   stats.AverageFrustration,
		MaxFrustration:       stats.MaxFrustration,
		CountHighFrustration: stats.CountHighFrustration,
		TotalEvents:          stats.TotalEvents,
	})
}

func (h *EmotionHandler) window(r *http.Request) (time.Duration, bool) {
	raw := r.URL.Query().Get("windowSeconds")
	if raw == "" {
		if h.DefaultWindow > 0 {
			return h.DefaultWindow, true
		}
		return DefaultStatsWindow, true
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange) && strings.HasPrefix(raw, "-"):
		return 0, true
	case errors.Is(err, strconv.ErrRange):
		n = maxWindowSeconds
	case err != nil:
		return 0, false
	}
	// Windows beyond what a Duration holds already cover every sample.
	n = min(n, maxWindowSeconds)
	return time.Duration(n) * time.Second, true
}
