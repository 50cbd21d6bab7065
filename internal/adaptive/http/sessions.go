package http

import (
	"net/http"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

type SessionsHandler struct {
	SessionService *service.SessionService
}

// HandleStart opens a learning session for the caller.
//
//	@Summary		Start session
//	@Tags			Sessions
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		adaptivesdk.StartSessionRequest	true	"Lesson"
//	@Success		201		{object}	adaptivesdk.CreatedResponse
//	@Failure		400		{object}	adaptivesdk.ErrorResponse
//	@Failure		401		{object}	adaptivesdk.ErrorResponse
//	@Router			/sessions [post].
func (h *SessionsHandler) HandleStart(w http.ResponseWriter, r *http.Request, id httpx.Identity) {
	var req adaptivesdk.StartSessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	sess, err := h.SessionService.Start(r.Context(), id.PrincipalID, req.LessonID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adaptivesdk.CreatedResponse{ID: sess.ID})
}

// HandleEnd ends a session. Ending an ended session succeeds.
//
//	@Summary		End session
//	@Tags			Sessions
//	@Security		BearerAuth
//	@Param			sessionId	path	string	true	"Session ID"
//	@Success		204
//	@Failure		401	{object}	adaptivesdk.ErrorResponse
//	@Failure		404	{object}	adaptivesdk.ErrorResponse
//	@Router			/sessions/{sessionId}/end [post].
func (h *SessionsHandler) HandleEnd(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
	if err := h.SessionService.End(r.Context(), r.PathValue("sessionId")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
