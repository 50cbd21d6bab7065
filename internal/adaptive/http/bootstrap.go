package http

import (
	"net/http"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP handles the bootstrap endpoint for initial system setup.
//
//	@Summary		Bootstrap the service
//	@Description	Creates the first ADMIN principal. Only available when a bootstrap token is configured and only while no principal exists.
//	@Tags			Bootstrap
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string						true	"Bootstrap token"
//	@Param			request				body		adaptivesdk.RegisterRequest	true	"Admin account"
//	@Success		201					{object}	adaptivesdk.CreatedResponse
//	@Failure		400					{object}	adaptivesdk.ErrorResponse	"Malformed body or failed validation"
//	@Failure		401					{object}	adaptivesdk.ErrorResponse	"Missing or wrong bootstrap token"
//	@Failure		404					{object}	adaptivesdk.ErrorResponse	"Bootstrap not enabled"
//	@Failure		409					{object}	adaptivesdk.ErrorResponse	"Already bootstrapped"
//	@Router			/bootstrap [post].
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slogx.FromContext(r.Context()).Info("bootstrap requested")

	if !h.BootstrapService.Enabled() {
		adaptivesdk.ErrNotFound.WriteError(w)
		return
	}

	token := r.Header.Get(adaptivesdk.BootstrapTokenHeader)
	if token == "" {
		adaptivesdk.ErrUnauthorized.WriteError(w)
		return
	}

	var req adaptivesdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	admin, err := h.BootstrapService.Bootstrap(r.Context(), token, req.Email, req.FullName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adaptivesdk.CreatedResponse{ID: admin.ID})
}
