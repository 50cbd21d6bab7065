package http

import (
	"net/http"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

type PrincipalsHandler struct {
	PrincipalService *service.PrincipalService
}

// HandleMe describes the authenticated caller.
//
//	@Summary		Current identity
//	@Description	Returns the identity the authentication gate attached to this request.
//	@Tags			Principals
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	adaptivesdk.MeResponse
//	@Failure		401	{object}	adaptivesdk.ErrorResponse
//	@Router			/me [get].
func (h *PrincipalsHandler) HandleMe(w http.ResponseWriter, r *http.Request, id httpx.Identity) {
	httpx.WriteJSON(w, http.StatusOK, adaptivesdk.MeResponse{
		PrincipalID: id.PrincipalID,
		Subject:     id.Subject,
		Role:        id.Role.String(),
		ExpiresAt:   id.Claims.ExpiresAtTime().Unix(),
	})
}

// HandleCreate creates a principal with any role.
//
//	@Summary		Create principal
//	@Description	Creates a principal with the given role, optionally enrolling a TOTP second factor. The provisioning URL is only returned here.
//	@Tags			Principals
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		adaptivesdk.CreatePrincipalRequest	true	"New principal"
//	@Success		201		{object}	adaptivesdk.PrincipalCreatedResponse
//	@Failure		400		{object}	adaptivesdk.ErrorResponse
//	@Failure		401		{object}	adaptivesdk.ErrorResponse
//	@Failure		403		{object}	adaptivesdk.ErrorResponse	"Caller is not ADMIN"
//	@Failure		409		{object}	adaptivesdk.ErrorResponse	"Email already registered"
//	@Router			/principals [post].
func (h *PrincipalsHandler) HandleCreate(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
	var req adaptivesdk.CreatePrincipalRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	role, err := jwtx.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, service.ErrInvalidRole)
		return
	}

	p, enrollment, err := h.PrincipalService.Create(r.Context(), service.NewPrincipal{
		Email:      req.Email,
		FullName:   req.FullName,
		Password:   req.Password,
		Role:       role,
		EnrollTOTP: req.EnrollTOTP,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := adaptivesdk.PrincipalCreatedResponse{ID: p.ID}
	if enrollment != nil {
		resp.TOTPURL = enrollment.URL
	}
	httpx.WriteJSON(w, http.StatusCreated, resp)
}

// HandleDeactivate switches a principal off.
//
//	@Summary		Deactivate principal
//	@Description	Deactivates a principal. Tokens already issued to it stop attaching an identity.
//	@Tags			Principals
//	@Security		BearerAuth
//	@Param			id	path	string	true	"Principal ID"
//	@Success		204
//	@Failure		401	{object}	adaptivesdk.ErrorResponse
//	@Failure		403	{object}	adaptivesdk.ErrorResponse
//	@Failure		404	{object}	adaptivesdk.ErrorResponse
//	@Router			/principals/{id}/deactivate [post].
func (h *PrincipalsHandler) HandleDeactivate(w http.ResponseWriter, r *http.Request, _ httpx.Identity) {
	if err := h.PrincipalService.Deactivate(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
