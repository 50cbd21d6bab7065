package http

import (
	"net/http"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/pkg/adaptivesdk"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP exchanges credentials for an access token.
//
//	@Summary		Log in
//	@Description	Exchanges email and password (plus a one-time code for principals enrolled in TOTP) for a signed access token.
//	@Description	Every credential failure gets the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adaptivesdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	adaptivesdk.TokenResponse
//	@Failure		400		{object}	adaptivesdk.ErrorResponse	"Malformed body or failed validation"
//	@Failure		401		{object}	adaptivesdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	adaptivesdk.ErrorResponse	"Rate limited"
//	@Failure		503		{object}	adaptivesdk.ErrorResponse	"Store unavailable"
//	@Router			/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req adaptivesdk.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	issued, err := h.AuthService.Login(r.Context(), req.Email, req.Password, req.OTP)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, adaptivesdk.TokenResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(issued.ExpiresIn.Seconds()),
	})
}

type RegisterHandler struct {
	PrincipalService *service.PrincipalService
}

// ServeHTTP creates a STUDENT principal.
//
//	@Summary		Register
//	@Description	Creates an active STUDENT principal.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adaptivesdk.RegisterRequest	true	"New account"
//	@Success		201		{object}	adaptivesdk.CreatedResponse
//	@Failure		400		{object}	adaptivesdk.ErrorResponse	"Malformed body or failed validation"
//	@Failure		409		{object}	adaptivesdk.ErrorResponse	"Email already registered"
//	@Failure		429		{object}	adaptivesdk.ErrorResponse	"Rate limited"
//	@Router			/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req adaptivesdk.RegisterRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	p, err := h.PrincipalService.Register(r.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, adaptivesdk.CreatedResponse{ID: p.ID})
}
