package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

const bearerPrefix = "Bearer "

// AuthnMiddleware is the authentication gate. It runs in front of every
// handler and decides one of three outcomes:
//
//   - no Authorization header: the request continues without an identity.
//   - a header that isn't a verifiable bearer token: 401, nothing downstream runs.
//   - a verified token: the subject is looked up and, if it is still a known
//     active principal, an Identity is attached. A subject that no longer
//     resolves continues without an identity.
//
// If the lookup itself fails the request is refused with 503 rather than
// guessing either way.
func AuthnMiddleware(v jwtx.Verifier, lookup IdentityLookup) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz, present := r.Header["Authorization"]
			if !present {
				next.ServeHTTP(w, r)
				return
			}

			raw, ok := bearerToken(authz)
			if !ok {
				log.Warn("rejected malformed authorization header")
				writeBearerError(w)
				return
			}

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("token verification failed", "reason", verifyReason(err))
				writeBearerError(w)
				return
			}

			principal, err := lookup.FindBySubject(ctx, claims.Subject)
			switch {
			case errors.Is(err, ErrPrincipalNotFound):
				log.Info("verified subject no longer resolves, continuing unauthenticated")
				next.ServeHTTP(w, r)
				return
			case err != nil:
				log.Error("identity lookup failed", "err", err)
				writeUnavailable(w)
				return
			case !principal.Active:
				log.Info("verified subject is deactivated, continuing unauthenticated")
				next.ServeHTTP(w, r)
				return
			}

			id := Identity{
				PrincipalID: principal.ID,
				Subject:     principal.Subject,
				Role:        principal.Role,
				Claims:      claims,
			}

			ctx = WithIdentity(ctx, id)
			ctx = slogx.WithContext(ctx, log.With("subject", id.Subject))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken accepts exactly one "Bearer <token>" header value.
func bearerToken(values []string) (string, bool) {
	if len(values) != 1 || !strings.HasPrefix(values[0], bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(values[0][len(bearerPrefix):])
	if raw == "" {
		return "", false
	}
	return raw, true
}

// verifyReason keeps codec detail in logs at the granularity of the error
// kind. The token itself is never logged.
func verifyReason(err error) string {
	switch {
	case errors.Is(err, jwtx.ErrExpired):
		return "expired"
	case errors.Is(err, jwtx.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, jwtx.ErrIssuer):
		return "issuer"
	default:
		return "malformed"
	}
}

// writeBearerError is the single unauthorized response. It deliberately
// carries no description of what was wrong with the credential.
func writeBearerError(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
	WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
}

func writeUnavailable(w http.ResponseWriter) {
	WriteJSON(w, http.StatusServiceUnavailable, errorBody{Error: "temporarily_unavailable"})
}
