package httpx

import (
	"net/http"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

// IdentityHandlerFunc is a handler that is handed the caller's identity
// explicitly instead of digging it out of the context.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, id Identity)

// RequireIdentity turns an IdentityHandlerFunc into an http.Handler that
// answers 401 when the gate attached no identity.
func RequireIdentity(h IdentityHandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			w.Header().Set("WWW-Authenticate", `Bearer`)
			WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
			return
		}
		h(w, r, id)
	})
}

// RequireAnyRole the caller must hold one of the listed roles. Requests
// without an identity get 401, wrong role gets 403.
func RequireAnyRole(roles ...jwtx.Role) Middleware {
	want := make(map[jwtx.Role]struct{}, len(roles))
	for _, r := range roles {
		want[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer`)
				WriteJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}
			if _, ok := want[id.Role]; !ok {
				WriteJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
