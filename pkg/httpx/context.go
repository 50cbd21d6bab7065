package httpx

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyIdentity ctxKey = "identity"
)

// ErrPrincipalNotFound is what an IdentityLookup returns when the subject no
// longer resolves to a principal.
var ErrPrincipalNotFound = errors.New("httpx: principal not found")

// Principal is the liveness view of a subject returned by an IdentityLookup.
type Principal struct {
	ID      string
	Subject string
	Role    jwtx.Role
	Active  bool
}

// IdentityLookup confirms a verified subject still maps to a known principal.
type IdentityLookup interface {
	FindBySubject(ctx context.Context, subject string) (Principal, error)
}

// Identity is the verified caller attached to one request. It is a value:
// each request gets its own copy and nothing writes to it after the gate.
type Identity struct {
	PrincipalID string
	Subject     string
	Role        jwtx.Role
	Claims      jwtx.Claims
}

// WithIdentity attaches id to ctx. Only the gate and tests call it.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, CtxKeyIdentity, id)
}

// IdentityFromContext returns the identity the gate attached, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(CtxKeyIdentity).(Identity)
	return id, ok
}
