package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/httpx"
)

// IdentityLookup resolves token subjects against the principals table for
// the authentication gate.
type IdentityLookup struct {
	Store   store.Store
	Timeout time.Duration
}

var _ httpx.IdentityLookup = (*IdentityLookup)(nil)

func (l *IdentityLookup) FindBySubject(ctx context.Context, subject string) (httpx.Principal, error) {
	sctx, cancel := storeContext(ctx, l.Timeout)
	defer cancel()

	p, err := l.Store.Principals().GetPrincipalByEmail(sctx, subject)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return httpx.Principal{}, httpx.ErrPrincipalNotFound
	case err != nil:
		return httpx.Principal{}, dependency("find subject", err)
	}

	return httpx.Principal{
		ID:      p.ID,
		Subject: p.Email,
		Role:    p.Role,
		Active:  p.Active,
	}, nil
}
