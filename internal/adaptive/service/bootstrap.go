package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/cryptox"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

// BootstrapService creates the first ADMIN on an empty system.
type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Token  string // pre-configured; empty disables bootstrap

	Timeout time.Duration
	Now     func() time.Time
}

func (s *BootstrapService) Enabled() bool { return s.Token != "" }

// IsBootstrapped reports whether any principal exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	empty, err := s.Store.Principals().IsEmpty(sctx)
	if err != nil {
		return false, dependency("principals empty", err)
	}
	return !empty, nil
}

// Bootstrap checks the token and creates an ADMIN, all inside one
// transaction so two concurrent attempts can't both succeed.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, fullName, password string) (domain.Principal, error) {
	l := slogx.FromContext(ctx)

	if !s.Enabled() {
		return domain.Principal{}, ErrBootstrapDisabled
	}
	if !cryptox.TokensEqual(token, s.Token) {
		l.Warn("unauthorized bootstrap attempt")
		return domain.Principal{}, ErrBootstrapDenied
	}

	admin, _, err := buildPrincipal(s.Hasher, NewPrincipal{
		Email:    email,
		FullName: fullName,
		Password: password,
		Role:     jwtx.RoleAdmin,
	}, "", nowFunc(s.Now))
	if err != nil {
		return domain.Principal{}, err
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	err = s.Store.WithTx(sctx, func(tx store.Tx) error {
		empty, err := tx.Principals().IsEmpty(sctx)
		if err != nil {
			return dependency("principals empty", err)
		}
		if !empty {
			return ErrAlreadyBootstrapped
		}
		if err := tx.Principals().CreatePrincipal(sctx, admin); err != nil {
			return dependency("create admin", err)
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrAlreadyBootstrapped):
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.Principal{}, err
	case errors.Is(err, ErrDependency):
		l.Error("bootstrap failed", slog.Any("error", err))
		return domain.Principal{}, err
	case err != nil:
		l.Error("bootstrap failed", slog.Any("error", err))
		return domain.Principal{}, dependency("bootstrap tx", err)
	}

	l.Info("successfully bootstrapped system", slog.String("admin_principal_id", admin.ID))
	return admin, nil
}
