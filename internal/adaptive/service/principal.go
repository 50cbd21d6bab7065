package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/cryptox"
	"github.com/aussiebroadwan/adaptive/pkg/idx"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

const DefaultTOTPIssuer = "adaptive"

// PrincipalService manages the accounts behind the identity lookup.
type PrincipalService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher

	// TOTPIssuer labels enrolled second factors in authenticator apps.
	TOTPIssuer string

	Timeout time.Duration
	Now     func() time.Time
}

// NewPrincipal describes an account to create.
type NewPrincipal struct {
	Email      string
	FullName   string
	Password   string
	Role       jwtx.Role
	EnrollTOTP bool
}

// Register creates an active STUDENT.
func (s *PrincipalService) Register(ctx context.Context, email, fullName, password string) (domain.Principal, error) {
	p, _, err := s.Create(ctx, NewPrincipal{
		Email:    email,
		FullName: fullName,
		Password: password,
		Role:     jwtx.RoleStudent,
	})
	return p, err
}

// Create inserts a principal with any role. When EnrollTOTP is set the
// generated second factor is returned once and only its secret is stored.
func (s *PrincipalService) Create(ctx context.Context, in NewPrincipal) (domain.Principal, *cryptox.TOTPEnrollment, error) {
	p, enrollment, err := buildPrincipal(s.Hasher, in, s.TOTPIssuer, nowFunc(s.Now))
	if err != nil {
		return domain.Principal{}, nil, err
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	switch err := s.Store.Principals().CreatePrincipal(sctx, p); {
	case errors.Is(err, store.ErrAlreadyExists):
		return domain.Principal{}, nil, ErrEmailTaken
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create principal", slog.Any("error", err))
		return domain.Principal{}, nil, dependency("create principal", err)
	}

	slogx.FromContext(ctx).Info("principal created",
		slog.String("principal_id", p.ID),
		slog.String("role", p.Role.String()),
	)
	return p, enrollment, nil
}

// Get fetches a principal by id.
func (s *PrincipalService) Get(ctx context.Context, id string) (domain.Principal, error) {
	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	p, err := s.Store.Principals().GetPrincipalByID(sctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Principal{}, ErrPrincipalNotFound
	case err != nil:
		return domain.Principal{}, dependency("get principal", err)
	}
	return p, nil
}

// Deactivate switches a principal off. Its outstanding tokens still verify
// but the gate no longer attaches an identity for them.
func (s *PrincipalService) Deactivate(ctx context.Context, id string) error {
	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	switch err := s.Store.Principals().SetActive(sctx, id, false, nowFunc(s.Now)); {
	case errors.Is(err, store.ErrNotFound):
		return ErrPrincipalNotFound
	case err != nil:
		return dependency("deactivate principal", err)
	}

	slogx.FromContext(ctx).Info("principal deactivated", slog.String("principal_id", id))
	return nil
}

// NormalizeEmail is the canonical subject form: trimmed and lower case.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func buildPrincipal(h *cryptox.PasswordHasher, in NewPrincipal, issuer string, now time.Time) (domain.Principal, *cryptox.TOTPEnrollment, error) {
	email := NormalizeEmail(in.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return domain.Principal{}, nil, ErrInvalidEmail
	}
	if !in.Role.Valid() {
		return domain.Principal{}, nil, ErrInvalidRole
	}

	hash, err := h.Hash(in.Password)
	if err != nil {
		return domain.Principal{}, nil, err
	}

	p := domain.Principal{
		ID:           idx.NewAt(now).String(),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if !in.EnrollTOTP {
		return p, nil, nil
	}
	if issuer == "" {
		issuer = DefaultTOTPIssuer
	}
	enrollment, err := cryptox.GenerateTOTP(issuer, email)
	if err != nil {
		return domain.Principal{}, nil, err
	}
	p.TOTPSecret = &enrollment.Secret
	return p, &enrollment, nil
}
