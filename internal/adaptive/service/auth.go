package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/cryptox"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

// CredentialHasher is the part of cryptox.PasswordHasher that login uses.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) error
	VerifyAbsent(password string) error
	NeedsRehash(encoded string) bool
}

// AuthService exchanges credentials for access tokens.
type AuthService struct {
	Store  store.Store
	Signer jwtx.Signer
	Hasher CredentialHasher

	Timeout time.Duration
	Now     func() time.Time
}

// IssuedToken is a freshly signed access token.
type IssuedToken struct {
	Token     string
	ExpiresIn time.Duration
	Claims    jwtx.Claims
}

// Login checks email, password and, for principals enrolled in TOTP, the
// one-time code. Every credential failure is ErrInvalidCredentials so
// callers can't tell which part was wrong. Unknown and inactive principals
// still pay for one password verification.
func (s *AuthService) Login(ctx context.Context, email, password, otp string) (IssuedToken, error) {
	l := slogx.FromContext(ctx)
	email = NormalizeEmail(email)

	sctx, cancel := storeContext(ctx, s.Timeout)
	p, err := s.Store.Principals().GetPrincipalByEmail(sctx, email)
	cancel()
	switch {
	case errors.Is(err, store.ErrNotFound):
		l.Info("login for unknown email")
		_ = s.Hasher.VerifyAbsent(password)
		return IssuedToken{}, ErrInvalidCredentials
	case err != nil:
		l.Error("failed to load principal", slog.Any("error", err))
		return IssuedToken{}, dependency("get principal", err)
	}

	if !p.Active {
		l.Info("login for inactive principal", slog.String("principal_id", p.ID))
		_ = s.Hasher.VerifyAbsent(password)
		return IssuedToken{}, ErrInvalidCredentials
	}

	if err := s.Hasher.Verify(password, p.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrUnknownHash) {
			l.Error("stored password hash is unreadable", slog.String("principal_id", p.ID))
		} else {
			l.Info("login with wrong password", slog.String("principal_id", p.ID))
		}
		return IssuedToken{}, ErrInvalidCredentials
	}

	now := nowFunc(s.Now)
	if p.HasTOTP() {
		if otp == "" || !cryptox.ValidateTOTP(otp, *p.TOTPSecret, now) {
			l.Info("login with missing or wrong one-time code", slog.String("principal_id", p.ID))
			return IssuedToken{}, ErrInvalidCredentials
		}
	}

	if s.Hasher.NeedsRehash(p.PasswordHash) {
		s.rehash(ctx, p.ID, password, now)
	}

	token, claims, err := s.Signer.Issue(p.Email, p.Role)
	if err != nil {
		l.Error("failed to sign token", slog.Any("error", err))
		return IssuedToken{}, err
	}

	l.Info("token issued", slog.String("principal_id", p.ID), slog.String("role", p.Role.String()))
	return IssuedToken{
		Token:     token,
		ExpiresIn: claims.ExpiresAtTime().Sub(claims.IssuedAtTime()),
		Claims:    claims,
	}, nil
}

// rehash upgrades a legacy hash after a successful login. Failure only
// costs the upgrade; the login still succeeds.
func (s *AuthService) rehash(ctx context.Context, principalID, password string, now time.Time) {
	l := slogx.FromContext(ctx)

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		l.Warn("failed to rehash password", slog.Any("error", err))
		return
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()
	if err := s.Store.Principals().UpdatePasswordHash(sctx, principalID, hash, now); err != nil {
		l.Warn("failed to store rehashed password", slog.String("principal_id", principalID), slog.Any("error", err))
		return
	}
	l.Info("password hash upgraded", slog.String("principal_id", principalID))
}
