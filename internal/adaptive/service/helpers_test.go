package service_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/sqlite"
	"github.com/aussiebroadwan/adaptive/pkg/cryptox"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "service-test-secret-that-is-long-enough-0123"

var base = time.Date(2025, 11, 30, 13, 0, 0, 0, time.UTC)

func clock(t time.Time) func() time.Time { return func() time.Time { return t } }

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "adaptive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// closedStore is a migrated store whose pool has been closed, so every call
// fails the way an unreachable database does.
func closedStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s := newStore(t)
	require.NoError(t, s.Close())
	return s
}

func newHasher() *cryptox.PasswordHasher {
	return cryptox.NewPasswordHasher("test-pepper")
}

func newCodec(t *testing.T, now func() time.Time) *jwtx.Codec {
	t.Helper()
	ring, err := jwtx.NewKeyRing(testSecret)
	require.NoError(t, err)
	codec, err := jwtx.NewCodec(jwtx.CodecOptions{Keys: ring, Issuer: "adaptive-auth", TTL: 15 * time.Minute, Now: now})
	require.NoError(t, err)
	return codec
}

func createPrincipal(t *testing.T, svc *service.PrincipalService, email string, role jwtx.Role, totp bool) (domain.Principal, *cryptox.TOTPEnrollment) {
	t.Helper()
	p, enrollment, err := svc.Create(context.Background(), service.NewPrincipal{
		Email:      email,
		FullName:   "Test Person",
		Password:   "correct horse battery",
		Role:       role,
		EnrollTOTP: totp,
	})
	require.NoError(t, err)
	return p, enrollment
}
