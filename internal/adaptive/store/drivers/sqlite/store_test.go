package sqlite_test

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/sqlite"
	"github.com/aussiebroadwan/adaptive/pkg/idx"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 11, 30, 13, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(filepath.Join(t.TempDir(), "adaptive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedPrincipal(t *testing.T, s store.Store, email string) domain.Principal {
	t.Helper()
	p := domain.Principal{
		ID:           idx.New().String(),
		Email:        email,
		FullName:     "Ada Lovelace",
		PasswordHash: "$argon2id$placeholder",
		Role:         jwtx.RoleStudent,
		Active:       true,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	require.NoError(t, s.Principals().CreatePrincipal(context.Background(), p))
	return p
}

func seedSession(t *testing.T, s store.Store, principalID string, startedAt time.Time) domain.Session {
	t.Helper()
	sess := domain.Session{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		LessonID:    "lesson-1",
		Status:      domain.SessionActive,
		StartedAt:   startedAt,
	}
	require.NoError(t, s.Sessions().CreateSession(context.Background(), sess))
	return sess
}

func sampleAt(sessionID string, ts time.Time, score float64) domain.Sample {
	return domain.Sample{
		ID:               idx.New().String(),
		SessionID:        sessionID,
		Timestamp:        ts,
		FrustrationScore: score,
		FaceDetected:     true,
		Metadata:         `{"fps":30}`,
		RecordedAt:       ts,
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestPrincipals(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	empty, err := s.Principals().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	secret := "JBSWY3DPEHPK3PXP"
	p := domain.Principal{
		ID:           idx.New().String(),
		Email:        "ada@example.com",
		FullName:     "Ada Lovelace",
		PasswordHash: "hash",
		Role:         jwtx.RoleInstructor,
		Active:       true,
		TOTPSecret:   &secret,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	require.NoError(t, s.Principals().CreatePrincipal(ctx, p))

	t.Run("round trip", func(t *testing.T) {
		got, err := s.Principals().GetPrincipalByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Equal(t, p, got)

		got, err = s.Principals().GetPrincipalByID(ctx, p.ID)
		require.NoError(t, err)
		require.True(t, got.HasTOTP())
	})

	t.Run("duplicate email", func(t *testing.T) {
		dup := p
		dup.ID = idx.New().String()
		require.ErrorIs(t, s.Principals().CreatePrincipal(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := s.Principals().GetPrincipalByEmail(ctx, "ghost@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
		require.ErrorIs(t, s.Principals().SetActive(ctx, "nope", false, base), store.ErrNotFound)
	})

	t.Run("deactivate and rehash", func(t *testing.T) {
		later := base.Add(time.Hour)
		require.NoError(t, s.Principals().SetActive(ctx, p.ID, false, later))
		require.NoError(t, s.Principals().UpdatePasswordHash(ctx, p.ID, "new-hash", later))

		got, err := s.Principals().GetPrincipalByID(ctx, p.ID)
		require.NoError(t, err)
		require.False(t, got.Active)
		require.Equal(t, "new-hash", got.PasswordHash)
		require.Equal(t, later, got.UpdatedAt)
	})

	empty, err = s.Principals().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedPrincipal(t, s, "ada@example.com")
	sess := seedSession(t, s, p.ID, base)

	exists, err := s.Sessions().SessionExists(ctx, sess.ID)
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = s.Sessions().SessionExists(ctx, uuid.NewString())
	require.NoError(t, err)
	require.False(t, exists)

	t.Run("unknown principal", func(t *testing.T) {
		orphan := domain.Session{ID: uuid.NewString(), PrincipalID: "ghost", LessonID: "l", Status: domain.SessionActive, StartedAt: base}
		require.ErrorIs(t, s.Sessions().CreateSession(ctx, orphan), store.ErrNotFound)
	})

	t.Run("end is idempotent", func(t *testing.T) {
		endAt := base.Add(time.Minute)
		require.NoError(t, s.Sessions().EndSession(ctx, sess.ID, endAt))
		require.NoError(t, s.Sessions().EndSession(ctx, sess.ID, endAt.Add(time.Hour)))

		got, err := s.Sessions().GetSession(ctx, sess.ID)
		require.NoError(t, err)
		require.Equal(t, domain.SessionEnded, got.Status)
		require.NotNil(t, got.EndedAt)
		require.Equal(t, endAt, *got.EndedAt, "second end must not move ended_at")

		exists, err := s.Sessions().SessionExists(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, exists, "ended sessions still exist")
	})

	t.Run("end unknown", func(t *testing.T) {
		require.ErrorIs(t, s.Sessions().EndSession(ctx, uuid.NewString(), base), store.ErrNotFound)
	})
}

func TestEndIdleSessions(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedPrincipal(t, s, "ada@example.com")

	idle := seedSession(t, s, p.ID, base)
	busy := seedSession(t, s, p.ID, base)
	fresh := seedSession(t, s, p.ID, base.Add(90*time.Minute))

	require.NoError(t, s.Samples().AppendSample(ctx, sampleAt(busy.ID, base.Add(80*time.Minute), 0.3)))

	now := base.Add(2 * time.Hour)
	n, err := s.Sessions().EndIdleSessions(ctx, now.Add(-time.Hour), now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	for id, want := range map[string]domain.SessionStatus{
		idle.ID:  domain.SessionEnded,
		busy.ID:  domain.SessionActive,
		fresh.ID: domain.SessionActive,
	} {
		got, err := s.Sessions().GetSession(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status)
	}
}

func TestSamples(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedPrincipal(t, s, "ada@example.com")
	sess := seedSession(t, s, p.ID, base)
	other := seedSession(t, s, p.ID, base)

	now := base.Add(10 * time.Minute)
	in := []domain.Sample{
		sampleAt(sess.ID, now.Add(-50*time.Second), 0.2),
		sampleAt(sess.ID, now.Add(-10*time.Second), 0.9),
		sampleAt(sess.ID, now, 0.75),
	}
	for _, smp := range in {
		require.NoError(t, s.Samples().AppendSample(ctx, smp))
	}
	require.NoError(t, s.Samples().AppendSample(ctx, sampleAt(sess.ID, now.Add(-5*time.Minute), 0.1)))
	require.NoError(t, s.Samples().AppendSample(ctx, sampleAt(sess.ID, now.Add(time.Second), 0.99)))
	require.NoError(t, s.Samples().AppendSample(ctx, sampleAt(other.ID, now, 0.5)))

	t.Run("window bounds", func(t *testing.T) {
		got, err := s.Samples().QuerySamples(ctx, sess.ID, domain.TrailingWindow(now, time.Minute))
		require.NoError(t, err)
		require.Equal(t, in, got)
	})

	t.Run("older samples come back with a wider window", func(t *testing.T) {
		got, err := s.Samples().QuerySamples(ctx, sess.ID, domain.TrailingWindow(now, 10*time.Minute))
		require.NoError(t, err)
		require.Len(t, got, 4)
		require.InDelta(t, 0.1, got[0].FrustrationScore, 1e-12)
	})

	t.Run("since is exclusive", func(t *testing.T) {
		got, err := s.Samples().QuerySamples(ctx, sess.ID, domain.TrailingWindow(now, 50*time.Second))
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("empty window", func(t *testing.T) {
		got, err := s.Samples().QuerySamples(ctx, sess.ID, domain.TrailingWindow(now, 0))
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("unknown session writes nothing", func(t *testing.T) {
		ghost := uuid.NewString()
		require.ErrorIs(t, s.Samples().AppendSample(ctx, sampleAt(ghost, now, 0.5)), store.ErrNotFound)

		got, err := s.Samples().QuerySamples(ctx, ghost, domain.TrailingWindow(now, time.Hour))
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	p := seedPrincipal(t, s, "ada@example.com")
	sess := seedSession(t, s, p.ID, base)

	const writers, each = 8, 25
	now := base.Add(time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, writers*each)
	for w := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range each {
				smp := sampleAt(sess.ID, now.Add(-time.Duration(w*each+i)*time.Millisecond), 0.5)
				smp.Metadata = fmt.Sprintf(`{"writer":%d,"i":%d}`, w, i)
				errs <- s.Samples().AppendSample(ctx, smp)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Samples().QuerySamples(ctx, sess.ID, domain.TrailingWindow(now, time.Hour))
	require.NoError(t, err)
	require.Len(t, got, writers*each)

	ids := make(map[string]struct{}, len(got))
	for _, smp := range got {
		ids[smp.ID] = struct{}{}
	}
	require.Len(t, ids, writers*each)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.WithTx(ctx, func(tx store.Tx) error {
		seedPrincipal(t, tx, "ada@example.com")
		return fmt.Errorf("abort")
	})
	require.EqualError(t, err, "abort")

	empty, err := s.Principals().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestInMemory(t *testing.T) {
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.ApplyMigrations())

	seedPrincipal(t, s, "ada@example.com")
	empty, err := s.Principals().IsEmpty(context.Background())
	require.NoError(t, err)
	require.False(t, empty)
}
