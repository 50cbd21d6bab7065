package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/service"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/jwtx"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type emotionFixture struct {
	store   store.Store
	emotion *service.EmotionService
	session domain.Session
	now     time.Time
}

func newEmotionFixture(t *testing.T) emotionFixture {
	t.Helper()
	st := newStore(t)
	now := base.Add(time.Hour)

	principals := &service.PrincipalService{Store: st, Hasher: newHasher(), Now: clock(base)}
	p, _ := createPrincipal(t, principals, "learner@example.com", jwtx.RoleStudent, false)

	sessions := &service.SessionService{Store: st, Now: clock(base)}
	sess, err := sessions.Start(context.Background(), p.ID, "lesson-42")
	require.NoError(t, err)

	return emotionFixture{
		store:   st,
		emotion: &service.EmotionService{Store: st, Now: clock(now)},
		session: sess,
		now:     now,
	}
}

func (f emotionFixture) record(t *testing.T, ts time.Time, score float64) string {
	t.Helper()
	id, err := f.emotion.Record(context.Background(), service.RecordInput{
		SessionID:        f.session.ID,
		Timestamp:        ts.Format(time.RFC3339Nano),
		FrustrationScore: score,
		FaceDetected:     true,
		Metadata:         `{"source":"webcam"}`,
	})
	require.NoError(t, err)
	return id
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	f := newEmotionFixture(t)

	t.Run("stores the sample verbatim", func(t *testing.T) {
		ts := f.now.Add(-time.Second)
		id := f.record(t, ts, 1.7)
		require.NotEmpty(t, id)

		got, err := f.store.Samples().QuerySamples(ctx, f.session.ID, domain.TrailingWindow(f.now, time.Minute))
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, id, got[0].ID)
		require.Equal(t, ts, got[0].Timestamp)
		require.InDelta(t, 1.7, got[0].FrustrationScore, 1e-12, "scores are not range checked")
		require.Equal(t, `{"source":"webcam"}`, got[0].Metadata)
		require.Equal(t, f.now, got[0].RecordedAt)
	})

	t.Run("accepts any offset", func(t *testing.T) {
		_, err := f.emotion.Record(ctx, service.RecordInput{
			SessionID: f.session.ID,
			Timestamp: "2025-11-30T15:59:30+02:00",
		})
		require.NoError(t, err)
	})

	t.Run("invalid timestamps", func(t *testing.T) {
		for _, raw := range []string{"", "yesterday", "2025-11-30", "2025-11-30T13:00:00", "1764507600"} {
			_, err := f.emotion.Record(ctx, service.RecordInput{SessionID: f.session.ID, Timestamp: raw})
			require.ErrorIs(t, err, service.ErrInvalidTimestamp, raw)
		}
	})

	t.Run("timestamps outside the storable range", func(t *testing.T) {
		f := newEmotionFixture(t)
		for _, raw := range []string{
			"0001-01-01T00:00:00Z",
			"1677-09-21T00:12:43.145224192Z",
			"2262-04-11T23:47:16.854775808Z",
			"2610-06-21T13:34:32.709551616Z",
		} {
			_, err := f.emotion.Record(ctx, service.RecordInput{SessionID: f.session.ID, Timestamp: raw, FrustrationScore: 0.95})
			require.ErrorIs(t, err, service.ErrInvalidTimestamp, raw)
		}

		all, err := f.store.Samples().QuerySamples(ctx, f.session.ID, domain.Window{Since: domain.EarliestTimestamp.Add(-time.Hour), Until: domain.LatestTimestamp.Add(time.Hour)})
		require.NoError(t, err)
		require.Empty(t, all)

		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Zero(t, stats.TotalEvents)
	})

	t.Run("range edges are storable", func(t *testing.T) {
		f := newEmotionFixture(t)
		for _, ts := range []time.Time{domain.EarliestTimestamp, domain.LatestTimestamp} {
			f.record(t, ts, 0.5)
		}

		got, err := f.store.Samples().QuerySamples(ctx, f.session.ID, domain.Window{Since: domain.EarliestTimestamp.Add(-time.Nanosecond), Until: domain.LatestTimestamp})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, domain.EarliestTimestamp, got[0].Timestamp)
		require.Equal(t, domain.LatestTimestamp, got[1].Timestamp)

		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Zero(t, stats.TotalEvents)
	})

	t.Run("unknown session fails and writes nothing", func(t *testing.T) {
		ghost := uuid.NewString()
		for _, raw := range []string{f.now.Format(time.RFC3339), "not a time"} {
			_, err := f.emotion.Record(ctx, service.RecordInput{SessionID: ghost, Timestamp: raw, FrustrationScore: 0.9})
			require.ErrorIs(t, err, service.ErrSessionNotFound)
		}

		got, err := f.store.Samples().QuerySamples(ctx, ghost, domain.TrailingWindow(f.now, 24*time.Hour))
		require.NoError(t, err)
		require.Empty(t, got)

		_, err = f.emotion.Record(ctx, service.RecordInput{SessionID: "", Timestamp: f.now.Format(time.RFC3339)})
		require.ErrorIs(t, err, service.ErrSessionNotFound)
	})

	t.Run("ended sessions still accept samples", func(t *testing.T) {
		require.NoError(t, f.store.Sessions().EndSession(ctx, f.session.ID, f.now))
		f.record(t, f.now, 0.1)
	})
}

func TestRecordConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newEmotionFixture(t)

	const callers = 40
	ids := make(chan string, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := f.emotion.Record(ctx, service.RecordInput{
				SessionID:        f.session.ID,
				Timestamp:        f.now.Add(-time.Duration(i%5) * time.Second).Format(time.RFC3339),
				FrustrationScore: 0.5,
				Metadata:         fmt.Sprintf(`{"frame":%d}`, i),
			})
			ids <- id
			errs <- err
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := map[string]struct{}{}
	for id := range ids {
		seen[id] = struct{}{}
	}
	require.Len(t, seen, callers)

	stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
	require.NoError(t, err)
	require.Equal(t, callers, stats.TotalEvents)
}

func TestStats(t *testing.T) {
	ctx := context.Background()

	t.Run("no samples is all zero", func(t *testing.T) {
		f := newEmotionFixture(t)
		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Equal(t, domain.WindowStats{SessionID: f.session.ID, Window: time.Minute}, stats)
	})

	t.Run("aggregates the window", func(t *testing.T) {
		f := newEmotionFixture(t)
		f.record(t, f.now.Add(-30*time.Second), 0.2)
		f.record(t, f.now.Add(-20*time.Second), 0.9)
		f.record(t, f.now.Add(-10*time.Second), 0.75)

		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.InDelta(t, (0.2+0.9+0.75)/3, stats.AverageFrustration, 1e-9)
		require.InDelta(t, 0.9, stats.MaxFrustration, 1e-12)
		require.Equal(t, 2, stats.CountHighFrustration)
		require.Equal(t, 3, stats.TotalEvents)
	})

	t.Run("old samples drop out but stay retrievable", func(t *testing.T) {
		f := newEmotionFixture(t)
		f.record(t, f.now.Add(-5*time.Minute), 0.95)
		f.record(t, f.now.Add(-5*time.Second), 0.1)

		narrow, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Equal(t, 1, narrow.TotalEvents)
		require.Zero(t, narrow.CountHighFrustration)

		wide, err := f.emotion.Stats(ctx, f.session.ID, 10*time.Minute)
		require.NoError(t, err)
		require.Equal(t, 2, wide.TotalEvents)
		require.Equal(t, 1, wide.CountHighFrustration)
	})

	t.Run("non-positive window is empty", func(t *testing.T) {
		f := newEmotionFixture(t)
		f.record(t, f.now, 0.9)

		for _, w := range []time.Duration{0, -time.Minute} {
			stats, err := f.emotion.Stats(ctx, f.session.ID, w)
			require.NoError(t, err)
			require.Equal(t, domain.WindowStats{SessionID: f.session.ID}, stats)
		}
	})

	t.Run("future samples wait for the clock", func(t *testing.T) {
		f := newEmotionFixture(t)
		f.record(t, f.now.Add(time.Second), 0.9)

		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Zero(t, stats.TotalEvents)

		f.emotion.Now = clock(f.now.Add(time.Second))
		stats, err = f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Equal(t, 1, stats.TotalEvents)
		require.InDelta(t, 0.9, stats.MaxFrustration, 1e-12)
	})

	t.Run("custom threshold", func(t *testing.T) {
		f := newEmotionFixture(t)
		f.emotion.HighThreshold = 0.5
		f.record(t, f.now, 0.6)

		stats, err := f.emotion.Stats(ctx, f.session.ID, time.Minute)
		require.NoError(t, err)
		require.Equal(t, 1, stats.CountHighFrustration)
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newEmotionFixture(t)
		_, err := f.emotion.Stats(ctx, uuid.NewString(), time.Minute)
		require.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}

func TestEmotionDependencyFailure(t *testing.T) {
	ctx := context.Background()
	svc := &service.EmotionService{Store: closedStore(t), Now: clock(base)}

	_, err := svc.Record(ctx, service.RecordInput{SessionID: uuid.NewString(), Timestamp: base.Format(time.RFC3339)})
	require.ErrorIs(t, err, service.ErrDependency)
	require.NotErrorIs(t, err, service.ErrSessionNotFound)

	_, err = svc.Stats(ctx, uuid.NewString(), time.Minute)
	require.ErrorIs(t, err, service.ErrDependency)
}

func TestParseTimestamp(t *testing.T) {
	got, err := service.ParseTimestamp("2025-11-30T14:00:00.123+01:00")
	require.NoError(t, err)
	require.Equal(t, base.Add(123*time.Millisecond), got)
	require.Equal(t, time.UTC, got.Location())

	t.Run("storable range", func(t *testing.T) {
		got, err := service.ParseTimestamp("2262-04-11T23:47:16.854775807Z")
		require.NoError(t, err)
		require.Equal(t, domain.LatestTimestamp, got)

		got, err = service.ParseTimestamp("1677-09-21T00:12:43.145224193Z")
		require.NoError(t, err)
		require.Equal(t, domain.EarliestTimestamp, got)

		for _, raw := range []string{"0001-01-01T00:00:00Z", "1677-09-21T00:12:43.145224192Z", "2262-04-11T23:47:16.854775808Z", "9999-12-31T23:59:59Z"} {
			_, err := service.ParseTimestamp(raw)
			require.ErrorIs(t, err, service.ErrInvalidTimestamp, raw)
		}
	})
}
