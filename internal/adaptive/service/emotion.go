package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/idx"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
)

// EmotionService is the telemetry ingest and the windowed aggregator.
type EmotionService struct {
	Store store.Store

	// HighThreshold is the score a sample must exceed to count as high.
	// Zero means domain.DefaultHighThreshold.
	HighThreshold float64

	Timeout time.Duration
	Now     func() time.Time
}

// RecordInput is one observation as the caller sent it.
type RecordInput struct {
	SessionID        string
	Timestamp        string // RFC 3339 with offset
	FrustrationScore float64
	FaceDetected     bool
	Metadata         string
}

// Record appends a sample and returns its id. The session is checked before
// the timestamp, and nothing is written unless both pass. The score is
// stored as given.
func (s *EmotionService) Record(ctx context.Context, in RecordInput) (string, error) {
	l := slogx.FromContext(ctx)

	exists, err := s.sessionExists(ctx, in.SessionID)
	if err != nil {
		l.Error("session lookup failed", slog.String("session_id", in.SessionID), slog.Any("error", err))
		return "", err
	}
	if !exists {
		return "", ErrSessionNotFound
	}

	ts, err := ParseTimestamp(in.Timestamp)
	if err != nil {
		return "", err
	}

	now := nowFunc(s.Now)
	sample := domain.Sample{
		ID:               idx.NewAt(now).String(),
		SessionID:        in.SessionID,
		Timestamp:        ts,
		FrustrationScore: in.FrustrationScore,
		FaceDetected:     in.FaceDetected,
		Metadata:         in.Metadata,
		RecordedAt:       now,
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	switch err := s.Store.Samples().AppendSample(sctx, sample); {
	case errors.Is(err, store.ErrNotFound):
		// The session vanished between the check and the insert.
		return "", ErrSessionNotFound
	case errors.Is(err, store.ErrOutOfRange):
		return "", ErrInvalidTimestamp
	case err != nil:
		l.Error("failed to append sample", slog.String("session_id", in.SessionID), slog.Any("error", err))
		return "", dependency("append sample", err)
	}

	return sample.ID, nil
}

// Stats aggregates the session's samples with a timestamp in
// (now-window, now]. A non-positive window is valid and yields zeroes.
func (s *EmotionService) Stats(ctx context.Context, sessionID string, window time.Duration) (domain.WindowStats, error) {
	exists, err := s.sessionExists(ctx, sessionID)
	if err != nil {
		slogx.FromContext(ctx).Error("session lookup failed", slog.String("session_id", sessionID), slog.Any("error", err))
		return domain.WindowStats{}, err
	}
	if !exists {
		return domain.WindowStats{}, ErrSessionNotFound
	}

	w := domain.TrailingWindow(nowFunc(s.Now), window)

	var samples []domain.Sample
	if !w.Empty() {
		sctx, cancel := storeContext(ctx, s.Timeout)
		defer cancel()

		samples, err = s.Store.Samples().QuerySamples(sctx, sessionID, w)
		if err != nil {
			slogx.FromContext(ctx).Error("failed to query samples", slog.String("session_id", sessionID), slog.Any("error", err))
			return domain.WindowStats{}, dependency("query samples", err)
		}
	}

	stats := domain.Aggregate(sessionID, samples, s.threshold())
	stats.Window = max(window, 0)
	return stats, nil
}

func (s *EmotionService) threshold() float64 {
	if s.HighThreshold == 0 {
		return domain.DefaultHighThreshold
	}
	return s.HighThreshold
}

func (s *EmotionService) sessionExists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, nil
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	ok, err := s.Store.Sessions().SessionExists(sctx, id)
	if err != nil {
		return false, dependency("session exists", err)
	}
	return ok, nil
}

// ParseTimestamp accepts RFC 3339 instants with an explicit offset, with or
// without fractional seconds. Instants outside the storable range of
// domain.EarliestTimestamp to domain.LatestTimestamp are rejected.
func ParseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidTimestamp
	}
	if !domain.Representable(ts) {
		return time.Time{}, ErrInvalidTimestamp
	}
	return ts.UTC(), nil
}
