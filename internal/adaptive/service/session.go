package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
	"github.com/aussiebroadwan/adaptive/pkg/slogx"
	"github.com/google/uuid"
)

type SessionService struct {
	Store   store.Store
	Timeout time.Duration
	Now     func() time.Time
}

// Start opens an ACTIVE session for principalID on lessonID.
func (s *SessionService) Start(ctx context.Context, principalID, lessonID string) (domain.Session, error) {
	sess := domain.Session{
		ID:          uuid.NewString(),
		PrincipalID: principalID,
		LessonID:    strings.TrimSpace(lessonID),
		Status:      domain.SessionActive,
		StartedAt:   nowFunc(s.Now),
	}

	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	switch err := s.Store.Sessions().CreateSession(sctx, sess); {
	case errors.Is(err, store.ErrNotFound):
		return domain.Session{}, ErrPrincipalNotFound
	case err != nil:
		slogx.FromContext(ctx).Error("failed to create session", slog.Any("error", err))
		return domain.Session{}, dependency("create session", err)
	}

	slogx.FromContext(ctx).Info("session started",
		slog.String("session_id", sess.ID),
		slog.String("lesson_id", sess.LessonID),
	)
	return sess, nil
}

// End marks the session ENDED. Ending twice is fine.
func (s *SessionService) End(ctx context.Context, id string) error {
	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	switch err := s.Store.Sessions().EndSession(sctx, id, nowFunc(s.Now)); {
	case errors.Is(err, store.ErrNotFound):
		return ErrSessionNotFound
	case err != nil:
		slogx.FromContext(ctx).Error("failed to end session", slog.String("session_id", id), slog.Any("error", err))
		return dependency("end session", err)
	}
	return nil
}

func (s *SessionService) Get(ctx context.Context, id string) (domain.Session, error) {
	sctx, cancel := storeContext(ctx, s.Timeout)
	defer cancel()

	sess, err := s.Store.Sessions().GetSession(sctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Session{}, ErrSessionNotFound
	case err != nil:
		return domain.Session{}, dependency("get session", err)
	}
	return sess, nil
}
