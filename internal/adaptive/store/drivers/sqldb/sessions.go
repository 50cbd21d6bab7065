package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
)

type sessionsRepo struct {
	c conn
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.c.exec(ctx,
		`INSERT INTO sessions (id, principal_id, lesson_id, status, started_at, ended_at) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.PrincipalID, s.LessonID, string(s.Status), toNanos(s.StartedAt), mapOptionalNanos(s.EndedAt),
	)
	switch {
	case r.c.d.uniqueViolation(err):
		return store.ErrAlreadyExists
	case r.c.d.foreignKeyViolation(err):
		return store.ErrNotFound
	}
	return err
}

func (r *sessionsRepo) GetSession(ctx context.Context, id string) (domain.Session, error) {
	var (
		s       domain.Session
		status  string
		started int64
		ended   sql.NullInt64
	)
	err := r.c.queryRow(ctx,
		`SELECT id, principal_id, lesson_id, status, started_at, ended_at FROM sessions WHERE id = ?`, id,
	).Scan(&s.ID, &s.PrincipalID, &s.LessonID, &status, &started, &ended)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.Status = domain.SessionStatus(status)
	s.StartedAt = fromNanos(started)
	s.EndedAt = mapNullNanos(ended)
	return s, nil
}

func (r *sessionsRepo) SessionExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.c.queryRow(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *sessionsRepo) EndSession(ctx context.Context, id string, at time.Time) error {
	res, err := r.c.exec(ctx,
		`UPDATE sessions SET status = ?, ended_at = ? WHERE id = ? AND status = ?`,
		string(domain.SessionEnded), toNanos(at), id, string(domain.SessionActive),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	// Nothing changed: either already ended or unknown.
	exists, err := r.SessionExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return nil
}

func (r *sessionsRepo) EndIdleSessions(ctx context.Context, idleBefore, at time.Time) (int64, error) {
	cutoff := toNanos(idleBefore)
	res, err := r.c.exec(ctx, `
		UPDATE sessions SET status = ?, ended_at = ?
		WHERE status = ? AND started_at < ?
		  AND NOT EXISTS (
		    SELECT 1 FROM emotion_samples e
		    WHERE e.session_id = sessions.id AND e.recorded_at >= ?
		  )`,
		string(domain.SessionEnded), toNanos(at), string(domain.SessionActive), cutoff, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
