package sqldb

import (
	"context"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
)

type samplesRepo struct {
	c conn
}

// AppendSample is a single INSERT, so a sample is either fully stored or not
// at all. The foreign key on session_id closes the gap between a caller's
// existence check and the write.
func (r *samplesRepo) AppendSample(ctx context.Context, s domain.Sample) error {
	if !domain.Representable(s.Timestamp) || !domain.Representable(s.RecordedAt) {
		return store.ErrOutOfRange
	}
	_, err := r.c.exec(ctx, `
		INSERT INTO emotion_samples (id, session_id, ts, frustration_score, face_detected, metadata, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.SessionID, toNanos(s.Timestamp), s.FrustrationScore, s.FaceDetected, s.Metadata, toNanos(s.RecordedAt),
	)
	switch {
	case r.c.d.foreignKeyViolation(err):
		return store.ErrNotFound
	case r.c.d.uniqueViolation(err):
		return store.ErrAlreadyExists
	}
	return err
}

func (r *samplesRepo) QuerySamples(ctx context.Context, sessionID string, w domain.Window) ([]domain.Sample, error) {
	if w.Empty() {
		return nil, nil
	}

	rows, err := r.c.query(ctx, `
		SELECT id, session_id, ts, frustration_score, face_detected, metadata, recorded_at
		FROM emotion_samples
		WHERE session_id = ? AND ts > ? AND ts <= ?
		ORDER BY ts, id`,
		sessionID, clampNanos(w.Since), clampNanos(w.Until),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sample
	for rows.Next() {
		var (
			s            domain.Sample
			ts, recorded int64
		)
		if err := rows.Scan(&s.ID, &s.SessionID, &ts, &s.FrustrationScore, &s.FaceDetected, &s.Metadata, &recorded); err != nil {
			return nil, err
		}
		s.Timestamp = fromNanos(ts)
		s.RecordedAt = fromNanos(recorded)
		out = append(out, s)
	}
	return out, rows.Err()
}
