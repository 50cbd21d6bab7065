package domain

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "ACTIVE"
	SessionEnded  SessionStatus = "ENDED"
)

// Session is a learning activity that samples are attached to. Samples only
// ever reference it by ID.
type Session struct {
	ID          string // UUID
	PrincipalID string
	LessonID    string
	Status      SessionStatus
	StartedAt   time.Time
	EndedAt     *time.Time
}
