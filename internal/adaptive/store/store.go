package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrOutOfRange    = errors.New("store: timestamp out of range")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and so a transaction can't be opened from inside another one.
type Store interface {
	Principals() Principals
	Sessions() Sessions
	Samples() Samples

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Principals backs the identity lookup and login.
type Principals interface {
	GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error)

	// GetPrincipalByEmail is the subject lookup.
	GetPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error)

	// CreatePrincipal inserts p. A taken email is ErrAlreadyExists.
	CreatePrincipal(ctx context.Context, p domain.Principal) error

	SetActive(ctx context.Context, id string, active bool, at time.Time) error

	UpdatePasswordHash(ctx context.Context, id, hash string, at time.Time) error

	// IsEmpty returns true if there are no principals.
	IsEmpty(ctx context.Context) (bool, error)
}

// Sessions is the session index samples are checked against.
type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	GetSession(ctx context.Context, id string) (domain.Session, error)

	// SessionExists is true for a session in any status.
	SessionExists(ctx context.Context, id string) (bool, error)

	// EndSession marks an ACTIVE session ENDED at the given time. Ending an
	// ended session changes nothing. Unknown ids are ErrNotFound.
	EndSession(ctx context.Context, id string, at time.Time) error

	// EndIdleSessions ends ACTIVE sessions started before idleBefore that have
	// received no sample since idleBefore. It returns how many were ended.
	EndIdleSessions(ctx context.Context, idleBefore, at time.Time) (int64, error)
}

// Samples is the append-only event store.
type Samples interface {
	// AppendSample stores one sample. A sample for a session that does not
	// exist is ErrNotFound and nothing is written. A timestamp outside
	// domain.EarliestTimestamp to domain.LatestTimestamp is ErrOutOfRange.
	AppendSample(ctx context.Context, s domain.Sample) error

	// QuerySamples returns the session's samples with a timestamp inside w,
	// oldest first.
	QuerySamples(ctx context.Context, sessionID string, w domain.Window) ([]domain.Sample, error)
}
