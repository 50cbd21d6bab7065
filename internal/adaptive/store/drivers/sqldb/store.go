package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/domain"
	"github.com/aussiebroadwan/adaptive/internal/adaptive/store"
)

// Store implements everything in store.Store except ApplyMigrations, which
// each driver adds since the migration sets differ.
type Store struct {
	db *sql.DB
	d  Dialect
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, d: d}
}

// DB exposes the pool to the driver packages for migrations.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &txStore{tx: tx, c: conn{db: tx, d: s.d}}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) conn() conn { return conn{db: s.db, d: s.d} }

func (s *Store) Principals() store.Principals { return &principalsRepo{c: s.conn()} }
func (s *Store) Sessions() store.Sessions     { return &sessionsRepo{c: s.conn()} }
func (s *Store) Samples() store.Samples       { return &samplesRepo{c: s.conn()} }

type txStore struct {
	tx *sql.Tx
	c  conn
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the pool stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op, the transaction already holds a live connection.
func (t *txStore) Ping(context.Context) error { return nil }

func (t *txStore) Tx(context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(context.Context, func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

// ApplyMigrations is a no-op; migrations run before any transaction.
func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Principals() store.Principals { return &principalsRepo{c: t.c} }
func (t *txStore) Sessions() store.Sessions     { return &sessionsRepo{c: t.c} }
func (t *txStore) Samples() store.Samples       { return &samplesRepo{c: t.c} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// Instants are stored as unix nanoseconds in UTC so both backends compare
// them the same way.
func toNanos(t time.Time) int64 { return t.UTC().UnixNano() }

func fromNanos(n int64) time.Time { return time.Unix(0, n).UTC() }

// clampNanos pins a query bound into the storable range so it cannot wrap.
func clampNanos(t time.Time) int64 {
	switch {
	case t.Before(domain.EarliestTimestamp):
		return math.MinInt64
	case t.After(domain.LatestTimestamp):
		return math.MaxInt64
	}
	return toNanos(t)
}

func mapNullNanos(n sql.NullInt64) *time.Time {
	if !n.Valid {
		return nil
	}
	t := fromNanos(n.Int64)
	return &t
}

func mapOptionalNanos(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toNanos(*t), Valid: true}
}

func mapNullStringPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

func mapOptionalString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
