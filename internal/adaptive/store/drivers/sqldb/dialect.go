// Package sqldb holds the database/sql repositories shared by the sqlite and
// postgres drivers. Queries are written with ? placeholders and rebound per
// dialect.
package sqldb

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect captures what differs between the backends.
type Dialect struct {
	Name string

	// Numbered placeholders ($1, $2, ...) instead of ?.
	Numbered bool

	IsUniqueViolation     func(error) bool
	IsForeignKeyViolation func(error) bool
}

// Rebind rewrites ? placeholders for the dialect. Queries in this package
// never contain a literal ?.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d Dialect) uniqueViolation(err error) bool {
	return err != nil && d.IsUniqueViolation != nil && d.IsUniqueViolation(err)
}

func (d Dialect) foreignKeyViolation(err error) bool {
	return err != nil && d.IsForeignKeyViolation != nil && d.IsForeignKeyViolation(err)
}

// conn pairs a DBTX with its dialect. Every repository is built on one.
type conn struct {
	db DBTX
	d  Dialect
}

func (c conn) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.db.ExecContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.db.QueryContext(ctx, c.d.Rebind(query), args...)
}

func (c conn) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return c.db.QueryRowContext(ctx, c.d.Rebind(query), args...)
}
