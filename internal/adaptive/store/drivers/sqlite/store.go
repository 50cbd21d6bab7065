package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/sqldb"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store is the sqlite backend. The shared repositories come from sqldb.
type Store struct {
	*sqldb.Store
}

var dialect = sqldb.Dialect{
	Name:                  "sqlite",
	IsUniqueViolation:     constraintViolation("UNIQUE"),
	IsForeignKeyViolation: constraintViolation("FOREIGN KEY"),
}

// NewStore opens the database file at path, or a private in-memory database
// for ":memory:". Pragmas go in the DSN so every pooled connection gets them.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, err
	}

	if path == ":memory:" {
		// Each connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	return &Store{Store: sqldb.New(db, dialect)}, nil
}

// DSN builds the modernc connection string for path.
func DSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	if path != ":memory:" {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	q.Set("_txlock", "immediate")

	if strings.HasPrefix(path, "file:") {
		return path + "?" + q.Encode()
	}
	return fmt.Sprintf("file:%s?%s", path, q.Encode())
}

// constraintViolation matches sqlite constraint errors of one kind. The
// message is checked as well as the code because extended result codes are
// not guaranteed to be enabled.
func constraintViolation(kind string) func(error) bool {
	return func(err error) bool {
		var se *sqlite.Error
		if !errors.As(err, &se) {
			return false
		}
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(se.Error(), kind+" constraint failed")
	}
}
