package postgres

import (
	"database/sql"
	"errors"
	"time"

	"github.com/aussiebroadwan/adaptive/internal/adaptive/store/drivers/sqldb"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store is the postgres backend over pgx's database/sql driver.
type Store struct {
	*sqldb.Store
}

var dialect = sqldb.Dialect{
	Name:                  "postgres",
	Numbered:              true,
	IsUniqueViolation:     pgCode("23505"),
	IsForeignKeyViolation: pgCode("23503"),
}

// NewStore opens a pool against dsn. It doesn't connect until first use;
// call Ping to check reachability.
func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{Store: sqldb.New(db, dialect)}, nil
}

func pgCode(code string) func(error) bool {
	return func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == code
	}
}
