package dialect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names.
const (
	MySQL    = "mysql"
	Postgres = "postgres"
	SQLite   = "sqlite"
)

// ErrUnsupported is returned for dialect names the generator cannot open.
var ErrUnsupported = errors.New("nabu: unsupported dialect")

var aliases = map[string]string{
	MySQL:        MySQL,
	"mariadb":    MySQL,
	Postgres:     Postgres,
	"postgresql": Postgres,
	"pg":         Postgres,
	SQLite:       SQLite,
	"sqlite3":    SQLite,
}

// Supported returns the canonical dialect names.
func Supported() []string {
	return []string{MySQL, Postgres, SQLite}
}

// Normalize maps a dialect name or one of its aliases to the canonical name.
// An empty name selects MySQL.
func Normalize(name string) (string, error) {
	if name == "" {
		return MySQL, nil
	}
	if canonical, ok := aliases[strings.ToLower(name)]; ok {
		return canonical, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, name)
}

// PrepareDSN validates dsn for the dialect and applies the connection
// settings the describers rely on.
func PrepareDSN(name, dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("nabu: empty dsn")
	}
	if name != MySQL {
		return dsn, nil
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("nabu: invalid mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// Open opens and pings a connection for the named dialect.
func Open(ctx context.Context, name, dsn string) (*sql.DB, error) {
	name, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	dsn, err = PrepareDSN(name, dsn)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("nabu: open %s: %w", name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("nabu: connect %s: %w", name, err)
	}
	return db, nil
}

// OpenX is like Open but returns the connection wrapped by sqlx.
func OpenX(ctx context.Context, name, dsn string) (*sqlx.DB, error) {
	name, err := Normalize(name)
	if err != nil {
		return nil, err
	}
	db, err := Open(ctx, name, dsn)
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(db, name), nil
}
