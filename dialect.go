package store

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

func init() {
	// modernc.org/sqlite registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Dialect captures the few places where the generated SQL differs between
// backends.
type Dialect struct {
	Name string
	// CommaLimit renders "LIMIT offset, count" instead of
	// "LIMIT count OFFSET offset".
	CommaLimit bool
	// LastInsertID is true when the driver reports generated keys through
	// sql.Result. Otherwise inserts use RETURNING.
	LastInsertID bool
}

var (
	MySQL    = Dialect{Name: "mysql", CommaLimit: true, LastInsertID: true}
	Postgres = Dialect{Name: "postgres", LastInsertID: false}
	SQLite   = Dialect{Name: "sqlite", LastInsertID: true}
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driverName string) (Dialect, error) {
	switch strings.ToLower(driverName) {
	case "mysql", "nrmysql":
		return MySQL, nil
	case "pgx", "postgres", "nrpostgres", "cloudsqlpostgres":
		return Postgres, nil
	case "sqlite", "sqlite3", "nrsqlite3":
		return SQLite, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver %q", driverName)
	}
}

func (d Dialect) limitClause(l Limit) string {
	l = l.normalize()
	if !l.HasOffset {
		return fmt.Sprintf(" LIMIT %d", l.Count)
	}
	if d.CommaLimit {
		return fmt.Sprintf(" LIMIT %d, %d", l.Offset, l.Count)
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", l.Count, l.Offset)
}
