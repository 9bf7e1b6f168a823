package store

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Config describes the connection to open. DSN, when set, is passed to the
// driver unchanged; otherwise one is built from the other fields. For
// sqlite, Database is the file path (or ":memory:").
type Config struct {
	Driver   string
	DSN      string
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (c Config) dataSourceName() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}

	d, err := DialectFor(c.Driver)
	if err != nil {
		return "", err
	}

	switch d.Name {
	case MySQL.Name:
		cfg := mysql.NewConfig()
		cfg.User = c.User
		cfg.Passwd = c.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(c.Host, c.Port)
		cfg.DBName = c.Database
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case Postgres.Name:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Password),
			Host:     net.JoinHostPort(c.Host, c.Port),
			Path:     "/" + c.Database,
			RawQuery: "sslmode=disable",
		}
		return u.String(), nil
	case SQLite.Name:
		if c.Database == "" {
			return "", fmt.Errorf("sqlite requires a database path")
		}
		return c.Database, nil
	}

	return "", fmt.Errorf("unsupported driver %q", c.Driver)
}

// Connect opens the database described by config. Supported drivers are
// mysql, pgx, postgres (lib/pq) and sqlite. The other names DialectFor knows
// open the registered driver of the same dialect.
func Connect(config Config) (*sqlx.DB, error) {
	dsn, err := config.dataSourceName()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(registeredDriver(config.Driver), dsn)
	if err != nil {
		return nil, err
	}

	if d, _ := DialectFor(config.Driver); d.Name == SQLite.Name {
		// every connection to an in-memory sqlite database is a new database
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

// registeredDriver maps a driver name to one registered by the imports of
// this file.
func registeredDriver(name string) string {
	switch strings.ToLower(name) {
	case "mysql", "nrmysql":
		return "mysql"
	case "postgres":
		return "postgres"
	case "pgx", "nrpostgres", "cloudsqlpostgres":
		return "pgx"
	case "sqlite", "sqlite3", "nrsqlite3":
		return "sqlite"
	}
	return name
}
