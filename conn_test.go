package store

import (
	"net/url"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDataSourceName(t *testing.T) {
	dsn, err := Config{Driver: "mysql", Host: "db", Port: "3306", Database: "app", User: "root", Password: "pw"}.dataSourceName()
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "app", cfg.DBName)
	assert.True(t, cfg.ParseTime)

	dsn, err = Config{Driver: "pgx", Host: "db", Port: "5432", Database: "app", User: "app", Password: "pw"}.dataSourceName()
	require.NoError(t, err)
	u, err := url.Parse(dsn)
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/app", u.Path)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	dsn, err = Config{Driver: "postgres", DSN: "postgres://x/y"}.dataSourceName()
	require.NoError(t, err)
	assert.Equal(t, "postgres://x/y", dsn)

	_, err = Config{Driver: "sqlite"}.dataSourceName()
	assert.Error(t, err)

	_, err = Config{Driver: "oracle", Database: "x"}.dataSourceName()
	assert.Error(t, err)
}

func TestDialectFor(t *testing.T) {
	for driver, want := range map[string]Dialect{
		"mysql":    MySQL,
		"pgx":      Postgres,
		"postgres": Postgres,
		"sqlite":   SQLite,
		"sqlite3":  SQLite,
	} {
		d, err := DialectFor(driver)
		require.NoError(t, err)
		assert.Equal(t, want, d, driver)
	}

	_, err := DialectFor("godror")
	assert.Error(t, err)
}

func TestConnectDriverAlias(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite3", Database: ":memory:"})
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.DriverName())
	require.NoError(t, db.Ping())

	for alias, want := range map[string]string{
		"nrmysql":          "mysql",
		"nrpostgres":       "pgx",
		"cloudsqlpostgres": "pgx",
		"postgres":         "postgres",
		"nrsqlite3":        "sqlite",
	} {
		assert.Equal(t, want, registeredDriver(alias), alias)
	}
}
