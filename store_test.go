package store

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"gopkg.in/guregu/null.v4"
)

const usersDDL = `CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL UNIQUE,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	country_id INTEGER NULL,
	avatar TEXT NULL
)`

type testUser struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	CountryID null.Int
	Avatar    null.String
	Password  string `attr:"-"`
}

func (testUser) GetTableDef() TableDef {
	return TableDef{
		Name:     "users",
		KeyField: "id",
		Fields:   []string{"email", "firstName", "lastName", "countryId", "avatar"},
	}
}

func (u testUser) Validate() error {
	if !bytes.ContainsRune([]byte(u.Email), '@') {
		return errors.New("email is not valid")
	}
	return nil
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := Connect(Config{Driver: "sqlite", Database: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	db.MustExec(usersDDL)
	return db
}

// newTestRepo returns a users repository whose builder logs every statement
// into the returned buffer.
func newTestRepo(t *testing.T) (*Repository[testUser], *sqlx.DB, *bytes.Buffer) {
	t.Helper()

	db := newTestDB(t)
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	b, err := NewBuilder(db, WithLogger(logger))
	require.NoError(t, err)

	repo, err := NewRepository[testUser](b)
	require.NoError(t, err)

	return repo, db, &logs
}
