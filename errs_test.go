package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"pgx unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, true},
		{"pgx fk", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, false},
		{"pq unique", &pq.Error{Code: pgerrcode.UniqueViolation}, true},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"mysql other", &mysql.MySQLError{Number: 1146}, false},
		{"wrapped", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"plain", errors.New("boom"), false},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, IsDuplicate(c.err), c.name)
	}
}

func TestErrorCarriesBackendCode(t *testing.T) {
	err := newError(KindExecution, "insert", "INSERT INTO users (email) VALUES (:v0)", &pgconn.PgError{Code: pgerrcode.UniqueViolation, Message: "duplicate key"})

	assert.Equal(t, pgerrcode.UniqueViolation, err.Code)
	assert.True(t, IsKind(err, KindExecution))
	assert.False(t, IsKind(err, KindPrepare))
	assert.True(t, IsDuplicate(err))
	assert.Contains(t, err.Error(), "insert: execution failed [23505]")

	myErr := newError(KindExecution, "update", "", &mysql.MySQLError{Number: 1452})
	assert.Equal(t, "1452", myErr.Code)

	assert.False(t, IsKind(errors.New("boom"), KindExecution))
}
