package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrNoRow             = errors.New("no row")
	ErrEmptyValues       = errors.New("no values to write")
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrMissingKey        = errors.New("primary key value missing")
	ErrInvalidModel      = errors.New("invalid model")
)

// ErrorKind tells at which stage a statement failed.
type ErrorKind int

const (
	// KindPrepare: the statement text could not be prepared (bad SQL,
	// unknown table or column).
	KindPrepare ErrorKind = iota + 1
	// KindBind: a parameter was missing or could not be converted. The
	// statement was not executed.
	KindBind
	// KindExecution: the backend rejected the statement while running it.
	KindExecution
	// KindValidation: a record refused to be saved.
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrepare:
		return "prepare"
	case KindBind:
		return "bind"
	case KindExecution:
		return "execution"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is returned by every Builder and Record operation that reaches the
// database. Code holds the backend diagnostic code when one is known
// (SQLSTATE for PostgreSQL, error number for MySQL and SQLite).
type Error struct {
	Kind  ErrorKind
	Op    string
	Query string
	Code  string
	Err   error
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s failed [%s]: %s", e.Op, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, op, query string, err error) *Error {
	return &Error{
		Kind:  kind,
		Op:    op,
		Query: query,
		Code:  backendCode(err),
		Err:   err,
	}
}

// IsKind reports whether err carries an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsDuplicate reports whether err is a unique or primary key violation
// raised by any of the supported backends.
func IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgerrcode.UniqueViolation
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}

	return false
}

func backendCode(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}

	return ""
}
