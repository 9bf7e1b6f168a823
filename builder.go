package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cast"
)

// Conn is the connection capability the builder needs. *sqlx.DB and
// *sqlx.Tx both satisfy it.
type Conn interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
	DriverName() string
}

// Builder generates parameterized statements for single-table CRUD and runs
// them against the connection it was created with. Every call prepares a
// fresh statement.
type Builder struct {
	conn    Conn
	dialect Dialect
	logger  *slog.Logger
}

func NewBuilder(conn Conn, options ...BuilderOption) (*Builder, error) {
	opt := &builderOption{}
	for _, op := range options {
		op(opt)
	}

	b := &Builder{
		conn:   conn,
		logger: opt.logger,
	}

	if b.logger == nil {
		b.logger = discardLogger()
	}

	if opt.dialect != nil {
		b.dialect = *opt.dialect
	} else {
		d, err := DialectFor(conn.DriverName())
		if err != nil {
			return nil, err
		}
		b.dialect = d
	}

	return b, nil
}

func (b *Builder) Dialect() Dialect {
	return b.dialect
}

// Select reads the rows of table matching cond.
func (b *Builder) Select(ctx context.Context, table string, cond Condition) (*Cursor, error) {
	st, err := BuildSelect(b.dialect, table, cond)
	if err != nil {
		return nil, buildError("select", err)
	}
	return b.run(ctx, "select", st)
}

// Insert writes one row. The generated key, if any, is available from the
// cursor's LastInsertID.
func (b *Builder) Insert(ctx context.Context, table string, values Values) (*Cursor, error) {
	st, err := BuildInsert(table, values)
	if err != nil {
		return nil, buildError("insert", err)
	}
	return b.run(ctx, "insert", st)
}

// InsertReturning writes one row and returns a cursor over the generated
// keyColumn value.
func (b *Builder) InsertReturning(ctx context.Context, table string, values Values, keyColumn string) (*Cursor, error) {
	st, err := BuildInsertReturning(table, values, keyColumn)
	if err != nil {
		return nil, buildError("insert", err)
	}
	return b.run(ctx, "insert", st)
}

// Update writes values to the row identified by the keyColumn entry of
// values, which must be present.
func (b *Builder) Update(ctx context.Context, table, keyColumn string, values Values) (*Cursor, error) {
	key, _ := values.Get(keyColumn)
	return b.UpdateByKey(ctx, table, keyColumn, key, values)
}

// UpdateByKey writes values to the row whose keyColumn equals key.
func (b *Builder) UpdateByKey(ctx context.Context, table, keyColumn string, key any, values Values) (*Cursor, error) {
	st, err := BuildUpdate(table, keyColumn, key, values)
	if err != nil {
		return nil, buildError("update", err)
	}
	return b.run(ctx, "update", st)
}

func (b *Builder) Delete(ctx context.Context, table, keyColumn string, key any) (*Cursor, error) {
	st, err := BuildDelete(table, keyColumn, key)
	if err != nil {
		return nil, buildError("delete", err)
	}
	return b.run(ctx, "delete", st)
}

// Exist runs a COUNT(*) over the rows matching params. The count is the
// first column of the cursor; Count reads it for you.
func (b *Builder) Exist(ctx context.Context, table string, params Values) (*Cursor, error) {
	st, err := BuildExist(table, params)
	if err != nil {
		return nil, buildError("exist", err)
	}
	return b.run(ctx, "exist", st)
}

func (b *Builder) Count(ctx context.Context, table string, params Values) (int64, error) {
	cur, err := b.Exist(ctx, table, params)
	if err != nil {
		return 0, err
	}
	defer cur.Close()

	v, err := cur.FetchColumn()
	if err != nil {
		return 0, newError(KindExecution, "exist", "", err)
	}

	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, newError(KindExecution, "exist", "", fmt.Errorf("count is not a number: %w", err))
	}
	return n, nil
}

// Execute prepares sql, binds every parameter and runs it. Statements that
// return rows (SELECT, WITH, ... RETURNING) leave an open cursor behind.
func (b *Builder) Execute(ctx context.Context, sql string, params Params) (*Cursor, error) {
	return b.run(ctx, "execute", Statement{SQL: sql, Params: params})
}

func (b *Builder) run(ctx context.Context, op string, st Statement) (*Cursor, error) {
	b.logger.DebugContext(ctx, "executing statement", "op", op, "sql", st.SQL, "params", len(st.Params))

	stmt, err := b.conn.PrepareNamedContext(ctx, st.SQL)
	if err != nil {
		b.logger.WarnContext(ctx, "prepare failed", "op", op, "sql", st.SQL, "error", err)
		return nil, newError(KindPrepare, op, st.SQL, err)
	}

	args, err := bindParams(stmt.Params, st.Params)
	if err != nil {
		stmt.Close()
		b.logger.WarnContext(ctx, "bind failed", "op", op, "sql", st.SQL, "error", err)
		return nil, newError(KindBind, op, st.SQL, err)
	}

	if returnsRows(st.SQL) {
		rows, err := stmt.Stmt.QueryxContext(ctx, args...)
		if err != nil {
			stmt.Close()
			b.logger.WarnContext(ctx, "statement failed", "op", op, "sql", st.SQL, "error", err)
			return nil, newError(KindExecution, op, st.SQL, err)
		}
		return &Cursor{stmt: stmt, rows: rows}, nil
	}

	defer stmt.Close()

	res, err := stmt.Stmt.ExecContext(ctx, args...)
	if err != nil {
		b.logger.WarnContext(ctx, "statement failed", "op", op, "sql", st.SQL, "error", err)
		return nil, newError(KindExecution, op, st.SQL, err)
	}

	return &Cursor{result: res}, nil
}

// bindParams orders params by the names the prepared statement expects.
// Every name must be bound, every param must be used and every value must
// be something a driver can take.
func bindParams(names []string, params Params) ([]any, error) {
	args := make([]any, len(names))
	for i, name := range names {
		v, ok := params.lookup(name)
		if !ok {
			return nil, fmt.Errorf("parameter :%s is not bound", name)
		}

		if _, err := driver.DefaultParameterConverter.ConvertValue(v); err != nil {
			return nil, fmt.Errorf("parameter :%s: %w", name, err)
		}

		args[i] = v
	}

	for _, p := range params {
		if !SliceContains(names, strings.TrimPrefix(p.Name, ":")) {
			return nil, fmt.Errorf("parameter %s is not used by the statement", p.Name)
		}
	}

	return args, nil
}

func buildError(op string, err error) error {
	if errors.Is(err, ErrMissingKey) {
		return newError(KindBind, op, "", err)
	}
	return newError(KindPrepare, op, "", err)
}
