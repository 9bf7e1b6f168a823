package store

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingConn struct {
	err error
}

func (c failingConn) PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error) {
	return nil, c.err
}

func (c failingConn) DriverName() string {
	return "mysql"
}

func newTestBuilder(t *testing.T) (*Builder, *sqlx.DB) {
	t.Helper()

	db := newTestDB(t)
	b, err := NewBuilder(db)
	require.NoError(t, err)
	return b, db
}

func TestNewBuilderDialect(t *testing.T) {
	b, err := NewBuilder(failingConn{})
	require.NoError(t, err)
	assert.Equal(t, MySQL, b.Dialect())

	b, err = NewBuilder(failingConn{}, WithDialect(Postgres))
	require.NoError(t, err)
	assert.Equal(t, Postgres, b.Dialect())
}

func TestBuilderInsertSelect(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t)

	cur, err := b.Insert(ctx, "users", Values{{"email", "a@example.com"}, {"first_name", "Ann"}})
	require.NoError(t, err)
	id, err := cur.LastInsertID()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = b.Insert(ctx, "users", Values{{"email", "b@example.com"}, {"first_name", "Bob"}})
	require.NoError(t, err)

	cur, err = b.Select(ctx, "users", NewCondition(Where("first_name", "Bob")))
	require.NoError(t, err)
	defer cur.Close()

	row, err := cur.FetchMap()
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "b@example.com", row["email"])
	assert.Equal(t, int64(2), row["id"])
	assert.Nil(t, row["country_id"])

	row, err = cur.FetchMap()
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestBuilderSelectPages(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := b.Insert(ctx, "users", Where("email", email))
		require.NoError(t, err)
	}

	cur, err := b.Select(ctx, "users", Condition{}.WithLimit(Page(2, 1)))
	require.NoError(t, err)
	defer cur.Close()

	var emails []any
	for {
		row, err := cur.FetchMap()
		require.NoError(t, err)
		if row == nil {
			break
		}
		emails = append(emails, row["email"])
	}
	assert.Equal(t, []any{"b@example.com", "c@example.com"}, emails)
}

func TestBuilderUpdateDeleteCount(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t)

	_, err := b.Insert(ctx, "users", Where("email", "a@example.com"))
	require.NoError(t, err)

	cur, err := b.Update(ctx, "users", "id", Values{{"first_name", "Ann"}, {"id", int64(1)}})
	require.NoError(t, err)
	n, err := cur.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := b.Count(ctx, "users", Where("first_name", "Ann"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = b.Update(ctx, "users", "id", Values{{"first_name", "Ann"}})
	assert.True(t, IsKind(err, KindBind))
	assert.ErrorIs(t, err, ErrMissingKey)

	cur, err = b.Delete(ctx, "users", "id", 1)
	require.NoError(t, err)
	n, err = cur.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err = b.Count(ctx, "users", nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBuilderPrepareError(t *testing.T) {
	b, err := NewBuilder(failingConn{err: errors.New("Table 'app.nope' doesn't exist")})
	require.NoError(t, err)

	_, err = b.Select(context.Background(), "nope", Condition{})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindPrepare))

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "select", e.Op)
	assert.Equal(t, "SELECT * FROM nope LIMIT 20", e.Query)
}

func TestBuilderInvalidIdentifierIsPrepareError(t *testing.T) {
	b, _ := newTestBuilder(t)

	_, err := b.Delete(context.Background(), "users", "id = 1 OR 1", 1)
	assert.True(t, IsKind(err, KindPrepare))
	assert.ErrorIs(t, err, ErrInvalidIdentifier)
}

func TestBuilderBindErrors(t *testing.T) {
	ctx := context.Background()
	b, db := newTestBuilder(t)

	_, err := b.Execute(ctx, "INSERT INTO users (email, first_name) VALUES (:v0, :v1)", Params{{Name: ":v0", Value: "a@example.com"}})
	assert.True(t, IsKind(err, KindBind), "missing parameter")

	_, err = b.Execute(ctx, "INSERT INTO users (email) VALUES (:v0)", Params{{Name: ":v0", Value: "a@example.com"}, {Name: ":v1", Value: 1}})
	assert.True(t, IsKind(err, KindBind), "unused parameter")

	_, err = b.Execute(ctx, "INSERT INTO users (email) VALUES (:v0)", Params{{Name: ":v0", Value: struct{ X int }{1}}})
	assert.True(t, IsKind(err, KindBind), "unconvertible value")

	var count int
	require.NoError(t, db.Get(&count, "SELECT COUNT(*) FROM users"))
	assert.Zero(t, count)
}

func TestBuilderExecutionError(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t)

	_, err := b.Insert(ctx, "users", Where("email", "a@example.com"))
	require.NoError(t, err)

	_, err = b.Insert(ctx, "users", Where("email", "a@example.com"))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindExecution))
	assert.Contains(t, err.Error(), "UNIQUE")
}

func TestBuilderExecuteSelect(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBuilder(t)

	_, err := b.Insert(ctx, "users", Where("email", "a@example.com"))
	require.NoError(t, err)

	cur, err := b.Execute(ctx, "SELECT email FROM users WHERE id=:id", Params{{Name: ":id", Value: 1}})
	require.NoError(t, err)
	defer cur.Close()

	v, err := cur.FetchColumn()
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", v)

	_, err = cur.FetchColumn()
	assert.ErrorIs(t, err, ErrNoRow)

	_, err = cur.LastInsertID()
	assert.Error(t, err)
}
