package store

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var errNoResultSet = errors.New("statement did not return rows")

// Cursor is what an executed statement leaves behind: the open rows of a
// query, or the sql.Result of an exec. Cursors holding rows must be closed.
type Cursor struct {
	stmt   *sqlx.NamedStmt
	rows   *sqlx.Rows
	result sql.Result
}

// FetchMap reads the next row as column -> value. It returns nil, nil once
// the rows are exhausted. Byte slices are returned as strings.
func (c *Cursor) FetchMap() (map[string]any, error) {
	if c.rows == nil {
		return nil, errNoResultSet
	}

	if !c.rows.Next() {
		return nil, c.rows.Err()
	}

	row := make(map[string]any)
	if err := c.rows.MapScan(row); err != nil {
		return nil, err
	}

	for k, v := range row {
		row[k] = normalizeDriverValue(v)
	}

	return row, nil
}

// FetchColumn reads the first column of the next row. It returns ErrNoRow
// when there is none.
func (c *Cursor) FetchColumn() (any, error) {
	if c.rows == nil {
		return nil, errNoResultSet
	}

	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNoRow
	}

	cols, err := c.rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, errNoResultSet
	}

	dest := make([]any, len(cols))
	var first any
	dest[0] = &first
	for i := 1; i < len(dest); i++ {
		dest[i] = new(any)
	}

	if err := c.rows.Scan(dest...); err != nil {
		return nil, err
	}

	return normalizeDriverValue(first), nil
}

func (c *Cursor) LastInsertID() (int64, error) {
	if c.result == nil {
		return 0, errors.New("statement has no exec result")
	}
	return c.result.LastInsertId()
}

func (c *Cursor) RowsAffected() (int64, error) {
	if c.result == nil {
		return 0, errors.New("statement has no exec result")
	}
	return c.result.RowsAffected()
}

func (c *Cursor) Close() error {
	var errs []error
	if c.rows != nil {
		errs = append(errs, c.rows.Close())
	}
	if c.stmt != nil {
		errs = append(errs, c.stmt.Close())
	}
	return errors.Join(errs...)
}

func normalizeDriverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
