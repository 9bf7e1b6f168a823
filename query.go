package store

import (
	"fmt"
	"strings"
)

// Statement is generated SQL text and the parameters it binds.
type Statement struct {
	SQL    string
	Params Params
}

// BuildSelect renders SELECT * over table filtered by cond. An empty column
// set selects without a WHERE clause.
func BuildSelect(d Dialect, table string, cond Condition) (Statement, error) {
	if err := checkIdent(table); err != nil {
		return Statement{}, err
	}

	where, params, err := whereClause(cond.Columns)
	if err != nil {
		return Statement{}, err
	}

	sql := "SELECT * FROM " + table + where + d.limitClause(cond.limit())
	return Statement{SQL: sql, Params: params}, nil
}

func BuildInsert(table string, values Values) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, ErrEmptyValues
	}
	if err := checkIdent(append([]string{table}, values.Columns()...)...); err != nil {
		return Statement{}, err
	}

	params, _ := generateParams(values)
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(values.Columns(), ","), strings.Join(params.Names(), ","))

	return Statement{SQL: sql, Params: params}, nil
}

// BuildInsertReturning is BuildInsert for backends that hand back generated
// keys through RETURNING.
func BuildInsertReturning(table string, values Values, keyColumn string) (Statement, error) {
	st, err := BuildInsert(table, values)
	if err != nil {
		return st, err
	}
	if err := checkIdent(keyColumn); err != nil {
		return Statement{}, err
	}

	st.SQL += " RETURNING " + keyColumn
	return st, nil
}

// BuildUpdate sets values on the row whose keyColumn equals key. The key is
// bound as :id independently of any key column in values.
func BuildUpdate(table, keyColumn string, key any, values Values) (Statement, error) {
	if len(values) == 0 {
		return Statement{}, ErrEmptyValues
	}
	if key == nil {
		return Statement{}, ErrMissingKey
	}
	if err := checkIdent(append([]string{table, keyColumn}, values.Columns()...)...); err != nil {
		return Statement{}, err
	}

	params, fragments := generateParams(values)
	params = append(params, Param{Name: keyParam, Value: key})

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s=%s", table, strings.Join(fragments, ", "), keyColumn, keyParam)
	return Statement{SQL: sql, Params: params}, nil
}

func BuildDelete(table, keyColumn string, key any) (Statement, error) {
	if key == nil {
		return Statement{}, ErrMissingKey
	}
	if err := checkIdent(table, keyColumn); err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s=%s", table, keyColumn, keyParam)
	return Statement{SQL: sql, Params: Params{{Name: keyParam, Value: key}}}, nil
}

// BuildExist renders a COUNT(*) over the rows matching params.
func BuildExist(table string, params Values) (Statement, error) {
	if err := checkIdent(table); err != nil {
		return Statement{}, err
	}

	where, p, err := whereClause(params)
	if err != nil {
		return Statement{}, err
	}

	return Statement{SQL: "SELECT COUNT(*) FROM " + table + where, Params: p}, nil
}
