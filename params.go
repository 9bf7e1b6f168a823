package store

import (
	"sort"
	"strconv"
)

// Pair is one column and the value bound to it.
type Pair struct {
	Column string
	Value  any
}

// Values is an ordered column/value mapping. The order is the order the
// statement text and its placeholders are generated in.
type Values []Pair

// ValuesFromMap builds Values from a map, ordering columns by name so the
// generated SQL is stable.
func ValuesFromMap(m map[string]any) Values {
	cols := make([]string, 0, len(m))
	for k := range m {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	values := make(Values, 0, len(cols))
	for _, c := range cols {
		values = append(values, Pair{Column: c, Value: m[c]})
	}
	return values
}

// Where is shorthand for a single equality condition.
func Where(column string, value any) Values {
	return Values{{Column: column, Value: value}}
}

// And appends another equality.
func (v Values) And(column string, value any) Values {
	return append(v, Pair{Column: column, Value: value})
}

func (v Values) Get(column string) (any, bool) {
	for _, p := range v {
		if p.Column == column {
			return p.Value, true
		}
	}
	return nil, false
}

func (v Values) Has(column string) bool {
	_, ok := v.Get(column)
	return ok
}

// Without returns a copy of v with every pair for column removed.
func (v Values) Without(column string) Values {
	out := make(Values, 0, len(v))
	for _, p := range v {
		if p.Column != column {
			out = append(out, p)
		}
	}
	return out
}

func (v Values) Columns() []string {
	return Map(v, func(p Pair) string {
		return p.Column
	})
}

// Param is a named placeholder (":v0") and its bound value.
type Param struct {
	Name  string
	Value any
}

// Params is the ordered parameter set of one statement.
type Params []Param

func (p Params) Names() []string {
	return Map(p, func(val Param) string {
		return val.Name
	})
}

// lookup returns the value bound to name. name may be given with or without
// the leading colon.
func (p Params) lookup(name string) (any, bool) {
	if len(name) == 0 || name[0] != ':' {
		name = ":" + name
	}
	for _, val := range p {
		if val.Name == name {
			return val.Value, true
		}
	}
	return nil, false
}

const keyParam = ":id"

// generateParams assigns :v0, :v1, ... to values in order and returns the
// parameter set with the matching "column=:vN" fragments.
func generateParams(values Values) (Params, []string) {
	params := make(Params, 0, len(values))
	fragments := make([]string, 0, len(values))
	for i, p := range values {
		name := ":v" + strconv.Itoa(i)
		params = append(params, Param{Name: name, Value: p.Value})
		fragments = append(fragments, p.Column+"="+name)
	}
	return params, fragments
}
