package store

import (
	"fmt"
	"regexp"
	"strings"
)

// identPattern accepts a bare or schema-qualified SQL identifier.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func checkIdent(names ...string) error {
	for _, name := range names {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
		}
	}
	return nil
}

// whereClause renders AND-joined equalities over values. No values means no
// WHERE at all.
func whereClause(values Values) (string, Params, error) {
	if err := checkIdent(values.Columns()...); err != nil {
		return "", nil, err
	}

	params, fragments := generateParams(values)
	if len(fragments) == 0 {
		return "", params, nil
	}
	return " WHERE " + strings.Join(fragments, " AND "), params, nil
}

func returnsRows(sql string) bool {
	s := strings.ToUpper(strings.TrimSpace(sql))
	return strings.HasPrefix(s, "SELECT") ||
		strings.HasPrefix(s, "WITH") ||
		strings.Contains(s, " RETURNING ")
}
