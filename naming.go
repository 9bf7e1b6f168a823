package store

import (
	"fmt"

	"github.com/iancoleman/strcase"
)

// ToColumnName converts an attribute name (firstName) to the column name it
// is stored under (first_name).
func ToColumnName(attribute string) string {
	return strcase.ToSnake(attribute)
}

// ToAttributeName converts a column name (first_name) back to the attribute
// name (firstName).
func ToAttributeName(column string) string {
	return strcase.ToLowerCamel(column)
}

// checkRoundTrip fails for attribute names that would not come back unchanged
// after a trip through the database (userID -> user_id -> userId).
func checkRoundTrip(attribute string) error {
	column := ToColumnName(attribute)
	if back := ToAttributeName(column); back != attribute {
		return fmt.Errorf("%w: attribute %q maps to column %q which maps back to %q", ErrInvalidModel, attribute, column, back)
	}
	return nil
}
