package store

import (
	"fmt"
)

// TableDef declares how a model is stored: the table, the primary key
// attribute and the attributes written on save, in order. Attribute names
// are lowerCamel; the columns are their snake_case forms.
type TableDef struct {
	Schema   string
	Name     string
	KeyField string
	Fields   []string
}

func (td TableDef) FullTableName() string {
	name := td.Name
	if td.Schema != "" {
		name = fmt.Sprintf("%s.%s", td.Schema, td.Name)
	}
	return name
}

func (td TableDef) KeyColumn() string {
	return ToColumnName(td.KeyField)
}

func (td TableDef) ColumnNames() []string {
	return Map(td.Fields, ToColumnName)
}

func (td TableDef) validate(attrIndex map[string]int) error {
	if err := checkIdent(td.FullTableName()); err != nil {
		return fmt.Errorf("%w: table: %w", ErrInvalidModel, err)
	}

	if td.KeyField == "" {
		return fmt.Errorf("%w: %s has no key field", ErrInvalidModel, td.Name)
	}

	if len(td.Fields) == 0 {
		return fmt.Errorf("%w: %s declares no fields to save", ErrInvalidModel, td.Name)
	}

	seen := make(map[string]bool)
	for _, f := range append([]string{td.KeyField}, td.Fields...) {
		if _, ok := attrIndex[f]; !ok {
			return fmt.Errorf("%w: %s has no attribute %q", ErrInvalidModel, td.Name, f)
		}

		if err := checkRoundTrip(f); err != nil {
			return err
		}

		if err := checkIdent(ToColumnName(f)); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
	}

	for _, f := range td.Fields {
		if seen[f] {
			return fmt.Errorf("%w: %s declares %q twice", ErrInvalidModel, td.Name, f)
		}
		seen[f] = true
	}

	return nil
}
