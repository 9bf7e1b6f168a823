package store

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const attrTag = "attr"

var timeType = reflect.TypeOf(time.Time{})

// createAttributeIndex maps attribute names to struct field positions. The
// name comes from the `attr` tag, or from the Go field name (FirstName ->
// firstName, ID -> id). `attr:"-"` hides a field.
func createAttributeIndex(model reflect.Type) map[string]int {
	attrs := make(map[string]int)
	for i := 0; i < model.NumField(); i++ {
		field := model.Field(i)
		if !field.IsExported() || field.Anonymous {
			continue
		}

		name := strings.TrimSpace(strings.Split(field.Tag.Get(attrTag), ",")[0])
		if name == "-" {
			continue
		}

		if name == "" {
			name = ToAttributeName(ToColumnName(field.Name))
		}

		attrs[name] = i
	}

	return attrs
}

// loadAttributes assigns every key of attrs that names an attribute and
// returns the consumed keys in sorted order. Unknown keys are ignored.
func loadAttributes(dataVal reflect.Value, attrIndex map[string]int, attrs map[string]any) ([]string, error) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var consumed []string
	for _, k := range keys {
		i, ok := attrIndex[k]
		if !ok {
			continue
		}

		if err := assignValue(dataVal.Field(i), attrs[k]); err != nil {
			return consumed, fmt.Errorf("attribute %s: %w", k, err)
		}
		consumed = append(consumed, k)
	}

	return consumed, nil
}

// readValue returns a field's value the way a driver should see it:
// Valuers are unwrapped and nil pointers become NULL.
func readValue(field reflect.Value) (any, error) {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return nil, nil
		}
	}

	val := field.Interface()
	if v, ok := val.(driver.Valuer); ok {
		return v.Value()
	}

	if field.Kind() == reflect.Ptr {
		return field.Elem().Interface(), nil
	}

	return val, nil
}

// assignValue stores v into field, converting the untyped values that come
// from drivers (int64, []byte) and request input (strings).
func assignValue(field reflect.Value, v any) error {
	if field.CanAddr() {
		if sc, ok := field.Addr().Interface().(sql.Scanner); ok {
			return sc.Scan(v)
		}
	}

	if v == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}

	v = normalizeDriverValue(v)
	val := reflect.ValueOf(v)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := assignValue(elem.Elem(), v); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		s, err := cast.ToStringE(v)
		if err != nil {
			return err
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := cast.ToInt64E(v)
		if err != nil {
			return err
		}
		if field.OverflowInt(n) {
			return fmt.Errorf("%d overflows %s", n, field.Type())
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := cast.ToUint64E(v)
		if err != nil {
			return err
		}
		if field.OverflowUint(n) {
			return fmt.Errorf("%d overflows %s", n, field.Type())
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := cast.ToBoolE(v)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		if field.Type() == timeType {
			t, err := cast.ToTimeE(v)
			if err != nil {
				return err
			}
			field.Set(reflect.ValueOf(t))
			return nil
		}

		if val.Type().ConvertibleTo(field.Type()) {
			field.Set(val.Convert(field.Type()))
			return nil
		}

		return fmt.Errorf("cannot assign %T to %s", v, field.Type())
	}

	return nil
}
