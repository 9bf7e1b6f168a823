package store

import (
	"context"
	"fmt"
	"reflect"
	"slices"
)

// Record is one row of a model's table held in memory. Attributes may be
// edited directly; Save writes them back. A Record is not safe for
// concurrent use.
type Record[T Model] struct {
	Attributes T

	isNew bool
	// key is the primary key value the row is stored under. Updates and
	// deletes target it, whatever the key attribute currently holds.
	key  any
	repo *Repository[T]
}

// IsNew is true until the record has been inserted, and again after it has
// been deleted.
func (r *Record[T]) IsNew() bool {
	return r.isNew
}

// Key returns the stored primary key value, nil for new records.
func (r *Record[T]) Key() any {
	return r.key
}

// Load assigns the known attributes of attrs and returns the keys it used.
func (r *Record[T]) Load(attrs map[string]any) ([]string, error) {
	return loadAttributes(r.value(), r.repo.attrIndex, attrs)
}

// LoadFrom copies every attribute src shares with the record. src is a
// struct, a pointer to one, or a map of attribute values.
func (r *Record[T]) LoadFrom(src any) ([]string, error) {
	if m, ok := src.(map[string]any); ok {
		return r.Load(m)
	}

	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}

	if srcVal.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot load attributes from %T", src)
	}

	attrs := make(map[string]any)
	for name, i := range createAttributeIndex(srcVal.Type()) {
		v, err := readValue(srcVal.Field(i))
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		attrs[name] = v
	}

	return r.Load(attrs)
}

// AttributesSave lists the attributes written on save.
func (r *Record[T]) AttributesSave() []string {
	return slices.Clone(r.repo.tableDef.Fields)
}

// AttributeValues returns the saved attributes keyed by column name, in
// declaration order.
func (r *Record[T]) AttributeValues() (Values, error) {
	values := make(Values, 0, len(r.repo.tableDef.Fields))
	for _, attr := range r.AttributesSave() {
		v, err := r.attribute(attr)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", attr, err)
		}
		values = append(values, Pair{Column: ToColumnName(attr), Value: v})
	}
	return values, nil
}

// Validate runs the model's Validator hook if it has one.
func (r *Record[T]) Validate() error {
	if v, ok := any(r.Attributes).(Validator); ok {
		return v.Validate()
	}
	if v, ok := any(&r.Attributes).(Validator); ok {
		return v.Validate()
	}
	return nil
}

// Save validates the record, then inserts it when new and updates it
// otherwise. A failed validation returns a KindValidation error and touches
// nothing.
func (r *Record[T]) Save(ctx context.Context, options ...SaveOption) error {
	opt := &saveOption{}
	for _, op := range options {
		op(opt)
	}

	if !opt.skipValidation {
		if err := r.Validate(); err != nil {
			return &Error{Kind: KindValidation, Op: "save", Err: err}
		}
	}

	if r.isNew {
		return r.Insert(ctx)
	}

	return r.Update(ctx)
}

// Insert writes the record as a new row and stores the generated key in the
// key attribute. A key attribute that is saved and already set is kept.
func (r *Record[T]) Insert(ctx context.Context) error {
	tb := r.repo.tableDef
	b := r.repo.builder

	values, err := r.AttributeValues()
	if err != nil {
		return err
	}

	if v, ok := values.Get(tb.KeyColumn()); ok && !isZero(v) {
		if _, err := b.Insert(ctx, tb.FullTableName(), values); err != nil {
			return err
		}
		return r.markStored()
	}

	// a zero key column would be stored as is instead of generated
	values = values.Without(tb.KeyColumn())

	var id any
	if b.Dialect().LastInsertID {
		cur, err := b.Insert(ctx, tb.FullTableName(), values)
		if err != nil {
			return err
		}

		n, err := cur.LastInsertID()
		if err != nil {
			return newError(KindExecution, "insert", "", err)
		}
		id = n
	} else {
		cur, err := b.InsertReturning(ctx, tb.FullTableName(), values, tb.KeyColumn())
		if err != nil {
			return err
		}

		id, err = cur.FetchColumn()
		cur.Close()
		if err != nil {
			return newError(KindExecution, "insert", "", err)
		}
	}

	if err := r.setAttribute(tb.KeyField, id); err != nil {
		return err
	}

	return r.markStored()
}

// Update writes the saved attributes to the row stored under the record's
// key. The key column is added when the saved attributes leave it out.
func (r *Record[T]) Update(ctx context.Context) error {
	tb := r.repo.tableDef

	values, err := r.AttributeValues()
	if err != nil {
		return err
	}

	newKey, ok := values.Get(tb.KeyColumn())
	if !ok {
		newKey = r.key
		values = append(values, Pair{Column: tb.KeyColumn(), Value: r.key})
	}

	if _, err := r.repo.builder.UpdateByKey(ctx, tb.FullTableName(), tb.KeyColumn(), r.key, values); err != nil {
		return err
	}

	r.key = newKey
	return nil
}

// Delete removes the record's row. Deleting a new record does nothing.
func (r *Record[T]) Delete(ctx context.Context) error {
	if r.isNew {
		return nil
	}

	tb := r.repo.tableDef
	if _, err := r.repo.builder.Delete(ctx, tb.FullTableName(), tb.KeyColumn(), r.key); err != nil {
		return err
	}

	r.isNew = true
	r.key = nil
	return nil
}

func (r *Record[T]) markStored() error {
	key, err := r.keyValue()
	if err != nil {
		return err
	}

	r.key = key
	r.isNew = false
	return nil
}

func (r *Record[T]) value() reflect.Value {
	return reflect.ValueOf(&r.Attributes).Elem()
}

func (r *Record[T]) attribute(name string) (any, error) {
	i, ok := r.repo.attrIndex[name]
	if !ok {
		return nil, fmt.Errorf("unknown attribute %q", name)
	}
	return readValue(r.value().Field(i))
}

func (r *Record[T]) setAttribute(name string, v any) error {
	i, ok := r.repo.attrIndex[name]
	if !ok {
		return fmt.Errorf("unknown attribute %q", name)
	}
	return assignValue(r.value().Field(i), v)
}

func (r *Record[T]) keyValue() (any, error) {
	return r.attribute(r.repo.tableDef.KeyField)
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
