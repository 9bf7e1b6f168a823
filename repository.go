package store

import (
	"context"
	"fmt"
	"reflect"
)

// Repository maps one model type to its table. It resolves table-level
// operations (Find, FindAll, Exist) for the model and creates the records
// that carry row-level ones.
type Repository[T Model] struct {
	builder   *Builder
	tableDef  TableDef
	modelType reflect.Type
	attrIndex map[string]int
}

// NewRepository checks T's table definition against its struct fields and
// returns a repository running statements through b.
func NewRepository[T Model](b *Builder) (*Repository[T], error) {
	var model T

	m := reflect.TypeOf(model)
	if m == nil || m.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", ErrInvalidModel, model)
	}

	attrIndex := createAttributeIndex(m)
	tb := model.GetTableDef()
	if err := tb.validate(attrIndex); err != nil {
		return nil, err
	}

	return &Repository[T]{
		builder:   b,
		tableDef:  tb,
		modelType: m,
		attrIndex: attrIndex,
	}, nil
}

func (r *Repository[T]) GetTableDef() TableDef {
	return r.tableDef
}

// New returns an unsaved record with the known attributes of attrs
// assigned. Unknown keys are ignored.
func (r *Repository[T]) New(attrs map[string]any) (*Record[T], error) {
	rec := &Record[T]{repo: r, isNew: true}
	if _, err := rec.Load(attrs); err != nil {
		return nil, err
	}
	return rec, nil
}

// Wrap returns an unsaved record holding v.
func (r *Repository[T]) Wrap(v T) *Record[T] {
	return &Record[T]{Attributes: v, repo: r, isNew: true}
}

// Find returns the first row matching cond, or nil when nothing matches.
// The limit count is always 1.
func (r *Repository[T]) Find(ctx context.Context, cond Condition) (*Record[T], error) {
	l := cond.limit()
	l.Count = 1
	cond.Limit = &l

	cur, err := r.builder.Select(ctx, r.tableDef.FullTableName(), cond)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	row, err := cur.FetchMap()
	if err != nil {
		return nil, newError(KindExecution, "find", "", err)
	}

	if row == nil {
		return nil, nil
	}

	return r.hydrate(row)
}

// FindBy is Find over equality columns with no offset.
func (r *Repository[T]) FindBy(ctx context.Context, columns Values) (*Record[T], error) {
	return r.Find(ctx, NewCondition(columns))
}

// FindAll returns every row matching cond within its limit.
func (r *Repository[T]) FindAll(ctx context.Context, cond Condition) ([]*Record[T], error) {
	cur, err := r.builder.Select(ctx, r.tableDef.FullTableName(), cond)
	if err != nil {
		return nil, err
	}
	defer cur.Close()

	var records []*Record[T]
	for {
		row, err := cur.FetchMap()
		if err != nil {
			return nil, newError(KindExecution, "find", "", err)
		}

		if row == nil {
			break
		}

		rec, err := r.hydrate(row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, nil
}

// Exist reports whether at least one row matches params.
func (r *Repository[T]) Exist(ctx context.Context, params Values) (bool, error) {
	n, err := r.builder.Count(ctx, r.tableDef.FullTableName(), params)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T]) hydrate(row map[string]any) (*Record[T], error) {
	attrs := make(map[string]any, len(row))
	for col, v := range row {
		attrs[ToAttributeName(col)] = v
	}

	rec := &Record[T]{repo: r}
	if _, err := rec.Load(attrs); err != nil {
		return nil, newError(KindExecution, "find", "", err)
	}

	key, err := rec.keyValue()
	if err != nil {
		return nil, newError(KindExecution, "find", "", err)
	}
	rec.key = key

	return rec, nil
}
