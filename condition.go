package store

// DefaultLimit is applied to selects that do not set one.
var DefaultLimit = Limit{Count: 20}

// Limit is the LIMIT/OFFSET part of a select. Offset is only rendered when
// HasOffset is set.
type Limit struct {
	Count     int
	Offset    int
	HasOffset bool
}

// Page builds a limit with an offset.
func Page(count, offset int) Limit {
	return Limit{Count: count, Offset: offset, HasOffset: true}
}

// LimitFrom coerces untyped count and optional offset values to integers.
func LimitFrom(count any, offset ...any) Limit {
	l := Limit{Count: coerceInt(count)}
	if len(offset) > 0 && offset[0] != nil {
		l.Offset = coerceInt(offset[0])
		l.HasOffset = true
	}
	return l
}

func (l Limit) normalize() Limit {
	if l.Count < 0 {
		l.Count = 0
	}
	if l.Offset < 0 {
		l.Offset = 0
	}
	return l
}

// Condition describes the rows a select reads: AND-joined equalities on
// Columns plus a limit. A nil Limit means DefaultLimit.
type Condition struct {
	Columns Values
	Limit   *Limit
}

// NewCondition returns a condition over columns with the default limit.
func NewCondition(columns Values) Condition {
	return Condition{Columns: columns}
}

// WithLimit returns a copy of c limited to l.
func (c Condition) WithLimit(l Limit) Condition {
	c.Limit = &l
	return c
}

func (c Condition) limit() Limit {
	if c.Limit == nil {
		return DefaultLimit
	}
	return c.Limit.normalize()
}

// ConditionFromMap reads the untyped form
//
//	{"columns": {"email": "a@b.c"}, "limit": {"count": 10, "offset": 20}}
//
// as handed over by request glue. Limit values are coerced to integers.
func ConditionFromMap(m map[string]any) Condition {
	var cond Condition

	switch cols := m["columns"].(type) {
	case map[string]any:
		cond.Columns = ValuesFromMap(cols)
	case Values:
		cond.Columns = cols
	}

	if lm, ok := m["limit"].(map[string]any); ok {
		var l Limit
		if off, ok := lm["offset"]; ok {
			l = LimitFrom(lm["count"], off)
		} else {
			l = LimitFrom(lm["count"])
		}
		cond.Limit = &l
	}

	return cond
}
