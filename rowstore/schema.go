package rowstore

import "sort"

type (
	// SchemaAccumulator folds rows into a column-name to observed-kind map.
	// It backs upfront column resolution and aggregate type checks.
	SchemaAccumulator struct {
		cols map[string]Kind
	}

	Kind string
)

const (
	KindInt    Kind = "INT"
	KindFloat  Kind = "FLOAT"
	KindString Kind = "STRING"
	KindBool   Kind = "BOOL"
	// KindNull means only nulls have been observed so far.
	KindNull Kind = "NULL"
	// KindMixed means rows disagree on the column's kind.
	KindMixed Kind = "MIXED"
)

func NewSchemaAccumulator() SchemaAccumulator {
	return SchemaAccumulator{cols: make(map[string]Kind)}
}

func (sa *SchemaAccumulator) WriteRow(row Row) {
	for col, val := range row {
		k := kindOf(val)
		prev, seen := sa.cols[col]
		if !seen {
			sa.cols[col] = k
			continue
		}
		sa.cols[col] = mergeKinds(prev, k)
	}
}

func (sa *SchemaAccumulator) Kind(col string) (Kind, bool) {
	k, ok := sa.cols[col]
	return k, ok
}

func (sa *SchemaAccumulator) ColumnNames() []string {
	names := make([]string, 0, len(sa.cols))
	for col := range sa.cols {
		names = append(names, col)
	}
	sort.Strings(names)
	return names
}

// Numeric reports whether the accumulated kind is usable by a numeric
// aggregate. All-null columns pass since they aggregate to null.
func (k Kind) Numeric() bool {
	return k == KindInt || k == KindFloat || k == KindNull
}

func kindOf(val any) Kind {
	switch val.(type) {
	case nil:
		return KindNull
	case int64:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindString
	case bool:
		return KindBool
	}
	return KindMixed
}

func mergeKinds(a, b Kind) Kind {
	if a == b {
		return a
	}
	if a == KindNull {
		return b
	}
	if b == KindNull {
		return a
	}
	// Ints widen to float, anything else is a conflict
	if (a == KindInt && b == KindFloat) || (a == KindFloat && b == KindInt) {
		return KindFloat
	}
	return KindMixed
}
