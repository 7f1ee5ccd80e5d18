package windowfunc

import (
	"errors"
	"fmt"

	"github.com/danthegoodman1/wineval/orderer"
	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/utils"
	"github.com/danthegoodman1/wineval/wspec"
)

type (
	// ComputedColumn maps row index to computed value, one entry per row of
	// the partitions it was computed over.
	ComputedColumn map[int]any
)

var (
	ErrUnknownFunction = errors.New("unknown window function")
	ErrMissingOrderBy  = errors.New("window function requires ORDER BY")
	ErrInvalidOffset   = errors.New("offset must be a positive integer")
	ErrMissingArg      = errors.New("window function requires an argument column")
	ErrTypeMismatch    = errors.New("aggregate argument is not numeric")
)

// ValidateSpec resolves every reference and requirement of a spec before
// any partition work starts. Evaluation assumes a validated spec.
func ValidateSpec(store *rowstore.Store, spec wspec.WindowSpec) error {
	if !spec.Function.Known() {
		return fmt.Errorf("%s: %w", spec.Function, ErrUnknownFunction)
	}
	if spec.Function.RequiresOrder() && len(spec.OrderBy) == 0 {
		return fmt.Errorf("%s: %w", spec.Function, ErrMissingOrderBy)
	}
	if spec.Function.IsOffset() && spec.Offset != nil && *spec.Offset < 1 {
		return fmt.Errorf("%s offset %d: %w", spec.Function, *spec.Offset, ErrInvalidOffset)
	}
	if spec.Function.NeedsArg() && spec.Arg == "" {
		return fmt.Errorf("%s: %w", spec.Function, ErrMissingArg)
	}

	cols := make([]string, 0, len(spec.PartitionBy)+len(spec.OrderBy)+1)
	cols = append(cols, spec.PartitionBy...)
	for _, oc := range spec.OrderBy {
		cols = append(cols, oc.Column)
	}
	if spec.Arg != "" {
		cols = append(cols, spec.Arg)
	}
	if err := store.CheckColumns(cols...); err != nil {
		return err
	}

	if spec.Function.IsNumericAggregate() {
		if kind, ok := store.ColumnKind(spec.Arg); ok && !kind.Numeric() {
			return fmt.Errorf("%s over %s column %s: %w", spec.Function, kind, spec.Arg, ErrTypeMismatch)
		}
	}
	return nil
}

// Evaluate computes one output value per row of an ordered partition. The
// ordered indices must already reflect the spec's ORDER BY.
func Evaluate(store *rowstore.Store, ordered []int, spec wspec.WindowSpec) (ComputedColumn, error) {
	switch {
	case spec.Function == wspec.RowNumber:
		return rowNumber(ordered), nil
	case spec.Function == wspec.Rank:
		return rank(store, ordered, spec, false), nil
	case spec.Function == wspec.DenseRank:
		return rank(store, ordered, spec, true), nil
	case spec.Function.IsOffset():
		return leadLag(store, ordered, spec), nil
	case spec.Function.IsValue():
		return firstLast(store, ordered, spec), nil
	case spec.Function.IsAggregate():
		return aggregate(store, ordered, spec)
	}
	return nil, fmt.Errorf("%s: %w", spec.Function, ErrUnknownFunction)
}

func rowNumber(ordered []int) ComputedColumn {
	out := make(ComputedColumn, len(ordered))
	for pos, idx := range ordered {
		out[idx] = int64(pos + 1)
	}
	return out
}

// rank assigns equal ranks to tie-groups, detected by null-safe order-key
// tuple equality. RANK jumps to position+1 after a tie-group, DENSE_RANK
// increments by one.
func rank(store *rowstore.Store, ordered []int, spec wspec.WindowSpec, dense bool) ComputedColumn {
	out := make(ComputedColumn, len(ordered))

	currentRank := 1
	if dense {
		currentRank = 0
	}
	var lastKey []any
	for pos, idx := range ordered {
		key := orderer.KeyTuple(store, idx, spec.OrderBy)
		if pos == 0 || !orderer.EqualKeys(key, lastKey) {
			if dense {
				currentRank++
			} else {
				currentRank = pos + 1
			}
		}
		out[idx] = int64(currentRank)
		lastKey = key
	}
	return out
}

// leadLag reads the argument column offset rows ahead (LEAD) or behind
// (LAG). Positions outside the partition are not an error, they yield the
// spec's default.
func leadLag(store *rowstore.Store, ordered []int, spec wspec.WindowSpec) ComputedColumn {
	out := make(ComputedColumn, len(ordered))

	step := utils.Deref(spec.Offset, 1)
	if spec.Function == wspec.Lag {
		step = -step
	}
	for pos, idx := range ordered {
		at := pos + step
		if at >= 0 && at < len(ordered) {
			out[idx] = store.Value(ordered[at], spec.Arg)
		} else {
			out[idx] = spec.Default
		}
	}
	return out
}

func firstLast(store *rowstore.Store, ordered []int, spec wspec.WindowSpec) ComputedColumn {
	out := make(ComputedColumn, len(ordered))

	for pos, idx := range ordered {
		start, end, ok := spec.Frame.Bounds(pos, len(ordered))
		if !ok {
			out[idx] = nil
			continue
		}
		if spec.Function == wspec.FirstValue {
			out[idx] = store.Value(ordered[start], spec.Arg)
		} else {
			out[idx] = store.Value(ordered[end], spec.Arg)
		}
	}
	return out
}
