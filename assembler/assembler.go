package assembler

import (
	"errors"
	"fmt"

	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/windowfunc"
)

var (
	ErrColumnCollision  = errors.New("computed column name collides with an input column")
	ErrIncompleteColumn = errors.New("computed column does not cover every row exactly once")
)

// Assemble merges per-partition computed columns back into original row
// order, appending the computed value under the given column name. Every
// input row must be covered exactly once across the partition outputs,
// regardless of the order the partitions were evaluated in.
func Assemble(store *rowstore.Store, as string, cols []windowfunc.ComputedColumn) ([]rowstore.Row, error) {
	if store.HasColumn(as) {
		return nil, fmt.Errorf("%s: %w", as, ErrColumnCollision)
	}

	merged := make(map[int]any, store.NumRows())
	for _, cc := range cols {
		for idx, val := range cc {
			if _, dup := merged[idx]; dup {
				return nil, fmt.Errorf("row %d computed twice: %w", idx, ErrIncompleteColumn)
			}
			merged[idx] = val
		}
	}
	if len(merged) != store.NumRows() {
		return nil, fmt.Errorf("%d of %d rows computed: %w", len(merged), store.NumRows(), ErrIncompleteColumn)
	}

	out := make([]rowstore.Row, store.NumRows())
	for i := 0; i < store.NumRows(); i++ {
		src := store.Row(i)
		row := make(rowstore.Row, len(src)+1)
		for col, val := range src {
			row[col] = val
		}
		row[as] = merged[i]
		out[i] = row
	}
	return out, nil
}
