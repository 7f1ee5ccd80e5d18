package windowfunc

import (
	"fmt"

	"github.com/danthegoodman1/wineval/orderer"
	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/wspec"
)

// aggregate computes SUM/AVG/COUNT/MIN/MAX over each row's frame. With no
// frame the aggregate covers the whole partition and is constant per
// partition; a running total is only produced when the spec carries an
// explicit unbounded-preceding-to-current-row frame.
func aggregate(store *rowstore.Store, ordered []int, spec wspec.WindowSpec) (ComputedColumn, error) {
	out := make(ComputedColumn, len(ordered))

	if spec.Frame == nil {
		val, err := aggregateRange(store, ordered, spec, 0, len(ordered)-1)
		if err != nil {
			return nil, err
		}
		for _, idx := range ordered {
			out[idx] = val
		}
		return out, nil
	}

	for pos, idx := range ordered {
		start, end, ok := spec.Frame.Bounds(pos, len(ordered))
		if !ok {
			out[idx] = emptyFrameValue(spec.Function)
			continue
		}
		val, err := aggregateRange(store, ordered, spec, start, end)
		if err != nil {
			return nil, err
		}
		out[idx] = val
	}
	return out, nil
}

// aggregateRange folds the argument column over inclusive positions
// [start, end]. Nulls are skipped; an all-null range aggregates to null
// (COUNT excepted).
func aggregateRange(store *rowstore.Store, ordered []int, spec wspec.WindowSpec, start, end int) (any, error) {
	var (
		isum     int64
		fsum     float64
		anyFloat bool
		count    int64
		best     any
	)

	for pos := start; pos <= end; pos++ {
		idx := ordered[pos]

		if spec.Function == wspec.Count && spec.Arg == "" {
			count++
			continue
		}

		val := store.Value(idx, spec.Arg)
		if val == nil {
			continue
		}
		count++

		switch spec.Function {
		case wspec.Sum, wspec.Avg:
			switch n := val.(type) {
			case int64:
				isum += n
			case float64:
				fsum += n
				anyFloat = true
			default:
				return nil, fmt.Errorf("%s over column %s value %v: %w", spec.Function, spec.Arg, val, ErrTypeMismatch)
			}
		case wspec.Min:
			if best == nil || orderer.Compare(val, best) < 0 {
				best = val
			}
		case wspec.Max:
			if best == nil || orderer.Compare(val, best) > 0 {
				best = val
			}
		}
	}

	switch spec.Function {
	case wspec.Count:
		return count, nil
	case wspec.Sum:
		if count == 0 {
			return nil, nil
		}
		if anyFloat {
			return fsum + float64(isum), nil
		}
		return isum, nil
	case wspec.Avg:
		if count == 0 {
			return nil, nil
		}
		return (fsum + float64(isum)) / float64(count), nil
	default:
		return best, nil
	}
}

func emptyFrameValue(f wspec.Function) any {
	if f == wspec.Count {
		return int64(0)
	}
	return nil
}
