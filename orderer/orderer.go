package orderer

import (
	"sort"

	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/wspec"
)

// Sort returns a new index sequence sorted by the order spec. The sort is
// stable: rows with equal order-key tuples keep their relative original
// order. An empty spec returns the input order unchanged.
func Sort(store *rowstore.Store, indices []int, spec []wspec.OrderColumn) []int {
	out := make([]int, len(indices))
	copy(out, indices)
	if len(spec) == 0 {
		return out
	}

	sort.SliceStable(out, func(a, b int) bool {
		return less(store, out[a], out[b], spec)
	})
	return out
}

func less(store *rowstore.Store, i, j int, spec []wspec.OrderColumn) bool {
	for _, oc := range spec {
		vi := store.Value(i, oc.Column)
		vj := store.Value(j, oc.Column)

		c := compareWithNulls(vi, vj, oc)
		if c != 0 {
			return c < 0
		}
	}
	return false
}

// compareWithNulls applies null placement then direction. The default
// placement is nulls last ascending, nulls first descending.
func compareWithNulls(vi, vj any, oc wspec.OrderColumn) int {
	if vi == nil || vj == nil {
		if vi == nil && vj == nil {
			return 0
		}
		nullsFirst := oc.Nulls == wspec.NullsFirst || (oc.Nulls == wspec.NullsDefault && oc.Desc)
		if vi == nil {
			if nullsFirst {
				return -1
			}
			return 1
		}
		if nullsFirst {
			return 1
		}
		return -1
	}

	c := Compare(vi, vj)
	if oc.Desc {
		return -c
	}
	return c
}

// Compare orders two non-null values. Numerics compare numerically across
// int64/float64; mixed kinds order numeric < string < bool so a sort over a
// ragged column is still deterministic.
func Compare(a, b any) int {
	ra, rb := rankOf(a), rankOf(b)
	if ra != rb {
		return sign(ra - rb)
	}

	switch ra {
	case rankNumeric:
		fa, fb := asFloat(a), asFloat(b)
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	case rankString:
		sa, sb := a.(string), b.(string)
		if sa < sb {
			return -1
		}
		if sa > sb {
			return 1
		}
		return 0
	default:
		ba, bb := a.(bool), b.(bool)
		if ba == bb {
			return 0
		}
		if !ba {
			return -1
		}
		return 1
	}
}

// KeyTuple extracts the order-key tuple for a row, used for tie detection.
func KeyTuple(store *rowstore.Store, i int, spec []wspec.OrderColumn) []any {
	tuple := make([]any, len(spec))
	for ci, oc := range spec {
		tuple[ci] = store.Value(i, oc.Column)
	}
	return tuple
}

// EqualKeys compares two order-key tuples, null equal to null: rows whose
// order keys are both null are peers.
func EqualKeys(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] == nil || b[i] == nil {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if Compare(a[i], b[i]) != 0 {
			return false
		}
	}
	return true
}

const (
	rankNumeric = iota
	rankString
	rankBool
)

func rankOf(v any) int {
	switch v.(type) {
	case int64, float64:
		return rankNumeric
	case string:
		return rankString
	default:
		return rankBool
	}
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case int64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}

func sign(x int) int {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
