package windowfunc

import (
	"errors"
	"testing"

	"github.com/danthegoodman1/wineval/orderer"
	"github.com/danthegoodman1/wineval/rowstore"
	"github.com/danthegoodman1/wineval/utils"
	"github.com/danthegoodman1/wineval/wspec"
)

func salaryStore(t *testing.T) *rowstore.Store {
	t.Helper()
	s, err := rowstore.NewStore([]rowstore.Row{
		{"name": "Alice", "value": 9000},
		{"name": "Bob", "value": 8000},
		{"name": "Carol", "value": 8000},
		{"name": "Dave", "value": 7000},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func evalOrdered(t *testing.T, s *rowstore.Store, spec wspec.WindowSpec) ComputedColumn {
	t.Helper()
	all := make([]int, s.NumRows())
	for i := range all {
		all[i] = i
	}
	ordered := orderer.Sort(s, all, spec.OrderBy)
	cc, err := Evaluate(s, ordered, spec)
	if err != nil {
		t.Fatal(err)
	}
	return cc
}

var valueDesc = []wspec.OrderColumn{{Column: "value", Desc: true}}

func TestRowNumber(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.RowNumber, OrderBy: valueDesc})

	for i, want := range []int64{1, 2, 3, 4} {
		if cc[i] != want {
			t.Fatalf("row %d: expected %d, got %v", i, want, cc[i])
		}
	}
}

func TestRank(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Rank, OrderBy: valueDesc})

	for i, want := range []int64{1, 2, 2, 4} {
		if cc[i] != want {
			t.Fatalf("row %d: expected %d, got %v", i, want, cc[i])
		}
	}
}

func TestDenseRank(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.DenseRank, OrderBy: valueDesc})

	for i, want := range []int64{1, 2, 2, 3} {
		if cc[i] != want {
			t.Fatalf("row %d: expected %d, got %v", i, want, cc[i])
		}
	}
}

func TestLead(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Lead, Arg: "value", OrderBy: valueDesc})

	for i, want := range []any{int64(8000), int64(8000), int64(7000), nil} {
		if cc[i] != want {
			t.Fatalf("row %d: expected %v, got %v", i, want, cc[i])
		}
	}
}

func TestLag(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Lag, Arg: "value", OrderBy: valueDesc})

	for i, want := range []any{nil, int64(9000), int64(8000), int64(8000)} {
		if cc[i] != want {
			t.Fatalf("row %d: expected %v, got %v", i, want, cc[i])
		}
	}
}

func TestLeadLagSymmetry(t *testing.T) {
	s := salaryStore(t)
	k := 2
	lead := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Lead, Arg: "value", Offset: utils.Ptr(k), OrderBy: valueDesc})
	lag := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Lag, Arg: "value", Offset: utils.Ptr(k), OrderBy: valueDesc})

	// LEAD(c, k) at position p equals LAG(c, k) at position p+k when both
	// are in bounds; rows are already in scan order here
	for p := 0; p+k < s.NumRows(); p++ {
		if lead[p] != lag[p+k] {
			t.Fatalf("symmetry broken at %d: %v vs %v", p, lead[p], lag[p+k])
		}
	}
}

func TestLeadDefaultValue(t *testing.T) {
	s := salaryStore(t)
	cc := evalOrdered(t, s, wspec.WindowSpec{
		Function: wspec.Lead,
		Arg:      "value",
		Default:  int64(-1),
		OrderBy:  valueDesc,
	})

	if cc[3] != int64(-1) {
		t.Fatalf("expected default at last row, got %v", cc[3])
	}
}

func TestFirstLastValue(t *testing.T) {
	s := salaryStore(t)

	first := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.FirstValue, Arg: "name", OrderBy: valueDesc})
	last := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.LastValue, Arg: "name", OrderBy: valueDesc})

	for i := 0; i < s.NumRows(); i++ {
		if first[i] != "Alice" {
			t.Fatalf("row %d: expected Alice, got %v", i, first[i])
		}
		if last[i] != "Dave" {
			t.Fatalf("row %d: expected Dave, got %v", i, last[i])
		}
	}
}

func TestRankTiesWithNullKeys(t *testing.T) {
	s, err := rowstore.NewStore([]rowstore.Row{
		{"v": nil},
		{"v": nil},
		{"v": 1},
	})
	if err != nil {
		t.Fatal(err)
	}

	cc := evalOrdered(t, s, wspec.WindowSpec{Function: wspec.Rank, OrderBy: []wspec.OrderColumn{{Column: "v"}}})

	// ascending puts nulls last; the two null rows are peers
	if cc[2] != int64(1) || cc[0] != int64(2) || cc[1] != int64(2) {
		t.Fatalf("bad ranks: %+v", cc)
	}
}

func TestValidateSpecErrors(t *testing.T) {
	s := salaryStore(t)

	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Rank}); !errors.Is(err, ErrMissingOrderBy) {
		t.Fatalf("expected ErrMissingOrderBy, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Lead, Arg: "value", Offset: utils.Ptr(0), OrderBy: valueDesc}); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Lag, Arg: "value", Offset: utils.Ptr(-1), OrderBy: valueDesc}); !errors.Is(err, ErrInvalidOffset) {
		t.Fatalf("expected ErrInvalidOffset, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: "MEDIAN"}); !errors.Is(err, ErrUnknownFunction) {
		t.Fatalf("expected ErrUnknownFunction, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Sum, Arg: "name"}); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Sum}); !errors.Is(err, ErrMissingArg) {
		t.Fatalf("expected ErrMissingArg, got %v", err)
	}
	if err := ValidateSpec(s, wspec.WindowSpec{Function: wspec.Sum, Arg: "missing"}); !errors.Is(err, rowstore.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}
