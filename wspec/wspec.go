package wspec

type (
	// Function is a supported window function name.
	Function string

	// NullOrder controls where nulls sort within one order column.
	NullOrder int

	// OrderColumn is one ORDER BY item.
	OrderColumn struct {
		Column string `validate:"required"`
		Desc   bool
		Nulls  NullOrder `validate:"gte=0,lte=2"`
	}

	BoundType int

	// Bound is one edge of a ROWS frame. Offset is only read for
	// Preceding/Following.
	Bound struct {
		Type   BoundType
		Offset int `validate:"gte=0"`
	}

	// Frame is a ROWS-mode frame. A nil *Frame means the whole partition.
	Frame struct {
		Start Bound
		End   Bound
	}

	// WindowSpec describes one window function application: the function,
	// its argument column (unused for ranking functions), PARTITION BY
	// columns, ORDER BY columns, and an optional frame.
	//
	// Offset is the LEAD/LAG offset, nil meaning 1. Default is the value
	// emitted when LEAD/LAG lands outside the partition, nil unless set.
	WindowSpec struct {
		Function    Function `validate:"required"`
		Arg         string
		Offset      *int
		Default     any
		PartitionBy []string
		OrderBy     []OrderColumn `validate:"dive"`
		Frame       *Frame
	}
)

const (
	RowNumber  Function = "ROW_NUMBER"
	Rank       Function = "RANK"
	DenseRank  Function = "DENSE_RANK"
	Lead       Function = "LEAD"
	Lag        Function = "LAG"
	Sum        Function = "SUM"
	Avg        Function = "AVG"
	Count      Function = "COUNT"
	Min        Function = "MIN"
	Max        Function = "MAX"
	FirstValue Function = "FIRST_VALUE"
	LastValue  Function = "LAST_VALUE"
)

const (
	// NullsDefault sorts nulls last ascending and first descending.
	NullsDefault NullOrder = iota
	NullsFirst
	NullsLast
)

const (
	UnboundedPreceding BoundType = iota
	Preceding
	CurrentRow
	Following
	UnboundedFollowing
)

func (f Function) Known() bool {
	switch f {
	case RowNumber, Rank, DenseRank, Lead, Lag, Sum, Avg, Count, Min, Max, FirstValue, LastValue:
		return true
	}
	return false
}

func (f Function) IsRanking() bool {
	return f == RowNumber || f == Rank || f == DenseRank
}

func (f Function) IsOffset() bool {
	return f == Lead || f == Lag
}

func (f Function) IsAggregate() bool {
	return f == Sum || f == Avg || f == Count || f == Min || f == Max
}

func (f Function) IsValue() bool {
	return f == FirstValue || f == LastValue
}

// IsNumericAggregate reports whether the function only accepts numeric
// argument columns.
func (f Function) IsNumericAggregate() bool {
	return f == Sum || f == Avg
}

// NeedsArg reports whether the function requires an argument column.
// COUNT without an argument counts rows.
func (f Function) NeedsArg() bool {
	return f.IsOffset() || f.IsValue() || f == Sum || f == Avg || f == Min || f == Max
}

// RequiresOrder reports whether the function is only well-defined with an
// explicit ORDER BY.
func (f Function) RequiresOrder() bool {
	return f.IsRanking() || f.IsOffset() || f.IsValue()
}

// RunningFrame is the common unbounded-preceding-to-current-row frame.
func RunningFrame() *Frame {
	return &Frame{
		Start: Bound{Type: UnboundedPreceding},
		End:   Bound{Type: CurrentRow},
	}
}

// Bounds resolves the frame to inclusive positions [start, end] for the row
// at position pos in a partition of n rows. A frame can resolve to an empty
// range, in which case ok is false.
func (fr *Frame) Bounds(pos, n int) (start, end int, ok bool) {
	if fr == nil {
		return 0, n - 1, n > 0
	}
	start = resolveBound(fr.Start, pos, n, true)
	end = resolveBound(fr.End, pos, n, false)
	if start < 0 {
		start = 0
	}
	if end > n-1 {
		end = n - 1
	}
	return start, end, start <= end
}

func resolveBound(b Bound, pos, n int, isStart bool) int {
	switch b.Type {
	case UnboundedPreceding:
		return 0
	case Preceding:
		return pos - b.Offset
	case CurrentRow:
		return pos
	case Following:
		return pos + b.Offset
	case UnboundedFollowing:
		return n - 1
	}
	if isStart {
		return 0
	}
	return n - 1
}
