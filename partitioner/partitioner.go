package partitioner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/danthegoodman1/wineval/rowstore"
)

type (
	// Partition is an ordered group of row indices sharing a partition key.
	// Order is insertion order until an orderer is applied.
	Partition struct {
		Key  string
		Rows []int
	}
)

// PartitionRows groups all row indices by null-safe partition-key equality,
// preserving original row order within each group and first-seen order
// across groups. An empty column set yields a single partition with every
// row. Column references are resolved before any grouping happens.
func PartitionRows(store *rowstore.Store, cols []string) ([]Partition, error) {
	if err := store.CheckColumns(cols...); err != nil {
		return nil, fmt.Errorf("error resolving partition columns: %w", err)
	}

	if len(cols) == 0 {
		all := make([]int, store.NumRows())
		for i := range all {
			all[i] = i
		}
		return []Partition{{Rows: all}}, nil
	}

	var parts []Partition
	keyToPart := make(map[string]int)
	for i := 0; i < store.NumRows(); i++ {
		key := RowKey(store, i, cols)
		at, exists := keyToPart[key]
		if !exists {
			at = len(parts)
			keyToPart[key] = at
			parts = append(parts, Partition{Key: key})
		}
		parts[at].Rows = append(parts[at].Rows, i)
	}
	return parts, nil
}

// RowKey builds the composite partition key for one row, col=value segments
// joined with "/". Null equals null here, matching PARTITION BY grouping
// rather than ordinary SQL equality.
func RowKey(store *rowstore.Store, i int, cols []string) string {
	segs := make([]string, len(cols))
	for ci, col := range cols {
		segs[ci] = fmt.Sprintf("%s=%s", col, encodeKeyValue(store.Value(i, col)))
	}
	return strings.Join(segs, "/")
}

// encodeKeyValue tags each value with its kind so that e.g. the string "1"
// and the integer 1 land in different partitions.
func encodeKeyValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "n"
	case int64:
		return "i" + strconv.FormatInt(v, 10)
	case float64:
		return "f" + strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return "b" + strconv.FormatBool(v)
	case string:
		return "s" + v
	default:
		return fmt.Sprintf("?%v", v)
	}
}
