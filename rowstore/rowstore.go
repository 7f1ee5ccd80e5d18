package rowstore

import (
	"errors"
	"fmt"

	"github.com/danthegoodman1/wineval/utils"
)

type (
	// Row maps column names to values. Values are normalized on load to one
	// of int64, float64, string, bool, or nil.
	Row map[string]any

	// Store holds an immutable ordered sequence of rows. Rows are identified
	// by their original positional index.
	Store struct {
		rows   []Row
		schema SchemaAccumulator
	}
)

var (
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidColumnType is permanent: the input itself is bad.
	ErrInvalidColumnType = utils.PermError("invalid column type")
)

// NewStore normalizes and loads rows. A missing key in an individual row
// reads as null; the column still exists if any row carries it.
func NewStore(rows []Row) (*Store, error) {
	s := &Store{
		rows:   make([]Row, len(rows)),
		schema: NewSchemaAccumulator(),
	}
	for i, row := range rows {
		normalized := make(Row, len(row))
		for col, val := range row {
			nv, err := normalizeValue(val)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i, col, err)
			}
			normalized[col] = nv
		}
		s.rows[i] = normalized
		s.schema.WriteRow(normalized)
	}
	return s, nil
}

func (s *Store) NumRows() int {
	return len(s.rows)
}

// Row returns the row at index i. Callers must not mutate it.
func (s *Store) Row(i int) Row {
	return s.rows[i]
}

// Value reads one column of one row, null when the row does not carry the
// column.
func (s *Store) Value(i int, col string) any {
	return s.rows[i][col]
}

func (s *Store) HasColumn(col string) bool {
	_, ok := s.schema.Kind(col)
	return ok
}

// Columns returns the accumulated column names in sorted order.
func (s *Store) Columns() []string {
	return s.schema.ColumnNames()
}

// ColumnKind returns the accumulated kind for a column.
func (s *Store) ColumnKind(col string) (Kind, bool) {
	return s.schema.Kind(col)
}

// CheckColumns resolves column references against the schema, so that a bad
// reference fails before any evaluation work starts.
func (s *Store) CheckColumns(cols ...string) error {
	for _, col := range cols {
		if !s.HasColumn(col) {
			return fmt.Errorf("%s: %w", col, ErrColumnNotFound)
		}
	}
	return nil
}

func normalizeValue(val any) (any, error) {
	switch v := val.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("%T: %w", val, ErrInvalidColumnType)
	}
}
