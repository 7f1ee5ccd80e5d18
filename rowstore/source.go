package rowstore

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/danthegoodman1/gojsonutils"
)

type (
	// Source reads an entire ordered row sequence from some input. Sources
	// are read once; the resulting Store is immutable.
	Source interface {
		LoadRows(ctx context.Context) ([]Row, error)
	}

	// RowsSource wraps an in-memory table.
	RowsSource struct {
		Rows []map[string]any
	}

	// JSONSource reads a JSON array of objects. Nested objects are
	// flattened into dotted column names.
	JSONSource struct {
		Reader io.Reader
	}

	// NDJSONSource reads line-delimited JSON objects.
	NDJSONSource struct {
		Reader io.Reader
	}

	// CSVSource reads a header row then typed data rows. Fields that parse
	// as integers or floats are loaded as such; empty fields load as null.
	CSVSource struct {
		Reader io.Reader
	}
)

var (
	ErrNotFlatMap = errors.New("not a flat map")
	ErrNotObject  = errors.New("not a JSON object")
)

// Load reads a source into a Store.
func Load(ctx context.Context, src Source) (*Store, error) {
	rows, err := src.LoadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("error in src.LoadRows: %w", err)
	}
	store, err := NewStore(rows)
	if err != nil {
		return nil, fmt.Errorf("error in NewStore: %w", err)
	}
	return store, nil
}

func (rs RowsSource) LoadRows(_ context.Context) ([]Row, error) {
	rows := make([]Row, len(rs.Rows))
	for i, m := range rs.Rows {
		rows[i] = Row(m)
	}
	return rows, nil
}

func (js JSONSource) LoadRows(_ context.Context) ([]Row, error) {
	var raw []map[string]any
	dec := json.NewDecoder(js.Reader)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("error in dec.Decode: %w", err)
	}

	rows := make([]Row, 0, len(raw))
	for _, obj := range raw {
		row, err := flattenObject(obj)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (ns NDJSONSource) LoadRows(_ context.Context) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(ns.Reader)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw any
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("error in dec.Decode: %w", err)
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, ErrNotObject
		}
		row, err := flattenObject(obj)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error in scanner.Err: %w", err)
	}
	return rows, nil
}

func (cs CSVSource) LoadRows(_ context.Context) ([]Row, error) {
	r := csv.NewReader(cs.Reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV header: %w", err)
	}

	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV record: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i >= len(record) {
				break
			}
			row[col] = parseCSVField(record[i])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func flattenObject(obj map[string]any) (Row, error) {
	flat, err := gojsonutils.Flatten(coerceJSONNumbers(obj).(map[string]any), nil)
	if err != nil {
		return nil, fmt.Errorf("error flattening JSON map: %w", err)
	}
	flatMap, ok := flat.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("got a non flat map %+v: %w", flat, ErrNotFlatMap)
	}
	return Row(flatMap), nil
}

// coerceJSONNumbers rewrites json.Number values so integers survive as
// int64 instead of collapsing to float64.
func coerceJSONNumbers(val any) any {
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, inner := range v {
			out[key] = coerceJSONNumbers(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, inner := range v {
			out[i] = coerceJSONNumbers(inner)
		}
		return out
	case json.Number:
		if iv, err := v.Int64(); err == nil {
			return iv
		}
		fv, _ := v.Float64()
		return fv
	default:
		return val
	}
}

func parseCSVField(field string) any {
	if field == "" {
		return nil
	}
	if iv, err := strconv.ParseInt(field, 10, 64); err == nil {
		return iv
	}
	if fv, err := strconv.ParseFloat(field, 64); err == nil {
		return fv
	}
	return field
}
