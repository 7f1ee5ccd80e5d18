package rowstore

import (
	"context"
	"strings"
	"testing"
)

func TestJSONSource(t *testing.T) {
	in := `[
		{"name": "Alice", "salary": 9000, "meta": {"dept": "HR"}},
		{"name": "Bob", "salary": 8000.5}
	]`
	s, err := Load(context.Background(), JSONSource{Reader: strings.NewReader(in)})
	if err != nil {
		t.Fatal(err)
	}

	if s.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", s.NumRows())
	}
	if s.Value(0, "salary") != int64(9000) {
		t.Fatalf("integers must load as int64, got %T", s.Value(0, "salary"))
	}
	if s.Value(1, "salary") != 8000.5 {
		t.Fatalf("expected 8000.5, got %v", s.Value(1, "salary"))
	}
	// nested objects flatten into dotted columns
	if !s.HasColumn("meta.dept") {
		t.Fatalf("expected flattened column, have %+v", s.Columns())
	}
	if s.Value(0, "meta.dept") != "HR" {
		t.Fatalf("bad flattened value: %v", s.Value(0, "meta.dept"))
	}
}

func TestNDJSONSource(t *testing.T) {
	in := `{"a": 1}
{"a": 2}

{"a": null}
`
	s, err := Load(context.Background(), NDJSONSource{Reader: strings.NewReader(in)})
	if err != nil {
		t.Fatal(err)
	}

	if s.NumRows() != 3 {
		t.Fatalf("expected 3 rows, got %d", s.NumRows())
	}
	if s.Value(0, "a") != int64(1) || s.Value(2, "a") != nil {
		t.Fatalf("bad values: %v %v", s.Value(0, "a"), s.Value(2, "a"))
	}
}

func TestNDJSONSourceRejectsNonObject(t *testing.T) {
	_, err := Load(context.Background(), NDJSONSource{Reader: strings.NewReader("[1,2]\n")})
	if err == nil {
		t.Fatal("expected an error for a non-object line")
	}
}

func TestCSVSource(t *testing.T) {
	in := "name,salary,rate\nAlice,9000,0.5\nBob,,1\n"
	s, err := Load(context.Background(), CSVSource{Reader: strings.NewReader(in)})
	if err != nil {
		t.Fatal(err)
	}

	if s.NumRows() != 2 {
		t.Fatalf("expected 2 rows, got %d", s.NumRows())
	}
	if s.Value(0, "name") != "Alice" {
		t.Fatalf("bad name: %v", s.Value(0, "name"))
	}
	if s.Value(0, "salary") != int64(9000) {
		t.Fatalf("expected int64, got %T", s.Value(0, "salary"))
	}
	if s.Value(0, "rate") != 0.5 {
		t.Fatalf("expected 0.5, got %v", s.Value(0, "rate"))
	}
	// empty CSV field loads as null
	if s.Value(1, "salary") != nil {
		t.Fatalf("expected null, got %v", s.Value(1, "salary"))
	}
}

func TestRowsSource(t *testing.T) {
	s, err := Load(context.Background(), RowsSource{Rows: []map[string]any{
		{"a": 1},
		{"a": 2},
	}})
	if err != nil {
		t.Fatal(err)
	}
	if s.NumRows() != 2 || s.Value(1, "a") != int64(2) {
		t.Fatalf("bad store: %d rows", s.NumRows())
	}
}
