package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/TWolbert/forzabot2/pkg/tables"
)

// Two tables with different columns.
var testDataset = tables.Dataset{
	{"Car": "Audi R8", "Price": "150000", "_table_index": "0"},
	{"Car": "Ford GT", "Year": "2017", "_table_index": "1"},
}

// --- NewWriter Factory Tests ---

func TestNewWriter_Types(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatCSV, "*output.CSVWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			w, err := NewWriter(&bytes.Buffer{}, tt.format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if got := reflect.TypeOf(w).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNewWriter_CSVLineEndings(t *testing.T) {
	ds := tables.Dataset{{"Car": "Audi R8", "_table_index": "0"}}

	tests := []struct {
		name string
		opts []WriterOption
		want string
	}{
		{"default crlf", nil, "Car,_table_index\r\nAudi R8,0\r\n"},
		{"explicit crlf", []WriterOption{WithCRLF(true)}, "Car,_table_index\r\nAudi R8,0\r\n"},
		{"lf", []WriterOption{WithCRLF(false)}, "Car,_table_index\nAudi R8,0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			w, err := NewWriter(buf, FormatCSV, tt.opts...)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}
			if err := w.WriteAll(ds); err != nil {
				t.Fatalf("WriteAll() error = %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestNewWriter_JSONPretty(t *testing.T) {
	render := func(opts ...WriterOption) string {
		t.Helper()
		buf := &bytes.Buffer{}
		w, err := NewWriter(buf, FormatJSON, opts...)
		if err != nil {
			t.Fatalf("NewWriter() error = %v", err)
		}
		if err := w.WriteAll(testDataset); err != nil {
			t.Fatalf("WriteAll() error = %v", err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		return buf.String()
	}

	pretty := render()
	if !strings.Contains(pretty, "\n  {") {
		t.Errorf("expected indented JSON by default, got %q", pretty)
	}

	compact := render(WithPretty(false))
	if strings.Count(compact, "\n") != 1 || !strings.HasPrefix(compact, "[{") {
		t.Errorf("expected single-line JSON, got %q", compact)
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("xml"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" CSV "); err != nil || f != FormatCSV {
		t.Errorf("ParseFormat(CSV) = %q, %v", f, err)
	}
	if _, err := ParseFormat("xlsx"); err == nil {
		t.Error("expected error for xlsx")
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"cars.csv", FormatCSV},
		{"cars", FormatCSV},
		{"out/cars.JSON", FormatJSON},
		{"cars.jsonl", FormatJSONL},
		{"cars.ndjson", FormatJSONL},
		{"cars.yml", FormatYAML},
		{"cars.yaml", FormatYAML},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// --- CSVWriter Tests ---

func TestCSVWriter_SchemaUnion(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf, false)

	if err := w.WriteAll(testDataset); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	want := "Car,Price,Year,_table_index\n" +
		"Audi R8,150000,,0\n" +
		"Ford GT,,2017,1\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSVWriter_Quoting(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf, false)

	_ = w.Write(tables.Record{"Car": `Ford "GT"`, "Source": "Arcade / Horizon Arcade", "Notes": "a, b"})
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "Car,Notes,Source\n" + `"Ford ""GT""","a, b",Arcade / Horizon Arcade` + "\n"
	if buf.String() != want {
		t.Errorf("unexpected CSV:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestCSVWriter_CRLF(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf, true)

	_ = w.Write(tables.Record{"Car": "Audi R8"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if buf.String() != "Car\r\nAudi R8\r\n" {
		t.Errorf("expected CRLF line endings, got %q", buf.String())
	}
}

func TestCSVWriter_FlushTwice(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewCSVWriter(buf, false)

	_ = w.Write(tables.Record{"Car": "Audi R8"})
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if strings.Count(buf.String(), "Audi R8") != 1 {
		t.Errorf("records written more than once: %q", buf.String())
	}
}

// --- Empty Dataset Tests ---

func TestWriters_EmptyDataset(t *testing.T) {
	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			buf := &bytes.Buffer{}
			w, err := NewWriter(buf, format)
			if err != nil {
				t.Fatalf("NewWriter() error = %v", err)
			}

			if err := w.WriteAll(tables.Dataset{}); err != nil {
				t.Fatalf("WriteAll() error = %v", err)
			}
			if err := w.Close(); !errors.Is(err, ErrEmptyDataset) {
				t.Errorf("expected ErrEmptyDataset, got %v", err)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}
}

// --- JSON Tests ---

func TestJSONWriter_RectangularArray(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, true, "  ")

	if err := w.WriteAll(testDataset); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var result []map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result))
	}
	for i, row := range result {
		if len(row) != 4 {
			t.Errorf("row %d has %d fields, want 4: %v", i, len(row), row)
		}
	}
	if v, ok := result[1]["Price"]; !ok || v != "" {
		t.Errorf("expected empty Price for second record, got %q (present=%v)", v, ok)
	}
}

func TestJSONWriter_Compact(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")

	_ = w.WriteAll(testDataset)
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Errorf("expected single line in compact output, got %d lines", len(lines))
	}
}

func TestJSONLWriter_OneLinePerRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONLWriter(buf)

	if err := w.WriteAll(testDataset); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var second map[string]string
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("failed to unmarshal line: %v", err)
	}
	if _, ok := second["Price"]; ok {
		t.Error("JSONL records should carry only their own fields")
	}
	if second["Year"] != "2017" {
		t.Errorf("unexpected record: %v", second)
	}
}

// --- YAML Tests ---

func TestYAMLWriter_Sequence(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewYAMLWriter(buf)

	_ = w.WriteAll(testDataset)
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	var result []map[string]string
	if err := yaml.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("failed to unmarshal output: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result))
	}
	if result[0]["Car"] != "Audi R8" || result[1]["Year"] != "2017" {
		t.Errorf("unexpected result: %v", result)
	}
	if _, ok := result[0]["Year"]; !ok {
		t.Error("expected missing fields to be filled")
	}
}

// --- WriteFile Tests ---

func TestWriteFile_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.csv")

	if err := WriteFile(path, FormatCSV, testDataset); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) != 4 {
			t.Errorf("row %d has %d columns, want 4", i, len(row))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "Car,Price,Year,_table_index\r\n" +
		"Audi R8,150000,,0\r\n" +
		"Ford GT,,2017,1\r\n"
	if string(data) != want {
		t.Errorf("unexpected CSV bytes:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteFile_EmptyDatasetCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.csv")

	err := WriteFile(path, FormatCSV, nil)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat error = %v", statErr)
	}
}

func TestWriteFile_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cars.xml")

	if err := WriteFile(path, Format("xml"), testDataset); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("expected no output file, stat error = %v", statErr)
	}
}
