package tables

import (
	"reflect"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Ford   GT  ", "Ford GT"},
		{"Ford GT", "Ford GT"},
		{"Ford\n\tGT", "Ford GT"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.input); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// --- ResolveColumns Tests ---

func TestResolveColumns_DropsLowestPI(t *testing.T) {
	cols, ok := ResolveColumns([]string{"Car", " Lowest PI ", " Price  "})
	if !ok {
		t.Fatal("expected table to be usable")
	}

	if want := []string{"Car", "Price"}; !reflect.DeepEqual(cols.Headers, want) {
		t.Errorf("Headers = %v, want %v", cols.Headers, want)
	}
	if !cols.Dropped(1) || len(cols.Drop) != 1 {
		t.Errorf("Drop = %v, want {1}", cols.Drop)
	}
}

func TestResolveColumns_CaseInsensitive(t *testing.T) {
	for _, header := range []string{"LOWEST PI", "lowest pi", "Lowest  Pi"} {
		cols, _ := ResolveColumns([]string{"Car", header})
		if !cols.Dropped(1) {
			t.Errorf("expected %q to be dropped", header)
		}
	}

	cols, _ := ResolveColumns([]string{"Car", "Lowest PI Class"})
	if len(cols.Drop) != 0 {
		t.Errorf("partial match should not be dropped, got %v", cols.Drop)
	}
}

func TestResolveColumns_MultipleDrops(t *testing.T) {
	cols, ok := ResolveColumns([]string{"Lowest PI", "Car", "lowest pi", "Year"})
	if !ok {
		t.Fatal("expected table to be usable")
	}
	if want := []string{"Car", "Year"}; !reflect.DeepEqual(cols.Headers, want) {
		t.Errorf("Headers = %v, want %v", cols.Headers, want)
	}
	if len(cols.Headers) != 4-len(cols.Drop) {
		t.Errorf("expected %d headers, got %d", 4-len(cols.Drop), len(cols.Headers))
	}
}

func TestResolveColumns_Blank(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"no cells", nil},
		{"whitespace only", []string{"", "  ", " "}},
		{"only dropped column", []string{"Lowest PI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ResolveColumns(tt.row); ok {
				t.Error("expected table to be skipped")
			}
		})
	}
}

func TestResolveColumns_KeepsBlankHeadersBesideNamedOnes(t *testing.T) {
	cols, ok := ResolveColumns([]string{"", "Car"})
	if !ok {
		t.Fatal("expected table to be usable")
	}
	if want := []string{"", "Car"}; !reflect.DeepEqual(cols.Headers, want) {
		t.Errorf("Headers = %v, want %v", cols.Headers, want)
	}
}

// --- Align Tests ---

func TestColumns_Align(t *testing.T) {
	cols, _ := ResolveColumns([]string{"Car", "Lowest PI", "Price"})

	tests := []struct {
		name      string
		cells     []string
		want      []string
		alignment Alignment
	}{
		{"exact", []string{" Audi R8 ", "S1 900", "1,000 CR"}, []string{"Audi R8", "1,000 CR"}, AlignExact},
		{"short row padded", []string{"Audi R8", "S1 900"}, []string{"Audi R8", ""}, AlignPadded},
		{"single cell padded", []string{"Audi R8"}, []string{"Audi R8", ""}, AlignPadded},
		{"long row truncated", []string{"Audi R8", "S1 900", "1,000 CR", "extra"}, []string{"Audi R8", "1,000 CR"}, AlignTruncated},
		{"sentinel text in data cell kept", []string{"Lowest PI", "S1 900", "5"}, []string{"Lowest PI", "5"}, AlignExact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, alignment := cols.Align(tt.cells)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Align() = %q, want %q", got, tt.want)
			}
			if alignment != tt.alignment {
				t.Errorf("alignment = %v, want %v", alignment, tt.alignment)
			}
			if len(got) != len(cols.Headers) {
				t.Errorf("expected %d values, got %d", len(cols.Headers), len(got))
			}
		})
	}
}

func TestColumns_Align_DropIsByRawIndex(t *testing.T) {
	cols, _ := ResolveColumns([]string{"Lowest PI", "A", "Lowest PI", "B"})

	got, _ := cols.Align([]string{"x", "1", "y", "2"})
	if want := []string{"1", "2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Align() = %q, want %q", got, want)
	}
}
