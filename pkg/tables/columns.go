package tables

import "strings"

// Columns is the resolved layout of one table: the headers that survive
// column removal and the raw positions that were removed.
type Columns struct {
	// Headers are the cleaned header texts without the dropped positions,
	// in their original relative order.
	Headers []string

	// Drop holds the raw column positions removed from every row.
	Drop map[int]struct{}
}

// Alignment reports how a data row was reconciled with the headers.
type Alignment int

const (
	// AlignExact means the row had one value per header.
	AlignExact Alignment = iota
	// AlignPadded means missing trailing values were filled with "".
	AlignPadded
	// AlignTruncated means extra trailing values were discarded.
	AlignTruncated
)

// ResolveColumns cleans the header row and computes the dropped positions.
// The second return value is false when no non-blank header remains, in
// which case the table contributes no records.
func ResolveColumns(headerRow []string) (Columns, bool) {
	cols := Columns{
		Headers: make([]string, 0, len(headerRow)),
		Drop:    make(map[int]struct{}),
	}

	hasHeader := false
	for i, cell := range headerRow {
		h := CleanText(cell)
		if strings.ToLower(h) == DroppedColumn {
			cols.Drop[i] = struct{}{}
			continue
		}
		if h != "" {
			hasHeader = true
		}
		cols.Headers = append(cols.Headers, h)
	}

	return cols, hasHeader
}

// Dropped reports whether raw position i is removed from every row.
func (c Columns) Dropped(i int) bool {
	_, ok := c.Drop[i]
	return ok
}

// Align cleans the cells of a data row, removes the dropped positions by
// their raw index and pads or truncates the result to len(c.Headers).
func (c Columns) Align(cells []string) ([]string, Alignment) {
	values := make([]string, 0, len(c.Headers))
	alignment := AlignExact

	for i, cell := range cells {
		if c.Dropped(i) {
			continue
		}
		if len(values) == len(c.Headers) {
			alignment = AlignTruncated
			break
		}
		values = append(values, CleanText(cell))
	}

	if len(values) < len(c.Headers) {
		alignment = AlignPadded
		for len(values) < len(c.Headers) {
			values = append(values, "")
		}
	}

	return values, alignment
}
