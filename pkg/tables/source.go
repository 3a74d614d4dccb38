// Package tables extracts vehicle tables from HTML and normalizes them
// into flat records.
//
// Every <table> in the document is read in order. The first row of a table
// names its columns; the "Lowest PI" column is dropped, data rows are
// aligned to the remaining headers and each cell runs through a fixed list
// of cleanup rules (vehicle names, prices, acquisition codes).
package tables

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is a <table> element reduced to the text of its cells.
type Table struct {
	// Index is the zero-based position of the table among all tables
	// in the document, nested tables included.
	Index int

	// Rows holds the raw text of every th/td cell, row by row, in
	// document order. Rows[0] is the header row.
	Rows [][]string
}

// ParseTables reads HTML from r and returns its tables in document order.
// Malformed markup is tolerated the way browsers tolerate it.
func ParseTables(r io.Reader) ([]Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return tablesFromDocument(doc), nil
}

// ParseTablesString is ParseTables for an in-memory document.
func ParseTablesString(html string) ([]Table, error) {
	return ParseTables(strings.NewReader(html))
}

func tablesFromDocument(doc *goquery.Document) []Table {
	var tables []Table
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		t := Table{Index: i}
		table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("th, td").Map(func(_ int, cell *goquery.Selection) string {
				return cell.Text()
			})
			t.Rows = append(t.Rows, cells)
		})
		tables = append(tables, t)
	})
	return tables
}
