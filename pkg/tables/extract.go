package tables

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/TWolbert/forzabot2/internal/logger"
)

// Record is one normalized data row keyed by header, plus TableIndexField.
type Record map[string]string

// Dataset is every record of a document in table order, then row order.
type Dataset []Record

// Fields returns the sorted union of the keys of all records.
func (d Dataset) Fields() []string {
	seen := make(map[string]struct{})
	for _, rec := range d {
		for k := range rec {
			seen[k] = struct{}{}
		}
	}

	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Result contains the output of an extraction.
type Result struct {
	// Dataset holds the extracted records. It may be empty.
	Dataset Dataset `json:"dataset"`

	// Stats contains counts and timings for the run.
	Stats *Stats `json:"stats"`

	// Error is set only when the markup could not be read at all.
	Error error `json:"error,omitempty"`
}

// Extractor turns HTML documents into a Dataset.
type Extractor struct {
	stats *Stats
}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the extractor name for logging.
func (e *Extractor) Name() string {
	return "tables"
}

// Extract parses html and returns its normalized records.
func (e *Extractor) Extract(html string) (Dataset, error) {
	result := e.ExtractWithStats(html)
	if result.Error != nil {
		return nil, result.Error
	}
	return result.Dataset, nil
}

// ExtractWithStats parses html and returns the records with stats.
func (e *Extractor) ExtractWithStats(html string) *Result {
	startTime := time.Now()
	result := &Result{
		Stats: NewStats(),
	}

	parseStart := time.Now()
	tables, err := ParseTables(strings.NewReader(html))
	result.Stats.ParseDuration = time.Since(parseStart)
	if err != nil {
		result.Error = err
		result.Stats.TotalDuration = time.Since(startTime)
		e.stats = result.Stats
		return result
	}

	extractStart := time.Now()
	result.Dataset = e.ExtractTables(tables, result.Stats)
	result.Stats.ExtractDuration = time.Since(extractStart)
	result.Stats.TotalDuration = time.Since(startTime)
	e.stats = result.Stats

	logger.Debug("extraction complete",
		"tables", result.Stats.TablesFound,
		"skipped", result.Stats.TablesSkipped(),
		"rows", result.Stats.RowsEmitted)

	return result
}

// ExtractTables assembles records from already parsed tables. stats may
// be nil.
func (e *Extractor) ExtractTables(tables []Table, stats *Stats) Dataset {
	if stats == nil {
		stats = NewStats()
	}

	dataset := make(Dataset, 0)
	for _, t := range tables {
		stats.TablesFound++
		dataset = appendTable(dataset, t, stats)
	}
	return dataset
}

// Stats returns the stats from the last extraction.
func (e *Extractor) Stats() *Stats {
	return e.stats
}

// appendTable resolves the columns of t once and appends one record per
// non-empty data row.
func appendTable(dataset Dataset, t Table, stats *Stats) Dataset {
	if len(t.Rows) == 0 {
		stats.TablesEmpty++
		logger.Debug("skipping table without rows", "table_index", t.Index)
		return dataset
	}

	cols, ok := ResolveColumns(t.Rows[0])
	if !ok {
		stats.TablesBlankHeaders++
		logger.Debug("skipping table with blank headers", "table_index", t.Index)
		return dataset
	}
	if len(cols.Drop) > 0 {
		stats.TablesWithDropped++
		stats.ColumnsDropped += len(cols.Drop)
	}

	tableIndex := strconv.Itoa(t.Index)
	before := len(dataset)

	for _, cells := range t.Rows[1:] {
		if len(cells) == 0 {
			stats.RowsEmpty++
			continue
		}

		values, alignment := cols.Align(cells)
		switch alignment {
		case AlignPadded:
			stats.RowsPadded++
		case AlignTruncated:
			stats.RowsTruncated++
		}

		rec := make(Record, len(cols.Headers)+1)
		for i, header := range cols.Headers {
			rec[header] = normalizeCell(header, values[i], stats)
		}
		rec[TableIndexField] = tableIndex

		dataset = append(dataset, rec)
		stats.RowsEmitted++
	}

	logger.Debug("table extracted",
		"table_index", t.Index,
		"headers", len(cols.Headers),
		"dropped", len(cols.Drop),
		"rows", len(dataset)-before)

	return dataset
}

// Extract is a convenience wrapper around New().Extract.
func Extract(html string) (Dataset, error) {
	return New().Extract(html)
}
