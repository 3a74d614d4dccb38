package tables

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Stats captures what the extractor did with a document.
type Stats struct {
	// Table counts
	TablesFound        int `json:"tables_found"`
	TablesEmpty        int `json:"tables_empty"`         // no rows at all
	TablesBlankHeaders int `json:"tables_blank_headers"` // header row had no usable names
	TablesWithDropped  int `json:"tables_with_dropped"`  // tables that lost a "Lowest PI" column
	ColumnsDropped     int `json:"columns_dropped"`

	// Row counts
	RowsEmitted   int `json:"rows_emitted"`
	RowsEmpty     int `json:"rows_empty"`
	RowsPadded    int `json:"rows_padded"`
	RowsTruncated int `json:"rows_truncated"`

	// RuleHits counts how often each cleanup rule fired.
	RuleHits map[string]int `json:"rule_hits"`

	// Timing, marshaled as whole milliseconds
	ParseDuration   time.Duration `json:"parse_duration_ms"`
	ExtractDuration time.Duration `json:"extract_duration_ms"`
	TotalDuration   time.Duration `json:"total_duration_ms"`
}

// MarshalJSON writes the durations as milliseconds.
func (s Stats) MarshalJSON() ([]byte, error) {
	type plain Stats
	return json.Marshal(struct {
		plain
		ParseDuration   int64 `json:"parse_duration_ms"`
		ExtractDuration int64 `json:"extract_duration_ms"`
		TotalDuration   int64 `json:"total_duration_ms"`
	}{
		plain:           plain(s),
		ParseDuration:   s.ParseDuration.Milliseconds(),
		ExtractDuration: s.ExtractDuration.Milliseconds(),
		TotalDuration:   s.TotalDuration.Milliseconds(),
	})
}

// NewStats creates a Stats with initialized maps.
func NewStats() *Stats {
	return &Stats{
		RuleHits: make(map[string]int),
	}
}

// RecordRule records that a cleanup rule fired.
func (s *Stats) RecordRule(name string) {
	s.RuleHits[name]++
}

// TablesSkipped returns the number of tables that produced no records
// because of their structure.
func (s *Stats) TablesSkipped() int {
	return s.TablesEmpty + s.TablesBlankHeaders
}

// String returns a human-readable summary.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Tables: %d found, %d skipped (%d empty, %d blank headers)\n",
		s.TablesFound, s.TablesSkipped(), s.TablesEmpty, s.TablesBlankHeaders))

	if s.ColumnsDropped > 0 {
		sb.WriteString(fmt.Sprintf("Dropped columns: %d across %d tables\n",
			s.ColumnsDropped, s.TablesWithDropped))
	}

	sb.WriteString(fmt.Sprintf("Rows: %d emitted, %d empty, %d padded, %d truncated\n",
		s.RowsEmitted, s.RowsEmpty, s.RowsPadded, s.RowsTruncated))

	if len(s.RuleHits) > 0 {
		names := make([]string, 0, len(s.RuleHits))
		for name := range s.RuleHits {
			names = append(names, name)
		}
		sort.Strings(names)

		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%d", name, s.RuleHits[name]))
		}
		sb.WriteString("Rules: ")
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("Timing: parse=%v, extract=%v, total=%v\n",
		s.ParseDuration.Round(time.Millisecond),
		s.ExtractDuration.Round(time.Millisecond),
		s.TotalDuration.Round(time.Millisecond)))

	return sb.String()
}
