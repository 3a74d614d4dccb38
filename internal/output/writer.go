// Package output handles output formatting and writing.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/TWolbert/forzabot2/pkg/tables"
)

// ErrEmptyDataset is returned when a writer is flushed without records.
// It is the only fatal condition of an extraction run.
var ErrEmptyDataset = errors.New("no data extracted from HTML tables")

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSON, FormatJSONL, FormatYAML}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format: %s", s)
}

// FormatFromPath infers the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCSV
	}
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single record.
	Write(rec tables.Record) error

	// WriteAll outputs every record of a dataset.
	WriteAll(ds tables.Dataset) error

	// Flush ensures all data is written. It returns ErrEmptyDataset when
	// no record was written.
	Flush() error

	// Close flushes the writer.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
	crlf   bool
}

// WithPretty toggles indented JSON output. Defaults to true.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithCRLF selects \r\n (the default) or \n as the CSV line terminator.
func WithCRLF(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.crlf = enabled
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		crlf:   true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV:
		return NewCSVWriter(w, cfg.crlf), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteFile writes ds to path in the given format. An empty dataset fails
// with ErrEmptyDataset before the file is created.
func WriteFile(path string, format Format, ds tables.Dataset, opts ...WriterOption) error {
	if len(ds) == 0 {
		return ErrEmptyDataset
	}
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	w, err := NewWriter(f, format, opts...)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := w.WriteAll(ds); err != nil {
		_ = f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// rectangular fills every record with all fields of the dataset, using ""
// for fields the record lacks.
func rectangular(ds tables.Dataset) []map[string]string {
	fields := ds.Fields()
	out := make([]map[string]string, 0, len(ds))
	for _, rec := range ds {
		row := make(map[string]string, len(fields))
		for _, f := range fields {
			row[f] = rec[f]
		}
		out = append(out, row)
	}
	return out
}
