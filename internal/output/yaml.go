package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/TWolbert/forzabot2/pkg/tables"
)

// YAMLWriter writes the dataset as a YAML sequence of mappings.
type YAMLWriter struct {
	w       *bufio.Writer
	records tables.Dataset
	flushed bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:       bufio.NewWriter(w),
		records: make(tables.Dataset, 0),
	}
}

// Write buffers a single record.
func (w *YAMLWriter) Write(rec tables.Record) error {
	w.records = append(w.records, rec)
	return nil
}

// WriteAll buffers every record of ds.
func (w *YAMLWriter) WriteAll(ds tables.Dataset) error {
	w.records = append(w.records, ds...)
	return nil
}

// Flush writes the buffered records as YAML.
func (w *YAMLWriter) Flush() error {
	if w.flushed {
		return nil
	}
	if len(w.records) == 0 {
		return ErrEmptyDataset
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	if err := encoder.Encode(rectangular(w.records)); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}

	if err := w.w.Flush(); err != nil {
		return err
	}
	w.flushed = true
	return nil
}

// Close flushes and closes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
