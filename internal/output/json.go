package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/TWolbert/forzabot2/pkg/tables"
)

// JSONWriter writes the dataset as one JSON array of objects. Every object
// carries all fields of the dataset.
type JSONWriter struct {
	w       *bufio.Writer
	pretty  bool
	indent  string
	records tables.Dataset
	flushed bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:       bufio.NewWriter(w),
		pretty:  pretty,
		indent:  indent,
		records: make(tables.Dataset, 0),
	}
}

// Write buffers a single record for array output.
func (w *JSONWriter) Write(rec tables.Record) error {
	w.records = append(w.records, rec)
	return nil
}

// WriteAll buffers every record of ds.
func (w *JSONWriter) WriteAll(ds tables.Dataset) error {
	w.records = append(w.records, ds...)
	return nil
}

// Flush writes the buffered records as a JSON array.
func (w *JSONWriter) Flush() error {
	if w.flushed {
		return nil
	}
	if len(w.records) == 0 {
		return ErrEmptyDataset
	}

	rows := rectangular(w.records)

	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(rows, "", w.indent)
	} else {
		output, err = json.Marshal(rows)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	if err := w.w.Flush(); err != nil {
		return err
	}
	w.flushed = true
	return nil
}

// Close flushes and closes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one record per line.
// Lines are written as records arrive, so each carries only its own fields.
type JSONLWriter struct {
	w     *bufio.Writer
	count int
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return &JSONLWriter{
		w: bufio.NewWriter(w),
	}
}

// Write writes a single record as a JSON line.
func (w *JSONLWriter) Write(rec tables.Record) error {
	output, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}

	w.count++
	return w.w.Flush()
}

// WriteAll writes every record of ds as JSON lines.
func (w *JSONLWriter) WriteAll(ds tables.Dataset) error {
	for _, rec := range ds {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	if w.count == 0 {
		return ErrEmptyDataset
	}
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
