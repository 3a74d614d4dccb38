package output

import (
	"encoding/csv"
	"io"

	"github.com/TWolbert/forzabot2/pkg/tables"
)

// CSVWriter writes records as CSV. The header is the sorted union of all
// record fields, so records are buffered until Flush.
type CSVWriter struct {
	w       *csv.Writer
	records tables.Dataset
	flushed bool
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer, crlf bool) *CSVWriter {
	cw := csv.NewWriter(w)
	cw.UseCRLF = crlf
	return &CSVWriter{
		w:       cw,
		records: make(tables.Dataset, 0),
	}
}

// Write buffers a single record.
func (w *CSVWriter) Write(rec tables.Record) error {
	w.records = append(w.records, rec)
	return nil
}

// WriteAll buffers every record of ds.
func (w *CSVWriter) WriteAll(ds tables.Dataset) error {
	w.records = append(w.records, ds...)
	return nil
}

// Flush writes the header line and one line per buffered record, with ""
// for fields a record lacks. Only the first call writes.
func (w *CSVWriter) Flush() error {
	if w.flushed {
		return nil
	}
	if len(w.records) == 0 {
		return ErrEmptyDataset
	}

	fields := w.records.Fields()
	if err := w.w.Write(fields); err != nil {
		return err
	}

	row := make([]string, len(fields))
	for _, rec := range w.records {
		for i, f := range fields {
			row[i] = rec[f]
		}
		if err := w.w.Write(row); err != nil {
			return err
		}
	}

	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return err
	}
	w.flushed = true
	return nil
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}
