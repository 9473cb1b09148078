package export

import (
	"encoding/csv"
	"io"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer wraps csv.Writer for exporting tool runs.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows writes a batch of rows.
func (w *Writer) WriteRows(rows []Row) error {
	for _, r := range rows {
		if err := w.csv.Write(r.cells()); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() {
	w.csv.Flush()
}

func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes the BOM, the header and rows to out.
func WriteCSV(out io.Writer, rows []Row) error {
	if _, err := out.Write(BOM); err != nil {
		return err
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteRows(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
