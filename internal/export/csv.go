package export

import (
	"encoding/csv"
	"io"

	"github.com/nao1215/hoaregistry/internal/model"
)

// CSVWriter outputs the table as comma separated values with a header row.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the header and one line per row.
func (w *CSVWriter) Write(table *model.Table) error {
	table = tableOrEmpty(table)

	cw := csv.NewWriter(w.output)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	for i := range table.Rows {
		if err := cw.Write(table.Record(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
