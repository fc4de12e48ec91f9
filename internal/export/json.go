package export

import (
	"encoding/json"
	"io"

	"github.com/nao1215/hoaregistry/internal/model"
)

// JSONWriter outputs the table as a JSON document holding the column list
// and one object per row. Every object carries every column.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonTable is the document written by JSONWriter.
type jsonTable struct {
	Columns []string        `json:"columns"`
	Rows    []model.FlatRow `json:"rows"`
}

// Write outputs the table as a single JSON document.
func (w *JSONWriter) Write(table *model.Table) error {
	table = tableOrEmpty(table)

	doc := jsonTable{
		Columns: table.Columns,
		Rows:    make([]model.FlatRow, len(table.Rows)),
	}
	for i := range table.Rows {
		values := table.Record(i)
		row := make(model.FlatRow, len(values))
		for j, col := range table.Columns {
			row[col] = values[j]
		}
		doc.Rows[i] = row
	}

	enc := json.NewEncoder(w.output)
	if w.indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(doc)
}
