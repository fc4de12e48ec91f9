package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/hoaregistry/internal/model"
)

// Format names accepted by NewWriter.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

// Writer defines the interface for table output.
// Every row is rendered against the full column list; columns a row does
// not define are written as empty values.
type Writer interface {
	// Write outputs the table to the configured destination.
	Write(table *model.Table) error
}

// NewWriter returns the Writer for the given format, writing to output.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return NewCSVWriter(output), nil
	case FormatXLSX:
		return NewXLSXWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for table writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// tableOrEmpty stands in for a nil table so writers still emit a header.
func tableOrEmpty(table *model.Table) *model.Table {
	if table == nil {
		return &model.Table{Columns: model.FixedColumns}
	}
	return table
}
