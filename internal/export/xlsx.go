package export

import (
	"io"

	"github.com/nao1215/hoaregistry/internal/model"
	"github.com/xuri/excelize/v2"
)

// SheetName is the name of the single worksheet in XLSX exports.
const SheetName = "HOA Registry"

// XLSXWriter outputs the table as a spreadsheet with one worksheet.
// Rows are written through excelize's stream writer so large registries
// do not build the whole sheet in memory.
type XLSXWriter struct {
	baseWriter
}

// NewXLSXWriter creates an XLSXWriter that outputs to the given writer.
func NewXLSXWriter(output io.Writer) *XLSXWriter {
	return &XLSXWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the header on the first row and the records below it.
func (w *XLSXWriter) Write(table *model.Table) (err error) {
	table = tableOrEmpty(table)

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}

	if err := sw.SetRow("A1", toCells(table.Columns)); err != nil {
		return err
	}
	for i := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, toCells(table.Record(i))); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w.output)
	return err
}

// toCells converts string values to the cell slice excelize expects.
// Values stay strings so entity ids and phone numbers are not reformatted.
func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
