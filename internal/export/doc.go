// Package export writes a flattened registry table to disk.
//
// The package contains writers for the supported file formats:
//   - CSVWriter: comma separated values, the canonical export
//   - XLSXWriter: a single-sheet spreadsheet
//   - JSONWriter: the column list plus one object per row
//
// SummaryWriter renders a Markdown summary of a run, including the
// entities that were skipped.
//
// WriteFile and WriteSummaryFile write through a temporary file in the
// target directory and rename it into place, so a failed export never
// leaves a partial file behind.
package export
