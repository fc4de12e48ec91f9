// Package flatten converts detail records into the rectangular table
// written by the exporters.
//
// Each record becomes one row holding its nine fixed fields plus one
// column per contact field per role position, named
// "<Role> <position> <Field>" with 1-based positions. The table's columns
// are the fixed columns in canonical order followed by every other column
// seen in any row, sorted lexicographically.
package flatten
