package flatten

import (
	"slices"
	"strconv"

	"github.com/nao1215/hoaregistry/internal/model"
)

// ColumnName returns the flattened column name for a contact field at a
// 1-based position within a role group.
func ColumnName(role model.Role, position int, field string) string {
	return role.String() + " " + strconv.Itoa(position) + " " + field
}

// Row flattens a single record.
func Row(rec *model.DetailRecord) model.FlatRow {
	row := make(model.FlatRow, len(model.FixedColumns)+rec.ContactCount()*len(model.ContactFields))
	for i, value := range rec.Fixed.Values() {
		row[model.FixedColumns[i]] = value
	}
	for _, role := range model.Roles {
		for i, contact := range rec.Contacts(role) {
			for j, value := range contact.Fields() {
				row[ColumnName(role, i+1, model.ContactFields[j])] = value
			}
		}
	}
	return row
}

// Table flattens records in order. Nil records are skipped and the
// relative order of the rest is preserved.
func Table(records []*model.DetailRecord) *model.Table {
	rows := make([]model.FlatRow, 0, len(records))
	for _, rec := range records {
		if rec == nil {
			continue
		}
		rows = append(rows, Row(rec))
	}
	return &model.Table{
		Columns: Columns(rows),
		Rows:    rows,
	}
}

// Columns computes the column universe of rows: the fixed columns first,
// then every other key in sorted order.
func Columns(rows []model.FlatRow) []string {
	fixed := make(map[string]struct{}, len(model.FixedColumns))
	for _, col := range model.FixedColumns {
		fixed[col] = struct{}{}
	}

	seen := make(map[string]struct{})
	dynamic := make([]string, 0)
	for _, row := range rows {
		for key := range row {
			if _, ok := fixed[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			dynamic = append(dynamic, key)
		}
	}
	slices.Sort(dynamic)

	columns := make([]string, 0, len(model.FixedColumns)+len(dynamic))
	columns = append(columns, model.FixedColumns...)
	return append(columns, dynamic...)
}
