package model

// FlatRow maps column names to values for one entity.
// A missing column means the entity has no contact at that role and position.
type FlatRow map[string]string

// Table is the rectangular export form of a run: the ordered column list
// and one row per record.
type Table struct {
	// Columns are the fixed columns followed by the sorted dynamic columns.
	Columns []string `json:"columns"`

	// Rows holds one flattened row per record, in input order.
	Rows []FlatRow `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Record renders row i against the full column list, substituting an
// empty string for any column the row does not define.
func (t *Table) Record(i int) []string {
	row := t.Rows[i]
	out := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		out[j] = row[col]
	}
	return out
}

// Records renders every row against the full column list.
func (t *Table) Records() [][]string {
	out := make([][]string, t.Len())
	for i := range out {
		out[i] = t.Record(i)
	}
	return out
}
