package tidy

// RawTable is the wide table as read from disk: one row per region and one
// column per (variable, year) block. Rows[0] is the metadata row holding the
// year of each value column; the remaining rows are observations.
type RawTable struct {
	Columns []string
	Rows    [][]string
}

// Index returns the position of column name, or -1.
func (t *RawTable) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// MetadataRow returns the first row keyed by column name. Keying by name keeps
// the year lookup aligned with the surviving columns after pruning.
func (t *RawTable) MetadataRow() map[string]string {
	meta := make(map[string]string, len(t.Columns))
	if len(t.Rows) == 0 {
		return meta
	}
	for i, c := range t.Columns {
		meta[c] = cell(t.Rows[0], i)
	}
	return meta
}

// Observations returns every row after the metadata row.
func (t *RawTable) Observations() [][]string {
	if len(t.Rows) <= 1 {
		return nil
	}
	return t.Rows[1:]
}

// Prune returns a copy of t without the columns matched by pattern, plus the
// names that were removed. t itself is not modified.
func (t *RawTable) Prune(pattern NamePattern) (*RawTable, []string) {
	keep := make([]int, 0, len(t.Columns))
	var dropped []string
	for i, c := range t.Columns {
		if pattern != nil && pattern.Matches(c) {
			dropped = append(dropped, c)
			continue
		}
		keep = append(keep, i)
	}

	out := &RawTable{
		Columns: make([]string, len(keep)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for j, i := range keep {
		out.Columns[j] = t.Columns[i]
	}
	for r, row := range t.Rows {
		pruned := make([]string, len(keep))
		for j, i := range keep {
			pruned[j] = cell(row, i)
		}
		out.Rows[r] = pruned
	}
	return out, dropped
}

// Column returns the cells of column name for every observation row.
func (t *RawTable) Column(name string) []string {
	idx := t.Index(name)
	obs := t.Observations()
	out := make([]string, len(obs))
	if idx < 0 {
		return out
	}
	for r, row := range obs {
		out[r] = cell(row, idx)
	}
	return out
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
