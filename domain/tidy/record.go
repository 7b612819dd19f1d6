// Package tidy holds the long-format observation model shared by the reshaper,
// the aggregator and every sink that persists or presents the tidy set.
package tidy

import (
	"database/sql"
	"sort"
)

// Output column names, in the fixed order the tidy file is written.
const (
	ColumnKennziffer  = "kennziffer"
	ColumnRegion      = "region"
	ColumnYear        = "jahr"
	ColumnVariable    = "variable"
	ColumnValue       = "value"
	ColumnVariableRaw = "variable_raw"
)

// Columns is the tidy header in output order.
var Columns = []string{
	ColumnKennziffer,
	ColumnRegion,
	ColumnYear,
	ColumnVariable,
	ColumnValue,
	ColumnVariableRaw,
}

// Record is one (region, year, variable) observation.
//
// Duplicates of the same triple are legal: the raw source repeats variable
// blocks and those instances are preserved here and only collapsed later by
// mean aggregation.
type Record struct {
	Kennziffer  sql.NullInt64   `db:"kennziffer"`
	Region      string          `db:"region"`
	Year        int             `db:"jahr"`
	Variable    string          `db:"variable"`
	Value       sql.NullFloat64 `db:"value"`
	VariableRaw string          `db:"variable_raw"`
}

// Years returns the distinct years present in records, ascending.
func Years(records []Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}

// FilterVariables keeps only records whose variable is one of names.
// Order is preserved.
func FilterVariables(records []Record, names ...string) []Record {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := make([]Record, 0)
	for _, r := range records {
		if _, ok := want[r.Variable]; ok {
			out = append(out, r)
		}
	}
	return out
}
