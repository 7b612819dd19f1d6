// Package testkit builds wide INKAR-style tables for tests.
package testkit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkartidy/adapters/excel"
	"inkartidy/domain/tidy"
)

// WideTable is a raw table as it appears on disk: the header as written
// (blank and repeated names allowed), the metadata row of years, and the
// observation rows. Cells use the German number format.
type WideTable struct {
	Header []string
	Years  []string
	Rows   [][]string
}

// ScenarioTable is 3 regions x 2 years x 2 variables. The header repeats
// both variable names (the second block gets a ".1" suffix on read) and ends
// in a blank artifact column.
func ScenarioTable() *WideTable {
	return &WideTable{
		Header: []string{"Kennziffer", "Raumeinheit",
			"Arbeitslosenquote", "Arbeitslosenquote Jüngere",
			"Arbeitslosenquote", "Arbeitslosenquote Jüngere", ""},
		Years: []string{"", "", "2019", "2019", "2023", "2023", ""},
		Rows: [][]string{
			{"09162", "München", "3,1", "2,5", "3,4", "2,9", ""},
			{"09564", "Nürnberg", "5,2", "4,8", "6,0", "5,9", ""},
			{"05315", "Köln", "8,0", "7,1", "8,4", "7,0", ""},
		},
	}
}

// Raw returns the table the reader would produce for w.
func (w *WideTable) Raw() *tidy.RawTable {
	rows := make([][]string, 0, len(w.Rows)+1)
	rows = append(rows, append([]string(nil), w.Years...))
	for _, r := range w.Rows {
		rows = append(rows, append([]string(nil), r...))
	}
	return &tidy.RawTable{Columns: excel.NormalizeHeaders(w.Header), Rows: rows}
}

// CSV renders w as delimited text using sep between fields.
func (w *WideTable) CSV(sep string) []byte {
	var b strings.Builder
	writeLine := func(cells []string) {
		b.WriteString(strings.Join(cells, sep))
		b.WriteString("\n")
	}
	writeLine(w.Header)
	writeLine(w.Years)
	for _, r := range w.Rows {
		writeLine(r)
	}
	return []byte(b.String())
}

// WriteCSV writes w into dir/name with ";" separators and returns the path.
func (w *WideTable) WriteCSV(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, w.CSV(";"), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
	return path
}

// Records is a small hand-written tidy set for aggregation tests.
func Records(rows ...RecordRow) []tidy.Record {
	out := make([]tidy.Record, 0, len(rows))
	for _, r := range rows {
		rec := tidy.Record{
			Region:      r.Region,
			Year:        r.Year,
			Variable:    r.Variable,
			VariableRaw: r.Variable,
		}
		if r.Value != nil {
			rec.Value.Float64 = *r.Value
			rec.Value.Valid = true
		}
		out = append(out, rec)
	}
	return out
}

// RecordRow describes one tidy record; a nil Value is null.
type RecordRow struct {
	Region   string
	Year     int
	Variable string
	Value    *float64
}

// V returns a pointer to v, for RecordRow literals.
func V(v float64) *float64 { return &v }
