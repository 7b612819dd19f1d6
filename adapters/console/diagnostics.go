package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
	"inkartidy/internal/reshape"
	"inkartidy/ports"
)

// Defaults for the reshape printout
const (
	TopVariables = 15
	PreviewRows  = 10
)

var plain = coercer.NewTypeCoercer(coercer.PlainNumberFormat())

// PrintReshape writes the shape summary, a preview of the tidy set and the
// most frequent variables.
func PrintReshape(w io.Writer, stats reshape.Stats, records []tidy.Record) {
	shape := [][]string{
		{"Rohdaten (Zeilen × Spalten)", fmt.Sprintf("%d × %d", stats.RawRows, stats.RawColumns)},
		{"Artefakt-Spalten entfernt", strconv.Itoa(len(stats.ArtifactColumns))},
		{"ID-Spalten", strings.Join(stats.IDColumns, ", ")},
		{"Wertspalten", strconv.Itoa(stats.ValueColumns)},
		{"Wertspalten mit Jahr", strconv.Itoa(stats.MappedColumns)},
		{"Wertspalten ohne Jahr", strconv.Itoa(len(stats.UnmappedColumns))},
		{"Tidy-Zeilen", strconv.Itoa(stats.TidyRows)},
		{"Leere Werte", strconv.Itoa(stats.NullValues)},
		{"Leere Kennziffern", strconv.Itoa(stats.NullCodes)},
		{"Jahr min/max", yearSpan(stats)},
	}
	fmt.Fprintln(w, renderTable("Reshape", []string{"Kennzahl", "Wert"}, shape, []columnAlignment{alignLeft, alignRight}))

	n := PreviewRows
	if len(records) < n {
		n = len(records)
	}
	preview := make([][]string, 0, n)
	for _, r := range records[:n] {
		code, value := "", ""
		if r.Kennziffer.Valid {
			code = strconv.FormatInt(r.Kennziffer.Int64, 10)
		}
		if r.Value.Valid {
			value = plain.FormatFloat(r.Value.Float64)
		}
		preview = append(preview, []string{code, r.Region, strconv.Itoa(r.Year), r.Variable, value})
	}
	fmt.Fprintln(w, renderTable("Vorschau", tidy.Columns[:5], preview,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft, alignRight}))

	counts := stats.VariableCounts
	if len(counts) > TopVariables {
		counts = counts[:TopVariables]
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Variable, strconv.Itoa(c.Count)})
	}
	fmt.Fprintln(w, renderTable(fmt.Sprintf("Top %d Variablen", TopVariables),
		[]string{"Variable", "Anzahl"}, rows, []columnAlignment{alignLeft, alignRight}))
}

func yearSpan(stats reshape.Stats) string {
	if stats.MappedColumns == 0 {
		return "-"
	}
	return fmt.Sprintf("%d / %d", stats.YearMin, stats.YearMax)
}

// PrintExports lists what the presenters wrote or skipped
func PrintExports(w io.Writer, exports []ports.Export) {
	rows := make([][]string, 0, len(exports))
	for _, e := range exports {
		status, detail := "geschrieben", e.Path
		if e.Skipped != nil {
			status, detail = "übersprungen", e.Skipped.Error()
			if !core.IsEmptySelection(e.Skipped) {
				status = "fehler"
			}
		}
		rows = append(rows, []string{e.Name, status, detail})
	}
	fmt.Fprintln(w, renderTable("Exporte", []string{"Datei", "Status", "Details"}, rows, nil))
}

// PrintRuns lists the reshape runs recorded by a SQL mirror
func PrintRuns(w io.Writer, runs []ports.RunInfo) {
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Source,
			strconv.Itoa(r.RecordCount),
			core.Hash(r.ContentHash).Short(),
		})
	}
	fmt.Fprintln(w, renderTable("Läufe", []string{"Zeit", "Lauf", "Quelle", "Zeilen", "Hash"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
}
