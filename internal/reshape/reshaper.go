// Package reshape melts the wide INKAR table into tidy records.
//
// The metadata row is captured before artifact columns are pruned and is kept
// as an explicit column -> year mapping, so no step depends on column
// positions after pruning.
package reshape

import (
	"database/sql"
	"sort"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/domain/tidy"
)

// Options configures one reshape.
type Options struct {
	CodeColumn   string           // region code, e.g. "Kennziffer"
	RegionColumn string           // region name, e.g. "Raumeinheit"
	Artifact     tidy.NamePattern // placeholder columns to drop
	Coercer      *coercer.TypeCoercer
}

// VariableCount is how many tidy rows a variable produced.
type VariableCount struct {
	Variable string
	Count    int
}

// Stats are advisory diagnostics; nothing downstream depends on them.
type Stats struct {
	RawRows         int // observation rows, metadata row excluded
	RawColumns      int
	ArtifactColumns []string
	IDColumns       []string
	ValueColumns    int
	MappedColumns   int
	UnmappedColumns []string
	TidyRows        int
	NullValues      int
	NullCodes       int
	YearMin         int
	YearMax         int
	VariableCounts  []VariableCount
}

// Result is the tidy record set plus its diagnostics.
type Result struct {
	Records []tidy.Record
	Years   tidy.ColumnYears
	Stats   Stats
}

// Reshape converts table into long format. Cells that do not coerce become
// nulls and columns without a year are excluded; neither is an error.
func Reshape(table *tidy.RawTable, opts Options) Result {
	c := opts.Coercer
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.GermanNumberFormat())
	}

	stats := Stats{
		RawRows:    len(table.Observations()),
		RawColumns: len(table.Columns),
	}

	meta := table.MetadataRow()
	pruned, dropped := table.Prune(opts.Artifact)
	stats.ArtifactColumns = dropped

	ids, values := tidy.PartitionColumns(pruned.Columns, []string{opts.CodeColumn, opts.RegionColumn})
	stats.IDColumns = ids
	stats.ValueColumns = len(values)

	years := BuildColumnYears(values, meta, c)
	mapped := years.Mapped(values)
	stats.MappedColumns = len(mapped)
	stats.UnmappedColumns = years.Unmapped(values)

	codes := pruned.Column(opts.CodeColumn)
	regions := pruned.Column(opts.RegionColumn)
	kennziffer := make([]sql.NullInt64, len(codes))
	for i, raw := range codes {
		kennziffer[i] = c.NullInt(raw)
		if !kennziffer[i].Valid {
			stats.NullCodes++
		}
	}

	records := make([]tidy.Record, 0, len(mapped)*len(regions))
	for _, col := range mapped {
		cells := pruned.Column(col)
		year := years[col]
		variable := tidy.StripSuffix(col)
		for i, raw := range cells {
			value := c.NullFloat(raw)
			if !value.Valid {
				stats.NullValues++
			}
			records = append(records, tidy.Record{
				Kennziffer:  kennziffer[i],
				Region:      regions[i],
				Year:        year,
				Variable:    variable,
				Value:       value,
				VariableRaw: col,
			})
		}
	}

	stats.TidyRows = len(records)
	stats.YearMin, stats.YearMax = yearRange(years, mapped)
	stats.VariableCounts = countVariables(records)

	return Result{Records: records, Years: years, Stats: stats}
}

// BuildColumnYears parses the metadata cell of every value column. Columns
// whose cell is not numeric carry no year and are left out of the mapping.
func BuildColumnYears(values []string, meta map[string]string, c *coercer.TypeCoercer) tidy.ColumnYears {
	years := make(tidy.ColumnYears, len(values))
	for _, col := range values {
		if y, ok := c.ParseYear(meta[col]); ok {
			years[col] = y
		}
	}
	return years
}

func yearRange(years tidy.ColumnYears, mapped []string) (lo, hi int) {
	for i, col := range mapped {
		y := years[col]
		if i == 0 || y < lo {
			lo = y
		}
		if i == 0 || y > hi {
			hi = y
		}
	}
	return lo, hi
}

func countVariables(records []tidy.Record) []VariableCount {
	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Variable]++
	}
	out := make([]VariableCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, VariableCount{Variable: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Variable < out[j].Variable
	})
	return out
}
