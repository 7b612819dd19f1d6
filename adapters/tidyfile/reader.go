package tidyfile

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
)

// ReadStats counts what the reader had to repair or skip
type ReadStats struct {
	Rows        int
	SkippedRows int // rows without a parseable year
	NullValues  int
}

var headerAliases = map[string]string{
	"kennziffer":   tidy.ColumnKennziffer,
	"region":       tidy.ColumnRegion,
	"raumeinheit":  tidy.ColumnRegion,
	"jahr":         tidy.ColumnYear,
	"year":         tidy.ColumnYear,
	"variable":     tidy.ColumnVariable,
	"value":        tidy.ColumnValue,
	"variable_raw": tidy.ColumnVariableRaw,
}

var requiredColumns = []string{tidy.ColumnRegion, tidy.ColumnYear, tidy.ColumnVariable, tidy.ColumnValue}

// Read loads a tidy file. Columns are located by header name, so their order
// does not matter.
func Read(path string, opts Options) ([]tidy.Record, ReadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ReadStats{}, core.NewMissingInputError(path)
		}
		return nil, ReadStats{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	records, stats, err := Decode(file, opts)
	if err != nil {
		return nil, stats, core.NewMalformedInputError(path, err.Error())
	}
	return records, stats, nil
}

// Decode parses tidy records from r
func Decode(r io.Reader, opts Options) ([]tidy.Record, ReadStats, error) {
	opts = opts.withDefaults()
	c := coercer.NewTypeCoercer(opts.Numbers)

	reader := csv.NewReader(r)
	reader.Comma = opts.Separator
	reader.FieldsPerRecord = -1

	var stats ReadStats
	header, err := reader.Read()
	if err == io.EOF {
		return nil, stats, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, stats, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if canonical, ok := headerAliases[name]; ok {
			if _, dup := idx[canonical]; !dup {
				idx[canonical] = i
			}
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, stats, fmt.Errorf("missing column %q", col)
		}
	}

	field := func(line []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(line) {
			return ""
		}
		return strings.TrimSpace(line[i])
	}

	var records []tidy.Record
	for {
		line, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("line %d: %w", stats.Rows+stats.SkippedRows+2, err)
		}

		year, err := strconv.Atoi(field(line, tidy.ColumnYear))
		if err != nil {
			stats.SkippedRows++
			continue
		}

		rec := tidy.Record{
			Region:      field(line, tidy.ColumnRegion),
			Year:        year,
			Variable:    field(line, tidy.ColumnVariable),
			Value:       c.NullFloat(field(line, tidy.ColumnValue)),
			VariableRaw: field(line, tidy.ColumnVariableRaw),
		}
		if code, err := strconv.ParseInt(field(line, tidy.ColumnKennziffer), 10, 64); err == nil {
			rec.Kennziffer = sql.NullInt64{Int64: code, Valid: true}
		}
		if rec.VariableRaw == "" {
			rec.VariableRaw = rec.Variable
		}
		if !rec.Value.Valid {
			stats.NullValues++
		}
		records = append(records, rec)
		stats.Rows++
	}
	return records, stats, nil
}
