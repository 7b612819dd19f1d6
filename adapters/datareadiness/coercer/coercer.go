package coercer

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NumberFormat describes how numbers are written in a source file.
type NumberFormat struct {
	Decimal   string `json:"decimal" toml:"decimal"`     // decimal separator, e.g. ","
	Thousands string `json:"thousands" toml:"thousands"` // grouping separator, empty for none
}

// GermanNumberFormat is the INKAR export convention: "12,5".
func GermanNumberFormat() NumberFormat {
	return NumberFormat{Decimal: ","}
}

// PlainNumberFormat is the tidy file convention: "12.5".
func PlainNumberFormat() NumberFormat {
	return NumberFormat{Decimal: "."}
}

// Validate rejects formats that cannot be parsed unambiguously.
func (f NumberFormat) Validate() error {
	if f.Decimal == "" {
		return fmt.Errorf("decimal separator must not be empty")
	}
	if f.Decimal == f.Thousands {
		return fmt.Errorf("decimal and thousands separator must differ (both %q)", f.Decimal)
	}
	return nil
}

// TypeCoercer converts raw cells into nullable numbers. A cell that does not
// parse becomes null; coercion never fails a row.
type TypeCoercer struct {
	format NumberFormat
}

// NewTypeCoercer creates a coercer for the given number format
func NewTypeCoercer(format NumberFormat) *TypeCoercer {
	return &TypeCoercer{format: format}
}

// ParseFloat parses a locale-formatted number. Empty strings, placeholders
// such as "." or "-", and non-finite values are rejected.
func (c *TypeCoercer) ParseFloat(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	if c.format.Thousands != "" {
		cleanVal = strings.ReplaceAll(cleanVal, c.format.Thousands, "")
	}
	if c.format.Decimal != "." {
		// a literal "." is not a decimal point in this format
		if strings.Contains(cleanVal, ".") {
			return 0, false
		}
		cleanVal = strings.ReplaceAll(cleanVal, c.format.Decimal, ".")
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil {
		return 0, false
	}
	if math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseInt parses an integer, accepting integral floats ("1001,0").
func (c *TypeCoercer) ParseInt(raw string) (int64, bool) {
	val, ok := c.ParseFloat(raw)
	if !ok || val != math.Trunc(val) {
		return 0, false
	}
	if val >= 1<<63 || val < -(1<<63) {
		return 0, false
	}
	return int64(val), true
}

// Accepted year range for metadata cells.
const (
	MinYear = 1
	MaxYear = 9999
)

// ParseYear parses a metadata cell into a year. Fractional years truncate;
// anything outside MinYear..MaxYear is not a year.
func (c *TypeCoercer) ParseYear(raw string) (int, bool) {
	val, ok := c.ParseFloat(raw)
	if !ok {
		return 0, false
	}
	val = math.Trunc(val)
	if val < MinYear || val > MaxYear {
		return 0, false
	}
	return int(val), true
}

// NullFloat coerces raw into a nullable float.
func (c *TypeCoercer) NullFloat(raw string) sql.NullFloat64 {
	val, ok := c.ParseFloat(raw)
	return sql.NullFloat64{Float64: val, Valid: ok}
}

// NullInt coerces raw into a nullable integer.
func (c *TypeCoercer) NullInt(raw string) sql.NullInt64 {
	val, ok := c.ParseInt(raw)
	return sql.NullInt64{Int64: val, Valid: ok}
}

// FormatFloat writes v in the coercer's format using the shortest
// representation that round-trips.
func (c *TypeCoercer) FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if c.format.Decimal != "." {
		s = strings.Replace(s, ".", c.format.Decimal, 1)
	}
	return s
}
