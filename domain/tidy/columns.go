package tidy

import (
	"fmt"
	"regexp"
)

// NamePattern decides whether a column name belongs to some structural class,
// e.g. placeholder columns generated for blank headers.
type NamePattern interface {
	Matches(name string) bool
}

// RegexPattern is a NamePattern backed by a regular expression.
type RegexPattern struct {
	re *regexp.Regexp
}

// NewRegexPattern compiles expr into a NamePattern.
func NewRegexPattern(expr string) (*RegexPattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile column pattern %q: %w", expr, err)
	}
	return &RegexPattern{re: re}, nil
}

// MustRegexPattern is NewRegexPattern for constant expressions.
func MustRegexPattern(expr string) *RegexPattern {
	p, err := NewRegexPattern(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *RegexPattern) Matches(name string) bool {
	return p.re.MatchString(name)
}

func (p *RegexPattern) String() string {
	return p.re.String()
}

// DefaultArtifactPattern matches the names dataframe readers give blank headers.
const DefaultArtifactPattern = `^Unnamed`

var suffixPattern = regexp.MustCompile(`\.\d+$`)

// StripSuffix removes one trailing ".<digits>" disambiguation suffix:
// "X.12" -> "X", "X.12.3" -> "X.12", "X" -> "X".
func StripSuffix(name string) string {
	return suffixPattern.ReplaceAllString(name, "")
}

// PartitionColumns splits columns into identifier columns (members of idCols,
// in column order) and value columns (everything else, in column order).
func PartitionColumns(columns, idCols []string) (ids, values []string) {
	isID := make(map[string]bool, len(idCols))
	for _, c := range idCols {
		isID[c] = true
	}
	for _, c := range columns {
		if isID[c] {
			ids = append(ids, c)
		} else {
			values = append(values, c)
		}
	}
	return ids, values
}

// ColumnYears maps a value column name to the year its cells describe.
type ColumnYears map[string]int

// Mapped returns the subset of columns that have a year, preserving order.
func (m ColumnYears) Mapped(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := m[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Unmapped returns the columns without a year, preserving order.
func (m ColumnYears) Unmapped(columns []string) []string {
	var out []string
	for _, c := range columns {
		if _, ok := m[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
