package aggregate

import (
	"math"
	"sort"

	"inkartidy/domain/chart"
)

// Deltas computes end minus start for every row of m that has both values,
// sorted ascending. Negative deltas are improvements.
func Deltas(m *chart.PivotMatrix, startYear, endYear int) []chart.DeltaEntry {
	if m.Empty() {
		return nil
	}
	start, end := m.YearIndex(startYear), m.YearIndex(endYear)
	if start < 0 || end < 0 {
		return nil
	}

	out := make([]chart.DeltaEntry, 0, len(m.Regions))
	for i, region := range m.Regions {
		a, b := m.At(i, start), m.At(i, end)
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		out = append(out, chart.DeltaEntry{Region: region, Start: a, End: b, Delta: b - a})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Delta < out[j].Delta
	})
	return out
}
