// Package aggregate derives chart structures from the tidy record set.
//
// Every function is a pure computation over records. A variable that is
// absent from the records yields an empty result, never an error.
package aggregate

import (
	"math"
	"sort"

	"inkartidy/domain/chart"
	"inkartidy/domain/tidy"

	"github.com/montanaflynn/stats"
)

type seriesKey struct {
	year     int
	variable string
}

// MeanSeries averages each requested variable across all regions per year,
// ignoring null values. Points are ordered by year, then variable name. A
// group whose values are all null has a NaN mean.
func MeanSeries(records []tidy.Record, variables ...string) []chart.MeanPoint {
	groups := make(map[seriesKey][]float64)
	for _, r := range tidy.FilterVariables(records, variables...) {
		k := seriesKey{year: r.Year, variable: r.Variable}
		if _, ok := groups[k]; !ok {
			groups[k] = nil
		}
		if r.Value.Valid {
			groups[k] = append(groups[k], r.Value.Float64)
		}
	}

	points := make([]chart.MeanPoint, 0, len(groups))
	for k, values := range groups {
		points = append(points, chart.MeanPoint{
			Year:     k.year,
			Variable: k.variable,
			Mean:     meanOrNaN(values),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Year != points[j].Year {
			return points[i].Year < points[j].Year
		}
		return points[i].Variable < points[j].Variable
	})
	return points
}

func meanOrNaN(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}
