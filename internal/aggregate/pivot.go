package aggregate

import (
	"math"
	"sort"

	"inkartidy/domain/chart"
	"inkartidy/domain/tidy"

	"gonum.org/v1/gonum/stat"
)

type cellKey struct {
	region string
	year   int
}

// Pivot builds the region x year matrix of one variable. Duplicate
// (region, year) records are averaged; null values are ignored. Regions are
// every region that has a record of the variable, in name order. Columns are
// years when given, otherwise the years the variable occurs in; a year
// without data stays a NaN column.
func Pivot(records []tidy.Record, variable string, years []int) *chart.PivotMatrix {
	sums := make(map[cellKey]float64)
	counts := make(map[cellKey]int)
	regionSet := make(map[string]struct{})
	yearSet := make(map[int]struct{})

	for _, r := range records {
		if r.Variable != variable {
			continue
		}
		regionSet[r.Region] = struct{}{}
		yearSet[r.Year] = struct{}{}
		if !r.Value.Valid {
			continue
		}
		k := cellKey{region: r.Region, year: r.Year}
		sums[k] += r.Value.Float64
		counts[k]++
	}

	regions := make([]string, 0, len(regionSet))
	for r := range regionSet {
		regions = append(regions, r)
	}
	sort.Strings(regions)

	if years == nil {
		years = make([]int, 0, len(yearSet))
		for y := range yearSet {
			years = append(years, y)
		}
		sort.Ints(years)
	} else {
		years = append([]int(nil), years...)
	}

	m := chart.NewPivotMatrix(regions, years)
	for i, region := range regions {
		for j, year := range years {
			k := cellKey{region: region, year: year}
			if n := counts[k]; n > 0 {
				m.Set(i, j, sums[k]/float64(n))
			}
		}
	}
	return m
}

// RowMean is the mean of the non-NaN cells of a row, NaN if there are none.
func RowMean(row []float64) float64 {
	present := make([]float64, 0, len(row))
	for _, v := range row {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	return stat.Mean(present, nil)
}

// SortByRowMean orders rows by descending row mean. Ties keep their current
// order and rows without any value go last.
func SortByRowMean(m *chart.PivotMatrix) *chart.PivotMatrix {
	rows, _ := m.Dims()
	means := make([]float64, rows)
	order := make([]int, rows)
	for i := range order {
		order[i] = i
		means[i] = RowMean(m.Row(i))
	}
	sort.SliceStable(order, func(a, b int) bool {
		return descendingNaNLast(means[order[a]], means[order[b]])
	})
	return m.Reorder(order)
}

// Heatmap is the pivot of variable ranked by each region's multi-year mean.
func Heatmap(records []tidy.Record, variable string, years []int) *chart.PivotMatrix {
	return SortByRowMean(Pivot(records, variable, years))
}

func descendingNaNLast(a, b float64) bool {
	switch {
	case math.IsNaN(a):
		return false
	case math.IsNaN(b):
		return true
	default:
		return a > b
	}
}
