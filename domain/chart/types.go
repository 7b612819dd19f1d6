// Package chart holds the derived, read-only structures the aggregator
// computes from the tidy set for each chart export.
package chart

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// MeanPoint is the cross-region mean of one variable in one year.
type MeanPoint struct {
	Year     int
	Variable string
	Mean     float64 // NaN when every value of the group is null
}

// Series extracts the points of one variable in the order they appear.
func Series(points []MeanPoint, variable string) (years []int, means []float64) {
	for _, p := range points {
		if p.Variable == variable {
			years = append(years, p.Year)
			means = append(means, p.Mean)
		}
	}
	return years, means
}

// PivotMatrix is a region x year matrix with NaN for missing combinations.
type PivotMatrix struct {
	Regions []string
	Years   []int
	data    *mat.Dense
}

// NewPivotMatrix allocates a NaN-filled matrix for the given axes.
func NewPivotMatrix(regions []string, years []int) *PivotMatrix {
	m := &PivotMatrix{Regions: regions, Years: years}
	if len(regions) == 0 || len(years) == 0 {
		return m
	}
	buf := make([]float64, len(regions)*len(years))
	for i := range buf {
		buf[i] = math.NaN()
	}
	m.data = mat.NewDense(len(regions), len(years), buf)
	return m
}

// Dims returns the number of regions and years.
func (m *PivotMatrix) Dims() (rows, cols int) {
	return len(m.Regions), len(m.Years)
}

// Empty reports whether the matrix has no regions.
func (m *PivotMatrix) Empty() bool {
	return m == nil || len(m.Regions) == 0
}

func (m *PivotMatrix) At(i, j int) float64 {
	if m.data == nil {
		return math.NaN()
	}
	return m.data.At(i, j)
}

func (m *PivotMatrix) Set(i, j int, v float64) {
	if m.data == nil {
		return
	}
	m.data.Set(i, j, v)
}

// Row returns a copy of row i.
func (m *PivotMatrix) Row(i int) []float64 {
	if m.data == nil {
		return make([]float64, len(m.Years))
	}
	return mat.Row(nil, i, m.data)
}

// RegionIndex returns the row of region, or -1.
func (m *PivotMatrix) RegionIndex(region string) int {
	for i, r := range m.Regions {
		if r == region {
			return i
		}
	}
	return -1
}

// YearIndex returns the column of year, or -1.
func (m *PivotMatrix) YearIndex(year int) int {
	for j, y := range m.Years {
		if y == year {
			return j
		}
	}
	return -1
}

// Value looks a cell up by labels; unknown labels yield NaN.
func (m *PivotMatrix) Value(region string, year int) float64 {
	i, j := m.RegionIndex(region), m.YearIndex(year)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.At(i, j)
}

// Reorder returns a new matrix whose row k is row order[k] of m.
func (m *PivotMatrix) Reorder(order []int) *PivotMatrix {
	regions := make([]string, len(order))
	for k, i := range order {
		regions[k] = m.Regions[i]
	}
	out := NewPivotMatrix(regions, append([]int(nil), m.Years...))
	if out.data == nil {
		return out
	}
	for k, i := range order {
		out.data.SetRow(k, m.Row(i))
	}
	return out
}

// Range returns the smallest and largest non-NaN cell. ok is false when the
// matrix holds no values at all.
func (m *PivotMatrix) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			ok = true
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi, ok
}

// Direction classifies a delta by the unemployment sign convention.
type Direction int

const (
	Unchanged Direction = iota
	Improved            // the rate fell
	Worsened            // the rate rose
)

func (d Direction) String() string {
	switch d {
	case Improved:
		return "improved"
	case Worsened:
		return "worsened"
	default:
		return "unchanged"
	}
}

// DeltaEntry is the change of one region between start and end year, in
// percentage points. Negative means improvement.
type DeltaEntry struct {
	Region string
	Start  float64
	End    float64
	Delta  float64
}

func (d DeltaEntry) Direction() Direction {
	switch {
	case d.Delta < 0:
		return Improved
	case d.Delta > 0:
		return Worsened
	default:
		return Unchanged
	}
}

// Bundle is everything the presentation layer consumes for one run.
type Bundle struct {
	TotalVariable string
	YouthVariable string
	StartYear     int
	EndYear       int
	MustInclude   []string

	Series   []MeanPoint
	Heatmap  *PivotMatrix
	Hotspots *PivotMatrix
	Deltas   []DeltaEntry
}
