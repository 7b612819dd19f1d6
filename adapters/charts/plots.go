package charts

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"inkartidy/domain/chart"
	"inkartidy/domain/core"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.Title.Padding = vg.Points(12)
	return p
}

// yearTicks labels every whole year in range
var yearTicks = plot.TickerFunc(func(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for y := math.Ceil(min); y <= max; y++ {
		ticks = append(ticks, plot.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}
	return ticks
})

func finitePoints(years []int, values []float64) plotter.XYs {
	pts := make(plotter.XYs, 0, len(years))
	for i, y := range years {
		if math.IsNaN(values[i]) || math.IsInf(values[i], 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(y), Y: values[i]})
	}
	return pts
}

func buildLine(b chart.Bundle) (*plot.Plot, vg.Length, vg.Length, error) {
	p := newPlot("Jugendarbeitslosigkeit reagiert stärker auf Krisen (Mittel über Regionen)")
	p.X.Label.Text = "Jahr"
	p.Y.Label.Text = "Arbeitslosenquote (%)"
	p.X.Tick.Marker = yearTicks
	p.Legend.Top = true

	series := []struct {
		variable string
		color    color.Color
		width    vg.Length
	}{
		{b.TotalVariable, ColorTotal, vg.Points(2.5)},
		{b.YouthVariable, ColorYouth, vg.Points(3.5)},
	}

	drawn := 0
	for _, s := range series {
		years, means := chart.Series(b.Series, s.variable)
		pts := finitePoints(years, means)
		if len(pts) == 0 {
			continue
		}
		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return nil, 0, 0, err
		}
		line.LineStyle.Color = s.color
		line.LineStyle.Width = s.width
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Color = s.color
		points.GlyphStyle.Radius = vg.Points(3.5)
		p.Add(line, points)
		p.Legend.Add(s.variable, line, points)
		drawn++
	}
	if drawn == 0 {
		return nil, 0, 0, core.NewEmptySelectionError(FileLine, b.YouthVariable)
	}
	return p, 11 * vg.Inch, 5.5 * vg.Inch, nil
}

// pivotGrid exposes a PivotMatrix as plotter.GridXYZ with the first region
// drawn at the top.
type pivotGrid struct {
	m *chart.PivotMatrix
}

func (g pivotGrid) Dims() (c, r int) {
	rows, cols := g.m.Dims()
	return cols, rows
}

func (g pivotGrid) Z(c, r int) float64 {
	rows, _ := g.m.Dims()
	return g.m.At(rows-1-r, c)
}

func (g pivotGrid) X(c int) float64 { return float64(c) }
func (g pivotGrid) Y(r int) float64 { return float64(r) }

func buildHeatmap(b chart.Bundle) (*plot.Plot, vg.Length, vg.Length, error) {
	m := b.Heatmap
	if m.Empty() {
		return nil, 0, 0, core.NewEmptySelectionError(FileHeatmap, b.YouthVariable)
	}
	lo, hi, ok := m.Range()
	if !ok {
		return nil, 0, 0, core.NewEmptySelectionError(FileHeatmap, b.YouthVariable)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	p := newPlot("Wo ist Jugendarbeitslosigkeit dauerhaft höher? (Region × Jahr)")
	p.X.Label.Text = "Jahr"
	p.Y.Label.Text = "Region (sortiert nach Durchschnitt)"

	h := plotter.NewHeatMap(pivotGrid{m: m}, palette.Heat(48, 1))
	h.Min, h.Max = lo, hi
	h.NaN = color.Gray{Y: 0xe0}
	p.Add(h)

	years := make([]string, len(m.Years))
	for j, y := range m.Years {
		years[j] = strconv.Itoa(y)
	}
	regions := make([]string, len(m.Regions))
	for i, r := range m.Regions {
		regions[len(regions)-1-i] = r
	}
	p.NominalX(years...)
	p.NominalY(regions...)

	height := 1.5 + 0.2*float64(len(regions))
	height = math.Max(4, math.Min(40, height))
	return p, 11 * vg.Inch, vg.Length(height) * vg.Inch, nil
}

func buildHotspots(b chart.Bundle) (*plot.Plot, vg.Length, vg.Length, error) {
	m := b.Hotspots
	if m.Empty() {
		return nil, 0, 0, core.NewEmptySelectionError(HotspotsFile(b.StartYear, b.EndYear), b.YouthVariable)
	}

	p := newPlot(fmt.Sprintf("Jugendarbeitslosigkeit: Hotspots im Vergleich (%d → %d)", b.StartYear, b.EndYear))
	p.Y.Label.Text = b.YouthVariable + " (%)"
	p.X.Min, p.X.Max = -0.05, 1.05
	p.X.Tick.Marker = plot.ConstantTicks([]plot.Tick{
		{Value: 0, Label: strconv.Itoa(b.StartYear)},
		{Value: 1, Label: strconv.Itoa(b.EndYear)},
	})
	p.Legend.Top = true
	p.Legend.Left = false

	must := make(map[string]bool, len(b.MustInclude))
	for _, r := range b.MustInclude {
		must[r] = true
	}

	for i, region := range m.Regions {
		start := m.Value(region, b.StartYear)
		end := m.Value(region, b.EndYear)
		if math.IsNaN(start) || math.IsNaN(end) {
			continue
		}
		line, points, err := plotter.NewLinePoints(plotter.XYs{{X: 0, Y: start}, {X: 1, Y: end}})
		if err != nil {
			return nil, 0, 0, err
		}
		c := plotutil.Color(i)
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(3)
		if must[region] {
			line.LineStyle.Width = vg.Points(3.5)
		}
		points.GlyphStyle.Shape = draw.CircleGlyph{}
		points.GlyphStyle.Color = c
		points.GlyphStyle.Radius = vg.Points(4)
		p.Add(line, points)
		p.Legend.Add(fmt.Sprintf("%s (%+.2f pp)", region, end-start), line)
	}
	return p, 11 * vg.Inch, 6 * vg.Inch, nil
}

func buildDelta(b chart.Bundle) (*plot.Plot, vg.Length, vg.Length, error) {
	if len(b.Deltas) == 0 {
		return nil, 0, 0, core.NewEmptySelectionError(DeltaFile(b.StartYear, b.EndYear), b.YouthVariable)
	}

	p := newPlot(fmt.Sprintf("Veränderung der Jugendarbeitslosigkeit (%d → %d)", b.StartYear, b.EndYear))
	p.X.Label.Text = "Veränderung in Prozentpunkten (pp)"

	falling := make(plotter.Values, len(b.Deltas))
	rising := make(plotter.Values, len(b.Deltas))
	regions := make([]string, len(b.Deltas))
	for i, d := range b.Deltas {
		regions[i] = d.Region
		if d.Direction() == chart.Improved {
			falling[i] = d.Delta
		} else {
			rising[i] = d.Delta
		}
	}

	for _, group := range []struct {
		values plotter.Values
		color  color.Color
		label  string
	}{
		{falling, ColorTotal, "sinkt (besser)"},
		{rising, ColorYouth, "steigt (schlechter)"},
	} {
		bars, err := plotter.NewBarChart(group.values, vg.Points(14))
		if err != nil {
			return nil, 0, 0, err
		}
		bars.Horizontal = true
		bars.Color = group.color
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.Legend.Add(group.label, bars)
	}

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -0.5}, {X: 0, Y: float64(len(regions)) - 0.5}})
	if err != nil {
		return nil, 0, 0, err
	}
	zero.LineStyle.Color = ColorTotal
	zero.LineStyle.Width = vg.Points(1.2)
	p.Add(zero)

	p.NominalY(regions...)
	p.Legend.Top = true
	return p, 8.4 * vg.Inch, 5.3 * vg.Inch, nil
}
