package excel

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"inkartidy/domain/chart"
	"inkartidy/internal"
	"inkartidy/ports"

	"github.com/xuri/excelize/v2"
)

// Workbook sheet names
const (
	SheetSeries   = "Zeitreihe"
	SheetHeatmap  = "Heatmap"
	SheetHotspots = "Hotspots"
	SheetDelta    = "Delta"

	WorkbookFile = "aggregates.xlsx"
)

// WorkbookWriter exports the aggregation tables behind every chart into one
// workbook. Tables without rows keep their header.
type WorkbookWriter struct {
	dir string
	log *internal.Logger
}

var _ ports.Presenter = (*WorkbookWriter)(nil)

func NewWorkbookWriter(dir string, log *internal.Logger) *WorkbookWriter {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &WorkbookWriter{dir: dir, log: log}
}

func (w *WorkbookWriter) Name() string { return "workbook" }

// Present writes aggregates.xlsx
func (w *WorkbookWriter) Present(ctx context.Context, b chart.Bundle) ([]ports.Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := BuildWorkbook(b)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	path := filepath.Join(w.dir, WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}
	w.log.Info("[Workbook] Wrote %s", path)
	return []ports.Export{{Name: WorkbookFile, Path: path}}, nil
}

// BuildWorkbook lays out the four aggregation tables, one per sheet
func BuildWorkbook(b chart.Bundle) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSeries); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet %s: %w", SheetSeries, err)
	}
	for _, name := range []string{SheetHeatmap, SheetHotspots, SheetDelta} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// Zeitreihe
	series := [][]interface{}{{"jahr", "variable", "mean"}}
	for _, p := range b.Series {
		series = append(series, []interface{}{p.Year, p.Variable, cellFloat(p.Mean)})
	}

	delta := [][]interface{}{{"region",
		fmt.Sprintf("%d", b.StartYear), fmt.Sprintf("%d", b.EndYear), "delta_pp", "richtung"}}
	for _, d := range b.Deltas {
		delta = append(delta, []interface{}{d.Region, d.Start, d.End, d.Delta, d.Direction().String()})
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSeries, series},
		{SheetHeatmap, matrixRows(b.Heatmap)},
		{SheetHotspots, matrixRows(b.Hotspots)},
		{SheetDelta, delta},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.rows, bold); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write sheet %s: %w", sh.name, err)
		}
	}
	return f, nil
}

func matrixRows(m *chart.PivotMatrix) [][]interface{} {
	header := []interface{}{"region"}
	if m == nil {
		return [][]interface{}{header}
	}
	for _, y := range m.Years {
		header = append(header, y)
	}
	rows := [][]interface{}{header}
	for i, region := range m.Regions {
		row := []interface{}{region}
		for _, v := range m.Row(i) {
			row = append(row, cellFloat(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// cellFloat leaves NaN cells blank
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", "A", 28)
}
