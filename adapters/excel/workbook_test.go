package excel_test

import (
	"context"
	"path/filepath"
	"testing"

	"inkartidy/adapters/excel"
	"inkartidy/domain/chart"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBundle() chart.Bundle {
	hot := chart.NewPivotMatrix([]string{"Nürnberg", "Köln"}, []int{2019, 2023})
	hot.Set(0, 0, 4.8)
	hot.Set(0, 1, 5.9)
	hot.Set(1, 0, 7.1)
	hot.Set(1, 1, 7.0)

	return chart.Bundle{
		TotalVariable: "Arbeitslosenquote",
		YouthVariable: "Arbeitslosenquote Jüngere",
		StartYear:     2019,
		EndYear:       2023,
		Series: []chart.MeanPoint{
			{Year: 2019, Variable: "Arbeitslosenquote", Mean: 5.4},
		},
		Heatmap:  hot,
		Hotspots: hot,
		Deltas: []chart.DeltaEntry{
			{Region: "Köln", Start: 7.1, End: 7.0, Delta: -0.1},
		},
	}
}

func TestWorkbookWriterPresent(t *testing.T) {
	dir := t.TempDir()
	exports, err := excel.NewWorkbookWriter(dir, nil).Present(context.Background(), sampleBundle())
	require.NoError(t, err)
	require.Len(t, exports, 1)
	assert.Equal(t, filepath.Join(dir, excel.WorkbookFile), exports[0].Path)

	f, err := excelize.OpenFile(exports[0].Path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{excel.SheetSeries, excel.SheetHeatmap, excel.SheetHotspots, excel.SheetDelta}, f.GetSheetList())

	rows, err := f.GetRows(excel.SheetHotspots)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"region", "2019", "2023"}, rows[0])
	assert.Equal(t, "Nürnberg", rows[1][0])

	rows, err = f.GetRows(excel.SheetDelta)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Köln", rows[1][0])
	assert.Equal(t, "improved", rows[1][4])
}

func TestBuildWorkbookEmptyBundleKeepsHeaders(t *testing.T) {
	f, err := excel.BuildWorkbook(chart.Bundle{StartYear: 2019, EndYear: 2023})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excel.SheetHeatmap)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"region"}}, rows)

	rows, err = f.GetRows(excel.SheetDelta)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWorkbookWriterReportsSheetErrors(t *testing.T) {
	years := make([]int, excelize.MaxColumns)
	for i := range years {
		years[i] = 1000 + i
	}
	b := sampleBundle()
	b.Heatmap = chart.NewPivotMatrix([]string{"Köln"}, years)

	_, err := excel.BuildWorkbook(b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), excel.SheetHeatmap)

	dir := t.TempDir()
	exports, err := excel.NewWorkbookWriter(dir, nil).Present(context.Background(), b)
	require.Error(t, err)
	assert.Nil(t, exports)
	assert.NoFileExists(t, filepath.Join(dir, excel.WorkbookFile))
}
