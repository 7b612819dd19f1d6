package excel_test

import (
	"os"
	"path/filepath"
	"testing"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/adapters/excel"
	"inkartidy/domain/core"
	"inkartidy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeaders(t *testing.T) {
	got := excel.NormalizeHeaders([]string{"Kennziffer", "", "A", "A", "A.1", "A", ""})
	assert.Equal(t, []string{"Kennziffer", "Unnamed: 1", "A", "A.1", "A.1.1", "A.2", "Unnamed: 6"}, got)
}

func TestNormalizeHeadersKeepsWhitespace(t *testing.T) {
	got := excel.NormalizeHeaders([]string{"Quote ", "Quote", " "})
	assert.Equal(t, []string{"Quote ", "Quote", " "}, got)
}

func TestReadDelimited(t *testing.T) {
	w := testkit.ScenarioTable()
	path := w.WriteCSV(t, t.TempDir(), "raw.csv")

	table, err := excel.NewRawReader(path, excel.DefaultReaderConfig(), nil).Read()
	require.NoError(t, err)

	assert.Equal(t, []string{"Kennziffer", "Raumeinheit",
		"Arbeitslosenquote", "Arbeitslosenquote Jüngere",
		"Arbeitslosenquote.1", "Arbeitslosenquote Jüngere.1", "Unnamed: 6"}, table.Columns)
	require.Len(t, table.Rows, 4)
	assert.Equal(t, w.Years, table.Rows[0])
	assert.Equal(t, "Nürnberg", table.Rows[2][1])
	assert.Equal(t, "3,1", table.Rows[1][2])
}

func TestReadSquaresRaggedRowsAndSkipsBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	content := "\uFEFFKennziffer;Raumeinheit;Arbeitslosenquote\n;;2019\n01001;Flensburg\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := excel.NewRawReader(path, excel.DefaultReaderConfig(), nil).Read()
	require.NoError(t, err)
	assert.Equal(t, "Kennziffer", table.Columns[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"01001", "Flensburg", ""}, table.Rows[1])
}

func TestReadLegacyEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.csv")
	// "Nürnberg" in windows-1252
	content := []byte("Kennziffer;Raumeinheit\n;\n09564;N\xfcrnberg\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg := excel.DefaultReaderConfig()
	cfg.Encoding = "windows-1252"
	table, err := excel.NewRawReader(path, cfg, nil).Read()
	require.NoError(t, err)
	assert.Equal(t, "Nürnberg", table.Rows[1][1])
}

func TestReadMissingFile(t *testing.T) {
	_, err := excel.NewRawReader(filepath.Join(t.TempDir(), "absent.csv"), excel.DefaultReaderConfig(), nil).Read()
	assert.ErrorIs(t, err, core.ErrMissingInput)
	assert.True(t, core.IsStructuralError(err))
}

func TestReadEmptyFileIsMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := excel.NewRawReader(path, excel.DefaultReaderConfig(), nil).Read()
	assert.ErrorIs(t, err, core.ErrMalformedInput)
}

func TestReadWorkbook(t *testing.T) {
	w := testkit.ScenarioTable()
	path := filepath.Join(t.TempDir(), "raw.xlsx")

	f := excelize.NewFile()
	lines := append([][]string{w.Header, w.Years}, w.Rows...)
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := make([]interface{}, len(line))
		for j, v := range line {
			values[j] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	r := excel.NewRawReader(path, excel.DefaultReaderConfig(), nil)
	assert.Equal(t, excel.FileTypeXLSX, r.FileType())
	assert.Equal(t, coercer.PlainNumberFormat(), r.NumberFormat(coercer.GermanNumberFormat()))

	table, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, "Arbeitslosenquote.1", table.Columns[4])
	require.Len(t, table.Rows, 4)
	assert.Equal(t, "2019", table.Rows[0][2])
	assert.Equal(t, "München", table.Rows[1][1])
}

func TestDetectFileType(t *testing.T) {
	assert.Equal(t, excel.FileTypeXLSX, excel.DetectFileType("a/b.XLSX"))
	assert.Equal(t, excel.FileTypeCSV, excel.DetectFileType("a/b.csv"))
	assert.Equal(t, excel.FileTypeCSV, excel.DetectFileType("a/b.txt"))
}

func TestValidateEncoding(t *testing.T) {
	assert.NoError(t, excel.ValidateEncoding("utf-8"))
	assert.NoError(t, excel.ValidateEncoding("latin1"))
	assert.Error(t, excel.ValidateEncoding("klingon"))
}
