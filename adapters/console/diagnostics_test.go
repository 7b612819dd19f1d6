package console

import (
	"bytes"
	"strings"
	"testing"

	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
	"inkartidy/internal/reshape"
	"inkartidy/internal/testkit"
	"inkartidy/ports"

	"github.com/stretchr/testify/assert"
)

func TestPrintReshape(t *testing.T) {
	res := reshape.Reshape(testkit.ScenarioTable().Raw(), reshape.Options{
		CodeColumn:   "Kennziffer",
		RegionColumn: "Raumeinheit",
		Artifact:     tidy.MustRegexPattern(tidy.DefaultArtifactPattern),
	})

	var buf bytes.Buffer
	PrintReshape(&buf, res.Stats, res.Records)
	out := buf.String()

	assert.Contains(t, out, "3 × 7")
	assert.Contains(t, out, "2019 / 2023")
	assert.Contains(t, out, "9162")
	assert.Contains(t, out, "Arbeitslosenquote Jüngere")
	// preview is capped
	assert.Equal(t, PreviewRows, strings.Count(out, "München")+strings.Count(out, "Nürnberg")+strings.Count(out, "Köln"))
}

func TestPrintReshapeWithoutYears(t *testing.T) {
	var buf bytes.Buffer
	PrintReshape(&buf, reshape.Stats{}, nil)
	assert.Contains(t, buf.String(), "Jahr min/max")
}

func TestPrintExports(t *testing.T) {
	var buf bytes.Buffer
	PrintExports(&buf, []ports.Export{
		{Name: "01_line_jugend_vs_gesamt.png", Path: "figures/01_line_jugend_vs_gesamt.png"},
		{Name: "02_heatmap_jugendquote.png", Skipped: core.NewEmptySelectionError("02_heatmap_jugendquote.png", "x")},
	})
	out := buf.String()
	assert.Contains(t, out, "geschrieben")
	assert.Contains(t, out, "übersprungen")
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable("", []string{"a", "b"}, [][]string{{"1"}}, nil)
	assert.Contains(t, out, "1")
	assert.Empty(t, renderTable("", nil, nil, nil))
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	PrintRuns(&buf, []ports.RunInfo{{
		RunID:       "run-1",
		Source:      "raw.csv",
		ContentHash: "0123456789abcdef0123",
		RecordCount: 12,
	}})
	out := buf.String()
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "0123456789ab")
	assert.NotContains(t, out, "0123456789abcdef0123")
}
