package charts

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"inkartidy/domain/chart"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
	"inkartidy/internal/aggregate"
	"inkartidy/internal/reshape"
	"inkartidy/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func scenarioBundle() chart.Bundle {
	records := reshape.Reshape(testkit.ScenarioTable().Raw(), reshape.Options{
		CodeColumn:   "Kennziffer",
		RegionColumn: "Raumeinheit",
		Artifact:     tidy.MustRegexPattern(tidy.DefaultArtifactPattern),
	}).Records
	return aggregate.Build(records, aggregate.Options{
		TotalVariable: "Arbeitslosenquote",
		YouthVariable: "Arbeitslosenquote Jüngere",
		StartYear:     2019,
		EndYear:       2023,
		TopN:          6,
		MustInclude:   []string{"Nürnberg"},
	})
}

func TestPresentWritesAllFigures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	r := NewRenderer(Options{Dir: dir, DPI: 48}, nil)

	exports, err := r.Present(context.Background(), scenarioBundle())
	require.NoError(t, err)
	require.Len(t, exports, 4)

	names := []string{FileLine, FileHeatmap, "03_hotspots_2019_2023.png", "05_delta_2019_2023.png"}
	for i, e := range exports {
		assert.Equal(t, names[i], e.Name)
		require.NoError(t, e.Skipped)

		data, err := os.ReadFile(e.Path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", e.Name)
	}
}

func TestPresentSkipsEmptyFigures(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(Options{Dir: dir}, nil)

	bundle := aggregate.Build(nil, aggregate.Options{
		TotalVariable: "Arbeitslosenquote",
		YouthVariable: "Arbeitslosenquote Jüngere",
		StartYear:     2019,
		EndYear:       2023,
		TopN:          6,
	})

	exports, err := r.Present(context.Background(), bundle)
	require.NoError(t, err)
	require.Len(t, exports, 4)
	for _, e := range exports {
		assert.True(t, core.IsEmptySelection(e.Skipped), e.Name)
		assert.Empty(t, e.Path)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPresentStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRenderer(Options{Dir: t.TempDir()}, nil).Present(ctx, scenarioBundle())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPivotGridPutsFirstRegionOnTop(t *testing.T) {
	m := chart.NewPivotMatrix([]string{"A", "B"}, []int{2019, 2023})
	m.Set(0, 0, 1)
	m.Set(1, 0, 2)

	g := pivotGrid{m: m}
	c, r := g.Dims()
	assert.Equal(t, 2, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 1.0, g.Z(0, 1))
	assert.Equal(t, 2.0, g.Z(0, 0))
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, "03_hotspots_2019_2023.png", HotspotsFile(2019, 2023))
	assert.Equal(t, "05_delta_2015_2020.png", DeltaFile(2015, 2020))
}
