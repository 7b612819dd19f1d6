package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"inkartidy/domain/tidy"
	"inkartidy/internal/reshape"
	"inkartidy/internal/testkit"
	"inkartidy/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), "sqlite", filepath.Join(t.TempDir(), "tidy.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func scenario() []tidy.Record {
	return reshape.Reshape(testkit.ScenarioTable().Raw(), reshape.Options{
		CodeColumn:   "Kennziffer",
		RegionColumn: "Raumeinheit",
		Artifact:     tidy.MustRegexPattern(tidy.DefaultArtifactPattern),
	}).Records
}

func TestNormalizeDriver(t *testing.T) {
	d, err := NormalizeDriver("SQLite3")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d)

	d, err = NormalizeDriver("postgresql")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, d)

	_, err = NormalizeDriver("mysql")
	assert.Error(t, err)
}

func TestReplaceAndLoadKeepsOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	records := scenario()

	run := ports.RunInfo{RunID: "run-1", Source: "raw.csv", ContentHash: "abc"}
	require.NoError(t, store.ReplaceRecords(ctx, run, records))

	got, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestReplaceOverwritesPreviousSet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.ReplaceRecords(ctx, ports.RunInfo{RunID: "run-1", Source: "a"}, scenario()))

	small := testkit.Records(
		testkit.RecordRow{Region: "Köln", Year: 2019, Variable: "Arbeitslosenquote"},
	)
	require.NoError(t, store.ReplaceRecords(ctx, ports.RunInfo{
		RunID:     "run-2",
		Source:    "b",
		CreatedAt: time.Now().Add(time.Minute),
	}, small))

	got, err := store.LoadRecords(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, sql.NullFloat64{}, got[0].Value)
	assert.False(t, got[0].Kennziffer.Valid)

	runs, err := store.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-1", runs[0].RunID)
	assert.Equal(t, 12, runs[0].RecordCount)
	assert.Equal(t, "run-2", runs[1].RunID)
	assert.Equal(t, 1, runs[1].RecordCount)
}

func TestReopenSkipsAppliedMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tidy.db")
	ctx := context.Background()

	first, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	require.NoError(t, first.ReplaceRecords(ctx, ports.RunInfo{RunID: "run-1", Source: "a"}, scenario()))
	require.NoError(t, first.Close())

	second, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.LoadRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 12)
}

func TestSplitStatements(t *testing.T) {
	got := splitStatements("CREATE TABLE a (x INT);\n\nCREATE INDEX i ON a (x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a (x)"}, got)
}
