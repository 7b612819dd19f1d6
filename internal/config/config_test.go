package config

import (
	"os"
	"path/filepath"
	"testing"

	"inkartidy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnvFile(t *testing.T) LoadOptions {
	return LoadOptions{EnvFile: filepath.Join(t.TempDir(), "absent.env")}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ';', Rune(cfg.Input.Separator))
	assert.Equal(t, []string{"Nürnberg"}, cfg.Charts.MustInclude)
	assert.False(t, cfg.Store.Enabled())
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkar.toml")
	content := `
[paths]
raw = "in/wide.xlsx"

[charts]
start_year = 2015
must_include = ["Köln", "Bremen"]

[store]
dsn = "file:tidy.db"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts := noEnvFile(t)
	opts.ConfigFile = path
	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "in/wide.xlsx", cfg.Paths.Raw)
	assert.Equal(t, "data/clean/clean_long.csv", cfg.Paths.Tidy)
	assert.Equal(t, 2015, cfg.Charts.StartYear)
	assert.Equal(t, 2023, cfg.Charts.EndYear)
	assert.Equal(t, []string{"Köln", "Bremen"}, cfg.Charts.MustInclude)
	assert.True(t, cfg.Store.Enabled())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkar.toml")
	require.NoError(t, os.WriteFile(path, []byte("[charts]\ntop_n = 3\n"), 0o644))

	t.Setenv("INKAR_CONFIG", path)
	t.Setenv("INKAR_TOP_N", "9")
	t.Setenv("INKAR_MUST_INCLUDE", "Köln, Nürnberg ,")
	t.Setenv("INKAR_TIDY_PATH", "out/long.csv")

	cfg, err := Load(noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Charts.TopN)
	assert.Equal(t, []string{"Köln", "Nürnberg"}, cfg.Charts.MustInclude)
	assert.Equal(t, "out/long.csv", cfg.Paths.Tidy)
}

func TestLoadDotEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("INKAR_REPORTS_DIR=out/reports\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("INKAR_REPORTS_DIR") })

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "out/reports", cfg.Paths.Reports)
}

func TestLoadMissingConfigFile(t *testing.T) {
	opts := noEnvFile(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "nope.toml")

	_, err := Load(opts)
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkar.toml")
	require.NoError(t, os.WriteFile(path, []byte("[charts]\ntopn = 3\n"), 0o644))

	opts := noEnvFile(t)
	opts.ConfigFile = path
	_, err := Load(opts)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty separator", func(c *Config) { c.Input.Separator = "" }},
		{"multi-char separator", func(c *Config) { c.Input.Separator = ";;" }},
		{"separator equals decimal", func(c *Config) { c.Input.Separator = "," }},
		{"thousands equals decimal", func(c *Config) { c.Input.Thousands = "," }},
		{"bad artifact pattern", func(c *Config) { c.Input.ArtifactPattern = "(" }},
		{"negative top n", func(c *Config) { c.Charts.TopN = -1 }},
		{"no tidy path", func(c *Config) { c.Paths.Tidy = "" }},
		{"no region column", func(c *Config) { c.Input.RegionColumn = "" }},
		{"output separator equals decimal", func(c *Config) { c.Output.Separator = "." }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
