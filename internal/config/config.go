package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"inkartidy/internal/errors"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the complete application configuration
type Config struct {
	LogLevel string       `toml:"log_level"`
	Paths    PathConfig   `toml:"paths"`
	Input    InputConfig  `toml:"input"`
	Output   OutputConfig `toml:"output"`
	Charts   ChartConfig  `toml:"charts"`
	Store    StoreConfig  `toml:"store"`
}

// PathConfig holds file system paths
type PathConfig struct {
	Raw     string `toml:"raw"`     // wide source table
	Tidy    string `toml:"tidy"`    // long-format output, aggregator input
	Figures string `toml:"figures"` // PNG charts
	Reports string `toml:"reports"` // workbook and report
}

// InputConfig describes the raw table dialect
type InputConfig struct {
	Separator       string `toml:"separator"`
	Decimal         string `toml:"decimal"`
	Thousands       string `toml:"thousands"`
	Encoding        string `toml:"encoding"`
	Sheet           string `toml:"sheet"`
	ArtifactPattern string `toml:"artifact_pattern"`
	CodeColumn      string `toml:"code_column"`
	RegionColumn    string `toml:"region_column"`
}

// OutputConfig describes the tidy file dialect
type OutputConfig struct {
	Separator string `toml:"separator"`
	Decimal   string `toml:"decimal"`
}

// ChartConfig selects what the aggregator computes
type ChartConfig struct {
	TotalVariable string   `toml:"total_variable"`
	YouthVariable string   `toml:"youth_variable"`
	StartYear     int      `toml:"start_year"`
	EndYear       int      `toml:"end_year"`
	TopN          int      `toml:"top_n"`
	MustInclude   []string `toml:"must_include"`
	DPI           int      `toml:"dpi"`
}

// StoreConfig enables the optional SQL mirror; an empty DSN disables it
type StoreConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// Enabled reports whether a SQL mirror is configured
func (s StoreConfig) Enabled() bool {
	return strings.TrimSpace(s.DSN) != ""
}

// Default returns the settings of the INKAR unemployment export
func Default() Config {
	return Config{
		LogLevel: "INFO",
		Paths: PathConfig{
			Raw:     "data/raw/Arbeitslosigkeit_inkar_Datenvis.csv",
			Tidy:    "data/clean/clean_long.csv",
			Figures: "figures",
			Reports: "reports",
		},
		Input: InputConfig{
			Separator:       ";",
			Decimal:         ",",
			Encoding:        "utf-8",
			ArtifactPattern: "^Unnamed",
			CodeColumn:      "Kennziffer",
			RegionColumn:    "Raumeinheit",
		},
		Output: OutputConfig{
			Separator: ",",
			Decimal:   ".",
		},
		Charts: ChartConfig{
			TotalVariable: "Arbeitslosenquote",
			YouthVariable: "Arbeitslosenquote Jüngere",
			StartYear:     2019,
			EndYear:       2023,
			TopN:          6,
			MustInclude:   []string{"Nürnberg"},
			DPI:           150,
		},
		Store: StoreConfig{
			Driver: "sqlite",
		},
	}
}

// LoadOptions points Load at its sources
type LoadOptions struct {
	EnvFile    string // defaults to ".env"
	ConfigFile string // TOML file; falls back to INKAR_CONFIG
}

// Load layers defaults, the .env file, an optional TOML file and INKAR_*
// environment variables, then validates the result.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to load %s", envFile)
	}

	cfg := Default()

	path := opts.ConfigFile
	if path == "" {
		path = os.Getenv("INKAR_CONFIG")
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("open config %s: %v", path, err))
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("parse config %s: %v", path, err))
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)

	cfg.Paths.Raw = getEnvOrDefault("INKAR_RAW_PATH", cfg.Paths.Raw)
	cfg.Paths.Tidy = getEnvOrDefault("INKAR_TIDY_PATH", cfg.Paths.Tidy)
	cfg.Paths.Figures = getEnvOrDefault("INKAR_FIGURES_DIR", cfg.Paths.Figures)
	cfg.Paths.Reports = getEnvOrDefault("INKAR_REPORTS_DIR", cfg.Paths.Reports)

	cfg.Input.Separator = getEnvOrDefault("INKAR_INPUT_SEPARATOR", cfg.Input.Separator)
	cfg.Input.Decimal = getEnvOrDefault("INKAR_INPUT_DECIMAL", cfg.Input.Decimal)
	cfg.Input.Encoding = getEnvOrDefault("INKAR_INPUT_ENCODING", cfg.Input.Encoding)
	cfg.Input.Sheet = getEnvOrDefault("INKAR_INPUT_SHEET", cfg.Input.Sheet)

	cfg.Output.Separator = getEnvOrDefault("INKAR_OUTPUT_SEPARATOR", cfg.Output.Separator)

	cfg.Charts.StartYear = getEnvIntOrDefault("INKAR_START_YEAR", cfg.Charts.StartYear)
	cfg.Charts.EndYear = getEnvIntOrDefault("INKAR_END_YEAR", cfg.Charts.EndYear)
	cfg.Charts.TopN = getEnvIntOrDefault("INKAR_TOP_N", cfg.Charts.TopN)
	if v := os.Getenv("INKAR_MUST_INCLUDE"); v != "" {
		cfg.Charts.MustInclude = splitList(v)
	}

	cfg.Store.Driver = getEnvOrDefault("INKAR_STORE_DRIVER", cfg.Store.Driver)
	cfg.Store.DSN = getEnvOrDefault("INKAR_STORE_DSN", cfg.Store.DSN)
}

// Validate rejects settings no run could succeed with
func (c *Config) Validate() error {
	if c.Paths.Raw == "" || c.Paths.Tidy == "" {
		return errors.ConfigInvalid("raw and tidy paths are required")
	}
	if err := validateSeparators("input", c.Input.Separator, c.Input.Decimal, c.Input.Thousands); err != nil {
		return err
	}
	if err := validateSeparators("output", c.Output.Separator, c.Output.Decimal, ""); err != nil {
		return err
	}
	if _, err := regexp.Compile(c.Input.ArtifactPattern); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("invalid artifact pattern %q: %v", c.Input.ArtifactPattern, err))
	}
	if c.Input.CodeColumn == "" || c.Input.RegionColumn == "" {
		return errors.ConfigInvalid("code and region column names are required")
	}
	if c.Charts.TopN < 0 {
		return errors.ConfigInvalid("charts.top_n must not be negative")
	}
	if c.Charts.TotalVariable == "" || c.Charts.YouthVariable == "" {
		return errors.ConfigInvalid("chart variables are required")
	}
	return nil
}

func validateSeparators(section, field, decimal, thousands string) error {
	if utf8.RuneCountInString(field) != 1 {
		return errors.ConfigInvalid(fmt.Sprintf("%s.separator must be a single character, got %q", section, field))
	}
	if decimal == "" {
		return errors.ConfigInvalid(fmt.Sprintf("%s.decimal is required", section))
	}
	if field == decimal {
		return errors.ConfigInvalid(fmt.Sprintf("%s.separator and %s.decimal must differ", section, section))
	}
	if thousands != "" && thousands == decimal {
		return errors.ConfigInvalid(fmt.Sprintf("%s.thousands and %s.decimal must differ", section, section))
	}
	return nil
}

// Rune returns the single character of a validated separator
func Rune(sep string) rune {
	r, _ := utf8.DecodeRuneInString(sep)
	return r
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
