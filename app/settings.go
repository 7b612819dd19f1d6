package app

import (
	"path/filepath"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/adapters/excel"
	"inkartidy/adapters/tidyfile"
	"inkartidy/domain/tidy"
	"inkartidy/internal/aggregate"
	"inkartidy/internal/config"
	"inkartidy/internal/errors"
	"inkartidy/internal/reshape"
)

// ReshapeSettings is everything one reshape run needs
type ReshapeSettings struct {
	RawPath  string
	TidyPath string
	Reader   excel.ReaderConfig
	Numbers  coercer.NumberFormat // format of the raw cells
	Reshape  reshape.Options      // Coercer is derived from Numbers per run
	Tidy     tidyfile.Options
}

// AggregateSettings is everything one aggregation run needs
type AggregateSettings struct {
	TidyPath   string
	Tidy       tidyfile.Options
	Aggregate  aggregate.Options
	FiguresDir string
	ReportsDir string
	DPI        int // 0 means the renderer default
}

// ReshapeSettingsFromConfig maps a validated config onto reshape settings
func ReshapeSettingsFromConfig(cfg *config.Config) (ReshapeSettings, error) {
	pattern, err := tidy.NewRegexPattern(cfg.Input.ArtifactPattern)
	if err != nil {
		return ReshapeSettings{}, errors.ConfigInvalid(err.Error())
	}
	numbers := coercer.NumberFormat{Decimal: cfg.Input.Decimal, Thousands: cfg.Input.Thousands}
	if err := numbers.Validate(); err != nil {
		return ReshapeSettings{}, errors.ConfigInvalid(err.Error())
	}
	if err := excel.ValidateEncoding(cfg.Input.Encoding); err != nil {
		return ReshapeSettings{}, errors.ConfigInvalid(err.Error())
	}

	return ReshapeSettings{
		RawPath:  filepath.Clean(cfg.Paths.Raw),
		TidyPath: filepath.Clean(cfg.Paths.Tidy),
		Reader: excel.ReaderConfig{
			Separator: config.Rune(cfg.Input.Separator),
			Encoding:  cfg.Input.Encoding,
			Sheet:     cfg.Input.Sheet,
		},
		Numbers: numbers,
		Reshape: reshape.Options{
			CodeColumn:   cfg.Input.CodeColumn,
			RegionColumn: cfg.Input.RegionColumn,
			Artifact:     pattern,
		},
		Tidy: tidyOptions(cfg),
	}, nil
}

// AggregateSettingsFromConfig maps a validated config onto aggregation settings
func AggregateSettingsFromConfig(cfg *config.Config) AggregateSettings {
	return AggregateSettings{
		TidyPath: filepath.Clean(cfg.Paths.Tidy),
		Tidy:     tidyOptions(cfg),
		Aggregate: aggregate.Options{
			TotalVariable: cfg.Charts.TotalVariable,
			YouthVariable: cfg.Charts.YouthVariable,
			StartYear:     cfg.Charts.StartYear,
			EndYear:       cfg.Charts.EndYear,
			TopN:          cfg.Charts.TopN,
			MustInclude:   append([]string(nil), cfg.Charts.MustInclude...),
		},
		FiguresDir: cfg.Paths.Figures,
		ReportsDir: cfg.Paths.Reports,
		DPI:        cfg.Charts.DPI,
	}
}

func tidyOptions(cfg *config.Config) tidyfile.Options {
	return tidyfile.Options{
		Separator: config.Rune(cfg.Output.Separator),
		Numbers:   coercer.NumberFormat{Decimal: cfg.Output.Decimal},
	}
}
