package app

import (
	"context"

	"inkartidy/adapters/report"
	"inkartidy/adapters/tidyfile"
	"inkartidy/domain/chart"
	"inkartidy/domain/core"
	"inkartidy/domain/tidy"
	"inkartidy/internal"
	"inkartidy/internal/aggregate"
	"inkartidy/internal/errors"
	"inkartidy/ports"
)

// Reporter summarises a finished aggregation
type Reporter interface {
	Write(ctx context.Context, s report.Summary) ([]ports.Export, error)
}

// AggregateService reads the tidy file, computes the chart structures and
// hands them to the presenters
type AggregateService struct {
	settings   AggregateSettings
	presenters []ports.Presenter
	reporter   Reporter // optional
	log        *internal.Logger
}

// AggregateOutcome is what one run produced
type AggregateOutcome struct {
	RunID     core.RunID
	ReadStats tidyfile.ReadStats
	Bundle    chart.Bundle
	Exports   []ports.Export
}

func NewAggregateService(settings AggregateSettings, presenters []ports.Presenter, reporter Reporter, log *internal.Logger) *AggregateService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &AggregateService{settings: settings, presenters: presenters, reporter: reporter, log: log}
}

// Run aggregates and presents. A missing tidy file aborts; empty selections
// only skip the affected export.
func (s *AggregateService) Run(ctx context.Context) (*AggregateOutcome, error) {
	runID := core.NewRunID()
	log := s.log.With("run_id", runID.String())

	records, readStats, err := tidyfile.Read(s.settings.TidyPath, s.settings.Tidy)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", s.settings.TidyPath)
	}
	log.Info("[Aggregator] Loaded %d tidy records from %s", readStats.Rows, s.settings.TidyPath)
	if readStats.SkippedRows > 0 {
		log.Warn("[Aggregator] Skipped %d rows without a valid year", readStats.SkippedRows)
	}

	opts := s.settings.Aggregate
	records = tidy.FilterVariables(records, opts.TotalVariable, opts.YouthVariable)
	bundle := aggregate.Build(records, opts)
	s.logBundle(log, bundle)

	var exports []ports.Export
	for _, p := range s.presenters {
		out, err := p.Present(ctx, bundle)
		exports = append(exports, out...)
		if err != nil {
			return nil, errors.RenderError(p.Name(), err)
		}
	}

	if s.reporter != nil {
		out, err := s.reporter.Write(ctx, report.Summary{
			RunID:    runID.String(),
			TidyPath: s.settings.TidyPath,
			Records:  readStats.Rows,
			Bundle:   bundle,
			Exports:  exports,
		})
		if err != nil {
			return nil, errors.RenderError("report", err)
		}
		exports = append(exports, out...)
	}

	return &AggregateOutcome{
		RunID:     runID,
		ReadStats: readStats,
		Bundle:    bundle,
		Exports:   exports,
	}, nil
}

func (s *AggregateService) logBundle(log *internal.Logger, b chart.Bundle) {
	heatRows, heatCols := 0, 0
	if b.Heatmap != nil {
		heatRows, heatCols = b.Heatmap.Dims()
	}
	hot := 0
	if b.Hotspots != nil {
		hot, _ = b.Hotspots.Dims()
	}
	log.Info("[Aggregator] %d series points, heatmap %dx%d, %d hotspots, %d deltas",
		len(b.Series), heatRows, heatCols, hot, len(b.Deltas))
	if hot > 0 {
		log.Debug("[Aggregator] Hotspots: %v", b.Hotspots.Regions)
	}
	for _, must := range b.MustInclude {
		if b.Hotspots == nil || b.Hotspots.RegionIndex(must) < 0 {
			log.Warn("[Aggregator] %s lacks %s values for %d and %d; not shown", must, b.YouthVariable, b.StartYear, b.EndYear)
		}
	}
}
