package aggregate

import (
	"inkartidy/domain/chart"
	"inkartidy/domain/tidy"
)

// Options names the variables and years of one chart run.
type Options struct {
	TotalVariable string
	YouthVariable string
	StartYear     int
	EndYear       int
	TopN          int
	MustInclude   []string
}

// Build computes all four chart structures from the tidy set.
func Build(records []tidy.Record, opts Options) chart.Bundle {
	hot := Hotspots(records, HotspotOptions{
		Variable:    opts.YouthVariable,
		StartYear:   opts.StartYear,
		EndYear:     opts.EndYear,
		MustInclude: opts.MustInclude,
		TopN:        opts.TopN,
	})

	return chart.Bundle{
		TotalVariable: opts.TotalVariable,
		YouthVariable: opts.YouthVariable,
		StartYear:     opts.StartYear,
		EndYear:       opts.EndYear,
		MustInclude:   opts.MustInclude,

		Series:   MeanSeries(records, opts.TotalVariable, opts.YouthVariable),
		Heatmap:  Heatmap(records, opts.YouthVariable, nil),
		Hotspots: hot,
		Deltas:   Deltas(hot, opts.StartYear, opts.EndYear),
	}
}
