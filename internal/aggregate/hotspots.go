package aggregate

import (
	"math"
	"sort"

	"inkartidy/domain/chart"
	"inkartidy/domain/tidy"
)

// HotspotOptions selects the regions compared between two years.
type HotspotOptions struct {
	Variable    string
	StartYear   int
	EndYear     int
	MustInclude []string
	TopN        int
}

// RankByEndYear returns the regions that have both a start and an end value,
// ordered by end-year value descending. Ties keep region name order.
func RankByEndYear(m *chart.PivotMatrix, startYear, endYear int) []string {
	start, end := m.YearIndex(startYear), m.YearIndex(endYear)
	if start < 0 || end < 0 {
		return nil
	}
	type ranked struct {
		region string
		value  float64
	}
	var complete []ranked
	for i, region := range m.Regions {
		a, b := m.At(i, start), m.At(i, end)
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		complete = append(complete, ranked{region: region, value: b})
	}
	sort.SliceStable(complete, func(i, j int) bool {
		return complete[i].value > complete[j].value
	})
	out := make([]string, len(complete))
	for i, r := range complete {
		out[i] = r.region
	}
	return out
}

// SelectRegions walks mustInclude and then ranking, taking each region that
// is ranked and not yet taken, until limit regions are selected. A
// must-include region that is not ranked (incomplete data) is skipped.
func SelectRegions(mustInclude, ranking []string, limit int) []string {
	if limit <= 0 {
		return nil
	}
	eligible := make(map[string]bool, len(ranking))
	for _, r := range ranking {
		eligible[r] = true
	}

	selected := make([]string, 0, limit)
	seen := make(map[string]bool, limit)
	candidates := append(append([]string(nil), mustInclude...), ranking...)
	for _, r := range candidates {
		if eligible[r] && !seen[r] {
			selected = append(selected, r)
			seen[r] = true
		}
		if len(selected) >= limit {
			break
		}
	}
	return selected
}

// Hotspots returns the start/end matrix of the selected regions, ordered by
// end-year value descending.
func Hotspots(records []tidy.Record, opts HotspotOptions) *chart.PivotMatrix {
	years := []int{opts.StartYear, opts.EndYear}
	full := Pivot(records, opts.Variable, years)

	selected := SelectRegions(opts.MustInclude, RankByEndYear(full, opts.StartYear, opts.EndYear), opts.TopN)

	order := make([]int, len(selected))
	for k, region := range selected {
		order[k] = full.RegionIndex(region)
	}
	end := full.YearIndex(opts.EndYear)
	sort.SliceStable(order, func(a, b int) bool {
		return full.At(order[a], end) > full.At(order[b], end)
	})
	return full.Reorder(order)
}
