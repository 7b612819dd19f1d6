package ports

import (
	"context"

	"inkartidy/domain/chart"
)

// Export is one file a presenter produced or skipped
type Export struct {
	Name string
	Path string
	// Skipped is non-nil when the export was not written; it wraps
	// core.ErrEmptySelection when there was nothing to show.
	Skipped error
}

// Presenter turns an aggregation bundle into files. Presenters must not
// mutate the bundle.
type Presenter interface {
	Name() string
	Present(ctx context.Context, bundle chart.Bundle) ([]Export, error)
}
