package ports

import (
	"context"
	"time"

	"inkartidy/domain/tidy"
)

// RunInfo describes one reshape run as recorded by a store
type RunInfo struct {
	RunID       string
	Source      string
	ContentHash string
	RecordCount int
	CreatedAt   time.Time
}

// TidyStore mirrors the tidy record set. Each ReplaceRecords call fully
// replaces the previous set, matching the overwrite semantics of the tidy
// file.
type TidyStore interface {
	ReplaceRecords(ctx context.Context, run RunInfo, records []tidy.Record) error
	LoadRecords(ctx context.Context) ([]tidy.Record, error)
	Runs(ctx context.Context) ([]RunInfo, error)
	Close() error
}
