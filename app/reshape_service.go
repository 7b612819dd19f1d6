package app

import (
	"context"
	"time"

	"inkartidy/adapters/datareadiness/coercer"
	"inkartidy/adapters/tidyfile"
	"inkartidy/domain/core"
	"inkartidy/internal"
	"inkartidy/internal/errors"
	"inkartidy/internal/reshape"
	"inkartidy/ports"
)

// numberFormatter is implemented by readers whose cells arrive in a fixed
// number format regardless of configuration
type numberFormatter interface {
	NumberFormat(configured coercer.NumberFormat) coercer.NumberFormat
}

// ReshapeService turns the wide raw table into the tidy file
type ReshapeService struct {
	reader   ports.RawTableReader
	store    ports.TidyStore // optional mirror
	settings ReshapeSettings
	log      *internal.Logger
}

// ReshapeOutcome is what one run produced
type ReshapeOutcome struct {
	RunID    core.RunID
	TidyPath string
	Hash     core.Hash
	Result   reshape.Result
}

// NewReshapeService wires a reshape run. store may be nil.
func NewReshapeService(reader ports.RawTableReader, store ports.TidyStore, settings ReshapeSettings, log *internal.Logger) *ReshapeService {
	if log == nil {
		log = internal.DefaultLogger
	}
	return &ReshapeService{reader: reader, store: store, settings: settings, log: log}
}

// Run reads, melts and persists. Only a missing or unreadable input aborts;
// cell-level problems end up as nulls and counters.
func (s *ReshapeService) Run(ctx context.Context) (*ReshapeOutcome, error) {
	runID := core.NewRunID()
	log := s.log.With("run_id", runID.String())
	start := time.Now()

	table, err := s.reader.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", s.settings.RawPath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	numbers := s.settings.Numbers
	if nf, ok := s.reader.(numberFormatter); ok {
		numbers = nf.NumberFormat(numbers)
	}
	opts := s.settings.Reshape
	opts.Coercer = coercer.NewTypeCoercer(numbers)

	result := reshape.Reshape(table, opts)
	st := result.Stats
	log.Info("[Reshaper] %d rows x %d columns -> %d tidy rows (%d value columns, %d without year, %d artifacts dropped)",
		st.RawRows, st.RawColumns, st.TidyRows, st.ValueColumns, len(st.UnmappedColumns), len(st.ArtifactColumns))
	if len(st.UnmappedColumns) > 0 {
		log.Warn("[Reshaper] Excluded columns without a year: %v", st.UnmappedColumns)
	}
	if st.NullValues > 0 {
		log.Debug("[Reshaper] %d cells did not parse and are null", st.NullValues)
	}

	hash, err := tidyfile.Write(s.settings.TidyPath, result.Records, s.settings.Tidy)
	if err != nil {
		return nil, errors.StorageError("failed to write tidy file", err)
	}
	log.Info("[Reshaper] Wrote %s (%s)", s.settings.TidyPath, hash.Short())

	if s.store != nil {
		run := ports.RunInfo{
			RunID:       runID.String(),
			Source:      s.settings.RawPath,
			ContentHash: hash.String(),
			RecordCount: len(result.Records),
			CreatedAt:   start,
		}
		if err := s.store.ReplaceRecords(ctx, run, result.Records); err != nil {
			return nil, errors.StorageError("failed to mirror tidy records", err)
		}
		log.Info("[Reshaper] Mirrored %d records", len(result.Records))
	}

	log.Debug("[Reshaper] Finished in %s", time.Since(start))
	return &ReshapeOutcome{
		RunID:    runID,
		TidyPath: s.settings.TidyPath,
		Hash:     hash,
		Result:   result,
	}, nil
}
