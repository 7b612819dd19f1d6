// Package sqlstore mirrors the tidy record set into a SQL database so it can
// be queried outside the pipeline. SQLite and PostgreSQL are supported.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkartidy/domain/tidy"
	"inkartidy/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// fixed width so created_at sorts as text
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a sqlx-backed ports.TidyStore
type Store struct {
	db *sqlx.DB
}

var _ ports.TidyStore = (*Store)(nil)

// NormalizeDriver maps accepted driver spellings to a registered driver name
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	case "postgres", "postgresql", "pq":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("unsupported store driver %q", driver)
	}
}

// Open connects and applies pending migrations.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", name, err)
	}

	if name == DriverSQLite {
		// an in-memory database exists per connection
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout = 5000",
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
			}
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s db: %w", name, err)
	}

	store := &Store{db: db}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ReplaceRecords swaps the stored tidy set for records and logs the run, in
// one transaction. Insertion order is kept in seq.
func (s *Store) ReplaceRecords(ctx context.Context, run ports.RunInfo, records []tidy.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tidy_records"); err != nil {
		return fmt.Errorf("clear tidy_records: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO tidy_records (
		seq, run_id, kennziffer, region, jahr, variable, value, variable_raw
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			i, run.RunID, r.Kennziffer, r.Region, r.Year, r.Variable, r.Value, r.VariableRaw,
		); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`INSERT INTO reshape_runs (
		run_id, source, content_hash, record_count, created_at
	) VALUES (?, ?, ?, ?, ?)`),
		run.RunID, run.Source, run.ContentHash, len(records), createdAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// LoadRecords returns the stored tidy set in insertion order
func (s *Store) LoadRecords(ctx context.Context) ([]tidy.Record, error) {
	var records []tidy.Record
	err := s.db.SelectContext(ctx, &records, `SELECT
		kennziffer, region, jahr, variable, value, variable_raw
	FROM tidy_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tidy records: %w", err)
	}
	return records, nil
}

type runRow struct {
	RunID       string `db:"run_id"`
	Source      string `db:"source"`
	ContentHash string `db:"content_hash"`
	RecordCount int    `db:"record_count"`
	CreatedAt   string `db:"created_at"`
}

// Runs lists every recorded reshape, oldest first
func (s *Store) Runs(ctx context.Context) ([]ports.RunInfo, error) {
	var rows []runRow
	err := s.db.SelectContext(ctx, &rows, `SELECT
		run_id, source, content_hash, record_count, created_at
	FROM reshape_runs ORDER BY created_at, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	out := make([]ports.RunInfo, 0, len(rows))
	for _, row := range rows {
		created, err := time.Parse(timeLayout, row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("run %s: bad created_at %q: %w", row.RunID, row.CreatedAt, err)
		}
		out = append(out, ports.RunInfo{
			RunID:       row.RunID,
			Source:      row.Source,
			ContentHash: row.ContentHash,
			RecordCount: row.RecordCount,
			CreatedAt:   created,
		})
	}
	return out, nil
}
