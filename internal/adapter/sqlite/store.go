// Package sqlite persists yearly summaries to a local SQLite database using
// the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/couchcryptid/climate-anomaly-etl/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS yearly_summary (
	year         INTEGER PRIMARY KEY,
	temp         REAL NOT NULL,
	temp_anomaly REAL NOT NULL,
	wind         REAL NOT NULL,
	precip       REAL NOT NULL,
	humidity     REAL NOT NULL,
	run_id       TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS summary_runs (
	run_id            TEXT PRIMARY KEY,
	generated_at      TEXT NOT NULL,
	baseline_start    INTEGER NOT NULL,
	baseline_end      INTEGER NOT NULL,
	baseline_temp     REAL NOT NULL,
	baseline_years    INTEGER NOT NULL,
	baseline_fallback INTEGER NOT NULL,
	years             INTEGER NOT NULL
);`

const upsertYear = `
INSERT INTO yearly_summary (year, temp, temp_anomaly, wind, precip, humidity, run_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(year) DO UPDATE SET
	temp = excluded.temp,
	temp_anomaly = excluded.temp_anomaly,
	wind = excluded.wind,
	precip = excluded.precip,
	humidity = excluded.humidity,
	run_id = excluded.run_id`

// Store writes yearly batches to SQLite. It implements pipeline.BatchLoader.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps writes serialized without busy retries.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		logger.Warn("could not set WAL mode", "path", path, "error", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Name identifies the sink in logs and metrics.
func (s *Store) Name() string { return "sqlite" }

// LoadBatch upserts every record keyed by year and records the run, all in
// one transaction. Loading the same batch twice leaves the same rows.
func (s *Store) LoadBatch(ctx context.Context, batch domain.YearlyBatch) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertYear)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range batch.Records {
		if _, err = stmt.ExecContext(ctx, r.Year, r.Temp, r.TempAnomaly, r.Wind, r.Precip, r.Humidity, batch.RunID); err != nil {
			return fmt.Errorf("upsert year %d: %w", r.Year, err)
		}
	}

	b := batch.Baseline
	if _, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO summary_runs
		 (run_id, generated_at, baseline_start, baseline_end, baseline_temp, baseline_years, baseline_fallback, years)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		batch.RunID, batch.GeneratedAt.UTC().Format(time.RFC3339), b.Window.Start, b.Window.End,
		b.Temp, b.Years, b.Fallback, len(batch.Records),
	); err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("yearly records stored", "rows", len(batch.Records), "run_id", batch.RunID)
	return nil
}

// ListYearly returns the stored yearly rows in year order.
func (s *Store) ListYearly(ctx context.Context) ([]domain.YearlyRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, temp, temp_anomaly, wind, precip, humidity FROM yearly_summary ORDER BY year`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.YearlyRecord
	for rows.Next() {
		var r domain.YearlyRecord
		if err := rows.Scan(&r.Year, &r.Temp, &r.TempAnomaly, &r.Wind, &r.Precip, &r.Humidity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LastRun returns the baseline and run ID of the most recently generated run.
func (s *Store) LastRun(ctx context.Context) (string, domain.Baseline, error) {
	var (
		runID string
		b     domain.Baseline
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, baseline_start, baseline_end, baseline_temp, baseline_years, baseline_fallback
		 FROM summary_runs ORDER BY generated_at DESC LIMIT 1`,
	).Scan(&runID, &b.Window.Start, &b.Window.End, &b.Temp, &b.Years, &b.Fallback)
	if err != nil {
		return "", domain.Baseline{}, err
	}
	return runID, b, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
