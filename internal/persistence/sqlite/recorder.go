// Package sqlite records per-step population time series to a SQLite file,
// giving long simulations a queryable history without an external database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/phenogo/phenogo/pkg/population"
)

// Sample is one recorded row of a run's time series.
type Sample struct {
	Step        int
	SimTime     float64
	Cells       int
	TotalVolume float64
	Divisions   int
	Removals    int
	Senescent   int
}

// Recorder appends population samples to a per-run table.
type Recorder struct {
	db *sql.DB
}

// NewRecorder opens (or creates) the database at path and ensures the
// schema exists.
func NewRecorder(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		run_id       TEXT    NOT NULL,
		step         INTEGER NOT NULL,
		sim_time     REAL    NOT NULL,
		cells        INTEGER NOT NULL,
		total_volume REAL    NOT NULL,
		divisions    INTEGER NOT NULL,
		removals     INTEGER NOT NULL,
		senescent    INTEGER NOT NULL,
		PRIMARY KEY (run_id, step)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create samples table: %w", err)
	}
	return &Recorder{db: db}, nil
}

// Record appends one sample for a run. stats carries the accumulated
// division/removal/senescence counters up to this step.
func (r *Recorder) Record(ctx context.Context, runID string, step int, simTime float64, totalVolume float64, stats population.Stats) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO samples
		(run_id, step, sim_time, cells, total_volume, divisions, removals, senescent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, step, simTime, stats.Cells, totalVolume, stats.Divisions, stats.Removals, stats.Senescent)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Samples returns a run's time series in step order.
func (r *Recorder) Samples(ctx context.Context, runID string) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT step, sim_time, cells, total_volume, divisions, removals, senescent
		FROM samples WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("select samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Step, &s.SimTime, &s.Cells, &s.TotalVolume, &s.Divisions, &s.Removals, &s.Senescent); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Runs lists the recorded run IDs.
func (r *Recorder) Runs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM samples ORDER BY run_id`)
	if err != nil {
		return nil, fmt.Errorf("select runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan run id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}
