package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Run is one pipeline invocation's bookkeeping row.
type Run struct {
	ID             string
	Series         string
	MaxPages       int
	MinPrice       decimal.Decimal
	PagesProcessed int
	AcceptedCount  int
	Success        bool
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// StartRun records the beginning of a scrape and returns its run id.
func (db *DB) StartRun(series string, maxPages int, minPrice decimal.Decimal) (string, error) {
	runID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO scrape_runs (run_id, series, max_pages, min_price, started_at)
		VALUES (?, ?, ?, ?, ?)
	`, runID, series, maxPages, minPrice.StringFixed(2), time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record run start: %w", err)
	}
	return runID, nil
}

// FinishRun stamps a run's outcome.
func (db *DB) FinishRun(runID string, pagesProcessed, accepted int, success bool) error {
	_, err := db.Exec(`
		UPDATE scrape_runs
		SET pages_processed = ?, accepted_count = ?, success = ?, finished_at = ?
		WHERE run_id = ?
	`, pagesProcessed, accepted, success, time.Now().UTC(), runID)
	if err != nil {
		return fmt.Errorf("failed to record run finish: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`
		SELECT run_id, series, max_pages, min_price, pages_processed, accepted_count, success, started_at, finished_at
		FROM scrape_runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r        Run
			minPrice string
			finished sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Series, &r.MaxPages, &minPrice, &r.PagesProcessed, &r.AcceptedCount, &r.Success, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.MinPrice, err = decimal.NewFromString(minPrice)
		if err != nil {
			return nil, fmt.Errorf("malformed stored price %q: %w", minPrice, err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
