// Package store persists analysis runs to PostgreSQL.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhkim/tessa/internal/analysis"
)

// Repository handles analysis-run persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new analysis repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Run is the stored form of one evaluation, signals and score as JSONB.
type Run struct {
	ID             int64     `json:"id"`
	Symbol         string    `json:"symbol"`
	Interval       string    `json:"interval"`
	GeneratedAt    time.Time `json:"generated_at"`
	Regime         string    `json:"regime"`
	Score          float64   `json:"score"`
	Recommendation string    `json:"recommendation"`
	Signals        []byte    `json:"signals"`
}

// SaveRun stores the scoring summary of one evaluation. The heavyweight
// series maps are not persisted, only the signals and the composite.
func (r *Repository) SaveRun(ctx context.Context, res *analysis.Result) (int64, error) {
	signalsJSON, err := json.Marshal(res.Signals)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal signals: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (
			symbol, interval, generated_at, regime, score, recommendation, signals
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		res.Symbol, string(res.Interval), res.GeneratedAt, string(res.Regime),
		res.Composite.Score, string(res.Composite.Recommendation), signalsJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save analysis run: %w", err)
	}

	return id, nil
}

// LatestRun retrieves the most recent stored run for a symbol and interval.
func (r *Repository) LatestRun(ctx context.Context, symbol, interval string) (*Run, error) {
	query := `
		SELECT id, symbol, interval, generated_at, regime, score, recommendation, signals
		FROM analysis_runs
		WHERE symbol = $1 AND interval = $2
		ORDER BY generated_at DESC
		LIMIT 1
	`

	var run Run
	err := r.pool.QueryRow(ctx, query, symbol, interval).Scan(
		&run.ID, &run.Symbol, &run.Interval, &run.GeneratedAt,
		&run.Regime, &run.Score, &run.Recommendation, &run.Signals,
	)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no stored run for %s/%s", symbol, interval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	return &run, nil
}

// ListRuns retrieves runs for a symbol in reverse chronological order.
func (r *Repository) ListRuns(ctx context.Context, symbol string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT id, symbol, interval, generated_at, regime, score, recommendation, signals
		FROM analysis_runs
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.Symbol, &run.Interval, &run.GeneratedAt,
			&run.Regime, &run.Score, &run.Recommendation, &run.Signals,
		); err != nil {
			return nil, fmt.Errorf("failed to scan analysis run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// EnsureSchema creates the analysis_runs table when it does not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id             BIGSERIAL PRIMARY KEY,
			symbol         TEXT NOT NULL,
			interval       TEXT NOT NULL,
			generated_at   TIMESTAMPTZ NOT NULL,
			regime         TEXT NOT NULL,
			score          DOUBLE PRECISION NOT NULL,
			recommendation TEXT NOT NULL,
			signals        JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_analysis_runs_symbol_time
			ON analysis_runs (symbol, generated_at DESC);
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
