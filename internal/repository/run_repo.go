package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cpjust/shopcheck/internal/database"
	"github.com/cpjust/shopcheck/internal/models"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for runs and their results
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		db: database.DB,
	}
}

// NewRunRepositoryWithDB creates a new run repository with a specific database connection
func NewRunRepositoryWithDB(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// SaveRun stores a finished run and all of its results in one transaction.
// Either everything is written or nothing is.
func (r *RunRepository) SaveRun(run *models.Run) (err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(`
		INSERT INTO runs (id, driver, target_url, status, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.Driver, run.TargetURL, run.Status, run.StartedAt, nullTime(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	for _, res := range run.Results {
		_, err = tx.Exec(`
			INSERT INTO scenario_results (id, run_id, position, scenario, passed, error_kind, message, duration_ms)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			res.ID,
			run.ID,
			res.Position,
			res.Scenario,
			res.Passed,
			res.ErrorKind,
			res.Message,
			res.Duration.Milliseconds(),
		)
		if err != nil {
			return fmt.Errorf("failed to save result for %s: %w", res.Scenario, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run together with its results in execution order
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, driver, target_url, status, started_at, finished_at
		FROM runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.Results, err = r.results(run.ID)
	if err != nil {
		return nil, err
	}

	return run, nil
}

// ListRuns returns the most recent runs first, without their results
func (r *RunRepository) ListRuns(limit int) ([]*models.Run, error) {
	query := `
		SELECT id, driver, target_url, status, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *RunRepository) results(runID string) ([]*models.ScenarioResult, error) {
	query := `
		SELECT id, run_id, position, scenario, passed, error_kind, message, duration_ms
		FROM scenario_results
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}
	defer rows.Close()

	var results []*models.ScenarioResult
	for rows.Next() {
		res := &models.ScenarioResult{}
		var durationMS int64
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Position,
			&res.Scenario,
			&res.Passed,
			&res.ErrorKind,
			&res.Message,
			&durationMS,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, res)
	}

	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	run := &models.Run{}
	var finishedAt sql.NullTime
	if err := row.Scan(
		&run.ID,
		&run.Driver,
		&run.TargetURL,
		&run.Status,
		&run.StartedAt,
		&finishedAt,
	); err != nil {
		return nil, err
	}
	run.FinishedAt = finishedAt.Time
	return run, nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
