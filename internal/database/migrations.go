package database

import (
	"database/sql"
	"fmt"
)

// Schema creates the run history tables. It is idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id UUID PRIMARY KEY,
		driver VARCHAR(32) NOT NULL,
		target_url TEXT NOT NULL,
		status VARCHAR(16) NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS scenario_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		scenario VARCHAR(255) NOT NULL,
		passed BOOLEAN NOT NULL,
		error_kind VARCHAR(64) NOT NULL DEFAULT '',
		message TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_scenario_results_run_position ON scenario_results(run_id, position);
	`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}
	return Migrate(DB)
}

// Migrate applies Schema to db.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create run tables: %w", err)
	}
	return nil
}
