package migration

import (
	"context"

	"wppddf/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for catalog schema migrations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the run catalog schema. Statements stay within the
// SQL subset shared by SQLite and PostgreSQL.
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all catalog migrations in order. Every step is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ddf_runs table")
	}

	if err := r.createFilesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ddf_files table")
	}

	if err := r.createIndicatorsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ddf_indicators table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ddf_runs (
			run_id VARCHAR(64) PRIMARY KEY,
			source_path TEXT NOT NULL,
			source_hash VARCHAR(64) NOT NULL,
			output_dir TEXT NOT NULL,
			fingerprint VARCHAR(64) NOT NULL,
			total_rows INTEGER NOT NULL DEFAULT 0,
			started_at VARCHAR(40) NOT NULL,
			finished_at VARCHAR(40) NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) createFilesTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ddf_files (
			run_id VARCHAR(64) NOT NULL REFERENCES ddf_runs(run_id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			kind VARCHAR(32) NOT NULL,
			row_count INTEGER NOT NULL,
			columns TEXT NOT NULL,
			PRIMARY KEY (run_id, name)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndicatorsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ddf_indicators (
			run_id VARCHAR(64) NOT NULL REFERENCES ddf_runs(run_id) ON DELETE CASCADE,
			concept_id TEXT NOT NULL,
			row_count INTEGER NOT NULL,
			present INTEGER NOT NULL,
			missing INTEGER NOT NULL,
			min_value DOUBLE PRECISION NOT NULL,
			max_value DOUBLE PRECISION NOT NULL,
			mean_value DOUBLE PRECISION NOT NULL,
			median_value DOUBLE PRECISION NOT NULL,
			std_dev DOUBLE PRECISION NOT NULL,
			q25 DOUBLE PRECISION NOT NULL,
			q75 DOUBLE PRECISION NOT NULL,
			outliers INTEGER NOT NULL,
			PRIMARY KEY (run_id, concept_id)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_ddf_runs_source_hash ON ddf_runs(source_hash)`,
		`CREATE INDEX IF NOT EXISTS idx_ddf_runs_finished_at ON ddf_runs(finished_at)`,
	}

	for _, idx := range indexes {
		if _, err := db.ExecContext(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}
