// Package catalog records conversion runs in a SQL database so that
// operators can tell which workbook produced which output.
package catalog

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"
	"time"

	"wppddf/domain/core"
	"wppddf/domain/run"
	"wppddf/internal"
	"wppddf/internal/errors"
	"wppddf/internal/migration"
	"wppddf/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

var _ ports.RunCatalog = (*Catalog)(nil)

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// timestamps are stored as fixed-width UTC strings so they sort lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type fileRecord struct {
	RunID    string `db:"run_id"`
	Name     string `db:"name"`
	Kind     string `db:"kind"`
	RowCount int    `db:"row_count"`
	Columns  string `db:"columns"`
}

type indicatorRecord struct {
	RunID     string  `db:"run_id"`
	ConceptID string  `db:"concept_id"`
	RowCount  int     `db:"row_count"`
	Present   int     `db:"present"`
	Missing   int     `db:"missing"`
	Min       float64 `db:"min_value"`
	Max       float64 `db:"max_value"`
	Mean      float64 `db:"mean_value"`
	Median    float64 `db:"median_value"`
	StdDev    float64 `db:"std_dev"`
	Q25       float64 `db:"q25"`
	Q75       float64 `db:"q75"`
	Outliers  int     `db:"outliers"`
}

// Catalog stores run manifests
type Catalog struct {
	db     *sqlx.DB
	logger *internal.Logger
}

// Open connects to the catalog database and migrates its schema
func Open(ctx context.Context, driver, dsn string, logger *internal.Logger) (*Catalog, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, errors.ConfigInvalid("unsupported catalog driver: " + driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.CatalogError("failed to open catalog", err)
	}
	if driver == DriverSQLite {
		// an in-memory database lives as long as its single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.CatalogError("failed to connect to catalog", err)
	}

	return New(ctx, db, logger)
}

// New wraps an open database and migrates its schema
func New(ctx context.Context, db *sqlx.DB, logger *internal.Logger) (*Catalog, error) {
	if logger == nil {
		logger = internal.NewDefaultLogger().WithComponent("Catalog")
	}
	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		return nil, errors.CatalogError("failed to migrate catalog schema", err)
	}
	logger.Debug("catalog schema at version %s", runner.Version())

	return &Catalog{db: db, logger: logger}, nil
}

// Close closes the database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores a finished run in one transaction
func (c *Catalog) Record(ctx context.Context, m *run.Manifest) error {
	if err := m.Validate(); err != nil {
		return errors.CatalogError("refusing to record run", err)
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.CatalogError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	rec := ports.CatalogRun{
		RunID:       m.RunID.String(),
		SourcePath:  m.SourcePath,
		SourceHash:  m.SourceHash.String(),
		OutputDir:   m.OutputDir,
		Fingerprint: m.Fingerprint().String(),
		TotalRows:   m.TotalRows(),
		StartedAt:   formatTime(m.StartedAt),
		FinishedAt:  formatTime(m.FinishedAt),
	}
	if _, err := tx.NamedExecContext(ctx, `
		INSERT INTO ddf_runs (
			run_id, source_path, source_hash, output_dir,
			fingerprint, total_rows, started_at, finished_at
		) VALUES (
			:run_id, :source_path, :source_hash, :output_dir,
			:fingerprint, :total_rows, :started_at, :finished_at
		)
	`, rec); err != nil {
		return errors.CatalogError("failed to insert run", err)
	}

	for _, f := range m.Files {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO ddf_files (run_id, name, kind, row_count, columns)
			VALUES (:run_id, :name, :kind, :row_count, :columns)
		`, fileRecord{
			RunID:    rec.RunID,
			Name:     f.Name,
			Kind:     string(f.Kind),
			RowCount: f.Rows,
			Columns:  strings.Join(f.Columns, ","),
		}); err != nil {
			return errors.CatalogError("failed to insert file "+f.Name, err)
		}
	}

	for _, s := range m.Indicators {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO ddf_indicators (
				run_id, concept_id, row_count, present, missing,
				min_value, max_value, mean_value, median_value,
				std_dev, q25, q75, outliers
			) VALUES (
				:run_id, :concept_id, :row_count, :present, :missing,
				:min_value, :max_value, :mean_value, :median_value,
				:std_dev, :q25, :q75, :outliers
			)
		`, indicatorRecord{
			RunID:     rec.RunID,
			ConceptID: s.ConceptID,
			RowCount:  s.Rows,
			Present:   s.Present,
			Missing:   s.Missing,
			Min:       s.Min,
			Max:       s.Max,
			Mean:      s.Mean,
			Median:    s.Median,
			StdDev:    s.StdDev,
			Q25:       s.Q25,
			Q75:       s.Q75,
			Outliers:  s.Outliers,
		}); err != nil {
			return errors.CatalogError("failed to insert indicator "+s.ConceptID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.CatalogError("failed to commit run", err)
	}
	c.logger.Info("recorded run %s (%d files)", rec.RunID, len(m.Files))
	return nil
}

// LastRun returns the most recent run over a source, or nil when the source
// was never converted.
func (c *Catalog) LastRun(ctx context.Context, sourceHash core.Hash) (*ports.CatalogRun, error) {
	var rec ports.CatalogRun
	err := c.db.GetContext(ctx, &rec, c.db.Rebind(`
		SELECT run_id, source_path, source_hash, output_dir,
		       fingerprint, total_rows, started_at, finished_at
		FROM ddf_runs
		WHERE source_hash = ?
		ORDER BY finished_at DESC
		LIMIT 1
	`), sourceHash.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.CatalogError("failed to query last run", err)
	}
	return &rec, nil
}

// FileCount returns the number of files recorded for a run
func (c *Catalog) FileCount(ctx context.Context, runID core.RunID) (int, error) {
	var n int
	err := c.db.GetContext(ctx, &n, c.db.Rebind(`SELECT COUNT(*) FROM ddf_files WHERE run_id = ?`), runID.String())
	if err != nil {
		return 0, errors.CatalogError("failed to count run files", err)
	}
	return n, nil
}

func formatTime(t core.Timestamp) string {
	return t.Time().UTC().Format(timeLayout)
}

// ParseTime parses a timestamp stored by the catalog
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
