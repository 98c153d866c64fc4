package ports

import (
	"context"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
	"wppddf/domain/run"
)

// SourceReader loads the sheets of one WPP workbook
type SourceReader interface {
	// ReadDataSheet reads a data sheet whose header sits after skipRows lines
	ReadDataSheet(ctx context.Context, sheet string, skipRows int) (*ddf.SourceTable, error)
	// ReadLegend reads the footnote legend lines of the notes sheet
	ReadLegend(ctx context.Context, sheet string) ([]ddf.LegendLine, error)
	Close() error
}

// TableWriter persists one DDF table as a file in the output directory
type TableWriter interface {
	WriteTable(ctx context.Context, table *ddf.Table) error
}

// IndexGenerator rebuilds the index over a completed output directory
type IndexGenerator interface {
	Generate(ctx context.Context, indexFile string) (*ddf.Table, error)
}

// CatalogRun is the stored summary of a past conversion run
type CatalogRun struct {
	RunID       string `db:"run_id"`
	SourcePath  string `db:"source_path"`
	SourceHash  string `db:"source_hash"`
	OutputDir   string `db:"output_dir"`
	Fingerprint string `db:"fingerprint"`
	TotalRows   int    `db:"total_rows"`
	StartedAt   string `db:"started_at"`
	FinishedAt  string `db:"finished_at"`
}

// RunCatalog records finished runs
type RunCatalog interface {
	Record(ctx context.Context, m *run.Manifest) error
	// LastRun returns nil when the source was never converted
	LastRun(ctx context.Context, sourceHash core.Hash) (*CatalogRun, error)
}
