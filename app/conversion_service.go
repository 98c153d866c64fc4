package app

import (
	"context"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
	"wppddf/domain/run"
	"wppddf/internal"
	"wppddf/internal/config"
	"wppddf/internal/errors"
	"wppddf/internal/extract"
	"wppddf/internal/summary"
	"wppddf/ports"

	"golang.org/x/sync/errgroup"
)

// ConversionService turns one WPP workbook into a DDF dataset
type ConversionService struct {
	cfg     *config.Config
	reader  ports.SourceReader
	writer  ports.TableWriter
	indexer ports.IndexGenerator
	catalog ports.RunCatalog
	logger  *internal.Logger
}

// NewConversionService wires the driver. catalog may be nil.
func NewConversionService(
	cfg *config.Config,
	reader ports.SourceReader,
	writer ports.TableWriter,
	indexer ports.IndexGenerator,
	catalog ports.RunCatalog,
	logger *internal.Logger,
) *ConversionService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &ConversionService{
		cfg:     cfg,
		reader:  reader,
		writer:  writer,
		indexer: indexer,
		catalog: catalog,
		logger:  logger.WithComponent("Converter"),
	}
}

// ConversionResult describes a completed run
type ConversionResult struct {
	Manifest *run.Manifest
	Index    *ddf.Table
	// Unchanged is set when a cataloged earlier run produced the same output
	Unchanged bool
}

// Convert runs the whole pipeline. Any failure aborts the run; files
// already written by then stay in place but the index is not regenerated.
func (s *ConversionService) Convert(ctx context.Context) (*ConversionResult, error) {
	src := s.cfg.Source

	sourceHash, err := core.HashFile(src.Path)
	if err != nil {
		return nil, errors.IOError("failed to hash source "+src.Path, err)
	}
	manifest := run.NewManifest(src.Path, sourceHash, s.cfg.Output.Dir)
	s.logger.Info("run %s over %s (sha256 %s)", manifest.RunID, src.Path, sourceHash.Short())

	var previous *ports.CatalogRun
	if s.catalog != nil {
		if previous, err = s.catalog.LastRun(ctx, sourceHash); err != nil {
			return nil, err
		}
		if previous != nil {
			s.logger.Info("source already converted by run %s", previous.RunID)
		}
	}

	s.logger.Info("reading source files...")
	estimates, err := s.reader.ReadDataSheet(ctx, src.EstimatesSheet, src.SkipRows)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", src.EstimatesSheet)
	}
	medium, err := s.reader.ReadDataSheet(ctx, src.MediumSheet, src.SkipRows)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", src.MediumSheet)
	}
	legendLines, err := s.reader.ReadLegend(ctx, src.NotesSheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", src.NotesSheet)
	}

	tables, indicators, err := s.buildTables(estimates, medium, legendLines)
	if err != nil {
		return nil, err
	}

	summaries, err := summary.SummarizeAll(indicators)
	if err != nil {
		return nil, errors.Wrap(err, "failed to summarize indicators")
	}
	for _, sm := range summaries {
		s.logger.Debug("%s: %d rows, %d missing, min %g max %g mean %g median %g sd %g, %d outliers",
			sm.ConceptID, sm.Rows, sm.Missing, sm.Min, sm.Max, sm.Mean, sm.Median, sm.StdDev, sm.Outliers)
	}
	manifest.Indicators = summaries

	if err := s.writeTables(ctx, tables); err != nil {
		return nil, err
	}
	for _, t := range tables {
		manifest.AddFile(t)
	}

	s.logger.Info("generating index file...")
	index, err := s.indexer.Generate(ctx, s.cfg.Output.IndexFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate index")
	}
	s.logger.Debug("%s: %d entries", s.cfg.IndexPath(), index.Len())
	manifest.AddFile(index)
	manifest.Finish()

	result := &ConversionResult{Manifest: manifest, Index: index}
	if previous != nil && previous.Fingerprint == manifest.Fingerprint().String() {
		result.Unchanged = true
		s.logger.Info("output identical to run %s", previous.RunID)
	}

	if s.catalog != nil {
		if err := s.catalog.Record(ctx, manifest); err != nil {
			return nil, err
		}
	}

	s.logger.Info("done: %d files, %d rows in %s", len(manifest.Files), manifest.TotalRows(),
		manifest.FinishedAt.Sub(manifest.StartedAt))
	return result, nil
}

// buildTables derives every output table, in write order
func (s *ConversionService) buildTables(estimates, medium *ddf.SourceTable, legendLines []ddf.LegendLine) ([]*ddf.Table, []ddf.IndicatorTable, error) {
	var tables []*ddf.Table

	s.logger.Info("creating concepts ddf files...")
	// both data sheets share one layout, so the concepts come from estimates
	discrete, err := extract.DiscreteConcepts(estimates)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build discrete concepts")
	}
	continuous, err := extract.ContinuousConcepts(estimates)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build continuous concepts")
	}
	if err := extract.CheckUniqueConcepts(discrete, continuous); err != nil {
		return nil, nil, errors.Wrap(err, "concept ids collide")
	}
	tables = append(tables, ddf.DiscreteConceptTable(discrete), ddf.ContinuousConceptTable(continuous))

	s.logger.Info("creating entities ddf files...")
	countries, err := extract.Countries(medium)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to build country entities")
	}
	nameColumn, err := extract.AreaColumn(medium)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to name country entity column")
	}
	tables = append(tables, ddf.CountryTable(nameColumn, countries))

	combined, err := ddf.Concat(estimates, medium)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to combine data sheets")
	}

	s.logger.Info("creating data point ddf files...")
	indicators, err := extract.Datapoints(combined)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to reshape datapoints")
	}
	for i := range indicators {
		tables = append(tables, indicators[i].Table())
	}

	s.logger.Info("creating notes files...")
	legend, err := extract.ParseLegend(legendLines)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to parse notes legend")
	}
	notes, err := extract.Notes(combined, legend)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to resolve notes")
	}
	tables = append(tables, ddf.NoteTable(notes))

	return tables, indicators, nil
}

// writeTables writes every table with at most WriteWorkers files in flight
// and returns once all writes have finished.
func (s *ConversionService) writeTables(ctx context.Context, tables []*ddf.Table) error {
	workers := s.cfg.Output.WriteWorkers
	if workers < 1 {
		workers = 1
	}
	s.logger.Info("writing %d files to %s", len(tables), s.cfg.Output.Dir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, t := range tables {
		g.Go(func() error {
			if err := s.writer.WriteTable(gctx, t); err != nil {
				return errors.Wrapf(err, "failed to write %s", t.Name)
			}
			s.logger.Debug("%s: %d rows", t.Name, t.Len())
			return nil
		})
	}
	return g.Wait()
}

// RegenerateIndex rebuilds only the index of an existing output directory
func RegenerateIndex(ctx context.Context, indexer ports.IndexGenerator, indexFile string) (*ddf.Table, error) {
	index, err := indexer.Generate(ctx, indexFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate index")
	}
	return index, nil
}
