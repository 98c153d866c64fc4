package container

import (
	"context"
	"fmt"

	"wppddf/adapters/csvfile"
	"wppddf/adapters/db/catalog"
	"wppddf/adapters/excel"
	"wppddf/app"
	"wppddf/internal"
	"wppddf/internal/config"
	"wppddf/internal/errors"
	"wppddf/internal/index"
	"wppddf/internal/storage"
	"wppddf/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Output side
	Storage storage.FileStorage
	Writer  *csvfile.Writer
	Indexer *index.Generator

	// Source side, set by InitSource
	Reader *excel.SheetReader

	// Optional, set by InitCatalog when configured
	Catalog *catalog.Catalog

	Converter *app.ConversionService
}

// New creates a container with the output side wired. outputDir overrides
// the configured output directory when not empty.
func New(cfg *config.Config, outputDir string) (*Container, error) {
	if cfg == nil {
		return nil, errors.InternalError("config cannot be nil")
	}
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
	}
	c.Storage = storage.NewLocalFileStorageWithPath(outputDir)
	c.Writer = csvfile.NewWriter(c.Storage, cfg.Output.Encoding)
	c.Indexer = index.NewGenerator(c.Storage, c.Writer, c.Logger)
	return c, nil
}

// InitSource opens the source workbook
func (c *Container) InitSource() error {
	reader, err := excel.Open(c.Config.Source.Path, c.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to open source workbook")
	}
	c.Reader = reader
	c.Logger.Debug("source %s has sheets %v", reader.Path(), reader.Sheets())
	return nil
}

// InitCatalog connects the run catalog when one is configured
func (c *Container) InitCatalog(ctx context.Context) error {
	if !c.Config.CatalogEnabled() {
		c.Logger.Debug("run catalog disabled")
		return nil
	}
	cat, err := catalog.Open(ctx, c.Config.Catalog.Driver, c.Config.Catalog.DSN, c.Logger)
	if err != nil {
		return err
	}
	c.Catalog = cat
	return nil
}

// InitConverter opens the source and the catalog and builds the driver
func (c *Container) InitConverter(ctx context.Context) error {
	if err := c.InitSource(); err != nil {
		return err
	}
	if err := c.InitCatalog(ctx); err != nil {
		return fmt.Errorf("failed to initialize catalog: %w", err)
	}

	// a nil *catalog.Catalog must not become a non-nil interface
	var runCatalog ports.RunCatalog
	if c.Catalog != nil {
		runCatalog = c.Catalog
	}
	c.Converter = app.NewConversionService(c.Config, c.Reader, c.Writer, c.Indexer, runCatalog, c.Logger)
	return nil
}

// Shutdown releases the workbook and the catalog connection
func (c *Container) Shutdown() error {
	var firstErr error
	if c.Reader != nil {
		if err := c.Reader.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Catalog != nil {
		if err := c.Catalog.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
