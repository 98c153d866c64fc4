// Package index generates ddf--index.csv, the file that tells DDF readers
// which key and value columns each dataset file holds.
package index

import (
	"context"
	"fmt"
	"strings"

	"wppddf/adapters/csvfile"
	"wppddf/domain/core"
	"wppddf/domain/ddf"
	"wppddf/internal"
	"wppddf/internal/storage"
	"wppddf/ports"
)

var _ ports.IndexGenerator = (*Generator)(nil)

// Columns of the index file
var Columns = []string{"key", "value", "file"}

// Generator scans an output directory and writes its index
type Generator struct {
	storage storage.FileStorage
	writer  *csvfile.Writer
	logger  *internal.Logger
}

// NewGenerator creates an index generator over fileStorage
func NewGenerator(fileStorage storage.FileStorage, writer *csvfile.Writer, logger *internal.Logger) *Generator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Generator{storage: fileStorage, writer: writer, logger: logger.WithComponent("Index")}
}

// Build reads the header of every ddf--*.csv file except indexFile and
// returns the index table, files in name order.
func (g *Generator) Build(ctx context.Context, indexFile string) (*ddf.Table, error) {
	names, err := g.storage.List(ctx, "ddf--*.csv")
	if err != nil {
		return nil, err
	}

	table := &ddf.Table{Name: indexFile, Kind: ddf.KindIndex, Columns: Columns}
	for _, name := range names {
		if name == indexFile {
			continue
		}
		kind, subject, ok := ddf.ParseFileName(name)
		if !ok || kind == ddf.KindIndex {
			g.logger.Debug("skipping %s", name)
			continue
		}
		header, err := csvfile.ReadHeader(ctx, g.storage, name)
		if err != nil {
			return nil, err
		}
		rows, err := entries(name, kind, subject, header)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, rows...)
	}
	return table, nil
}

// Generate builds the index and writes it as indexFile
func (g *Generator) Generate(ctx context.Context, indexFile string) (*ddf.Table, error) {
	table, err := g.Build(ctx, indexFile)
	if err != nil {
		return nil, err
	}
	if err := g.writer.WriteTable(ctx, table); err != nil {
		return nil, err
	}
	g.logger.Info("%s written (%d entries)", indexFile, table.Len())
	return table, nil
}

// entries lists the (key, value, file) rows of one dataset file
func entries(name string, kind ddf.Kind, subject string, header []string) ([][]string, error) {
	var keys []string
	switch kind {
	case ddf.KindConcepts:
		keys = []string{"concept"}
	case ddf.KindEntities:
		keys = []string{subject}
	case ddf.KindDatapoints:
		if !contains(header, subject) {
			return nil, fmt.Errorf("%w: %s has no %q column", core.ErrMissingColumn, name, subject)
		}
		for _, col := range header {
			if col != subject {
				keys = append(keys, col)
			}
		}
	default:
		if len(header) > 0 {
			keys = header[:1]
		}
	}
	for _, k := range keys {
		if !contains(header, k) {
			return nil, fmt.Errorf("%w: %s has no key column %q", core.ErrMissingColumn, name, k)
		}
	}

	key := strings.Join(keys, ",")
	var rows [][]string
	for _, col := range header {
		if !contains(keys, col) {
			rows = append(rows, []string{key, col, name})
		}
	}
	return rows, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
