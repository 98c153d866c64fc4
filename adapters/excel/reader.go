package excel

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
	"wppddf/internal"
	"wppddf/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.SourceReader = (*SheetReader)(nil)

// SheetReader reads the WPP indicator workbook
type SheetReader struct {
	filePath string
	file     *excelize.File
	logger   *internal.Logger
}

// Open opens the workbook at filePath. The caller must Close it.
func Open(filePath string, logger *internal.Logger) (*SheetReader, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.WithComponent("SheetReader")

	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("%w: workbook %s: %w", core.ErrIO, filePath, err)
	}

	startTime := time.Now()
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook %s: %w", core.ErrIO, filePath, err)
	}
	logger.Debug("workbook %s opened in %.2fms", filePath, float64(time.Since(startTime).Nanoseconds())/1e6)

	return &SheetReader{filePath: filePath, file: f, logger: logger}, nil
}

// Close releases the workbook
func (r *SheetReader) Close() error {
	return r.file.Close()
}

// Path returns the workbook location
func (r *SheetReader) Path() string {
	return r.filePath
}

// Sheets lists the sheet names of the workbook in tab order
func (r *SheetReader) Sheets() []string {
	return r.file.GetSheetList()
}

// rows returns the sheet with raw (unformatted) cell values
func (r *SheetReader) rows(sheet string) ([][]string, error) {
	readStart := time.Now()
	rows, err := r.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q of %s: %w", core.ErrIO, sheet, r.filePath, err)
	}
	r.logger.Debug("sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// ReadDataSheet loads an ESTIMATES or MEDIUM VARIANT sheet. The first
// skipRows rows are preamble, the next row is the header, and the first
// column is the row index.
func (r *SheetReader) ReadDataSheet(ctx context.Context, sheet string, skipRows int) (*ddf.SourceTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) <= skipRows {
		return nil, fmt.Errorf("%w: sheet %q has no header row after %d preamble rows", core.ErrMissingColumn, sheet, skipRows)
	}

	table, err := newSourceTable(sheet, rows[skipRows])
	if err != nil {
		return nil, err
	}

	width := ddf.DiscreteColumns + 1 + len(table.Indicators)
	for i, cells := range rows[skipRows+1:] {
		if isBlank(cells) {
			continue
		}
		excelRow := skipRows + 2 + i
		row, err := buildRow(table, padRow(cells, width), excelRow)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}

	r.logger.Info("sheet %q processed (%d indicators, %d rows)", sheet, len(table.Indicators), len(table.Rows))
	return table, nil
}

// ReadLegend loads the lines of the "Notes" column of the NOTES sheet.
// The first row is the header row.
func (r *SheetReader) ReadLegend(ctx context.Context, sheet string) ([]ddf.LegendLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.rows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", core.ErrMissingColumn, sheet)
	}

	col := -1
	for i, header := range rows[0] {
		if strings.TrimSpace(header) == legendColumn {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("%w: sheet %q has no %q column", core.ErrMissingColumn, sheet, legendColumn)
	}

	lines := make([]ddf.LegendLine, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		text := ""
		if col < len(cells) {
			text = cells[col]
		}
		lines = append(lines, ddf.LegendLine{Row: i + 2, Text: text})
	}

	r.logger.Info("sheet %q processed (%d legend lines)", sheet, len(lines))
	return lines, nil
}
