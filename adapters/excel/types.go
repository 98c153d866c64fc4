package excel

import (
	"fmt"
	"strings"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
)

// legendColumn is the header of the NOTES sheet column holding the legend
const legendColumn = "Notes"

// newSourceTable validates a data sheet header row: an index column, the
// five administrative columns, then one column per indicator.
func newSourceTable(sheet string, headerRow []string) (*ddf.SourceTable, error) {
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}

	if len(headers) < ddf.DiscreteColumns+1 {
		return nil, fmt.Errorf("%w: sheet %q header has %d columns, want at least %d",
			core.ErrMissingColumn, sheet, len(headers), ddf.DiscreteColumns+1)
	}

	table := &ddf.SourceTable{Sheet: sheet, IndexHeader: headers[0]}
	for i := 0; i < ddf.DiscreteColumns; i++ {
		header := headers[i+1]
		id, err := ddf.ToConceptID(header)
		if err != nil || id != ddf.DiscreteConceptIDs[i] {
			return nil, fmt.Errorf("%w: sheet %q column %d is %q, want %s",
				core.ErrMissingColumn, sheet, i+2, header, ddf.DiscreteConceptIDs[i])
		}
		table.Discrete[i] = header
	}

	for i, header := range headers[ddf.DiscreteColumns+1:] {
		if header == "" {
			return nil, fmt.Errorf("%w: sheet %q column %d has no header",
				core.ErrMissingColumn, sheet, ddf.DiscreteColumns+2+i)
		}
		table.Indicators = append(table.Indicators, header)
	}
	return table, nil
}

// buildRow converts one padded sheet row; excelRow is the 1-based sheet row
func buildRow(table *ddf.SourceTable, cells []string, excelRow int) (ddf.SourceRow, error) {
	row := ddf.SourceRow{
		Index:         strings.TrimSpace(cells[0]),
		Variant:       strings.TrimSpace(cells[1+ddf.ColVariant]),
		Area:          strings.TrimSpace(cells[1+ddf.ColArea]),
		Notes:         strings.TrimSpace(cells[1+ddf.ColNotes]),
		CountryCode:   strings.TrimSpace(cells[1+ddf.ColCountryCode]),
		ReferenceDate: strings.TrimSpace(cells[1+ddf.ColReferenceDate]),
		Values:        make([]ddf.Measure, len(table.Indicators)),
	}

	offset := ddf.DiscreteColumns + 1
	for i, header := range table.Indicators {
		m, ok := ddf.NewMeasure(cells[offset+i])
		if !ok {
			return ddf.SourceRow{}, fmt.Errorf("%w: sheet %q row %d column %q holds %q",
				core.ErrBadMeasure, table.Sheet, excelRow, header, cells[offset+i])
		}
		row.Values[i] = m
	}
	return row, nil
}

// padRow extends a row to width; excelize trims trailing empty cells
func padRow(cells []string, width int) []string {
	if len(cells) >= width {
		return cells[:width]
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
