// Package testkit builds synthetic WPP workbooks for tests. The workbooks
// follow the layout of the annual demographic indicators release: a
// preamble, a header row, an index column, five administrative columns and
// one column per indicator, plus a NOTES sheet with the footnote legend.
package testkit

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Workbook describes the content of a synthetic WPP workbook
type Workbook struct {
	SkipRows   int
	Discrete   []string
	Indicators []string
	Estimates  [][]interface{}
	Medium     [][]interface{}
	NotesTitle string
	Legend     []string
}

// DiscreteHeaders are the administrative headers of the real release
var DiscreteHeaders = []string{
	"Variant",
	"Major area, region, country or area *",
	"Notes",
	"Country code",
	"Reference date (1 January - 31 December)",
}

// Sheet names of the real release
const (
	EstimatesSheet = "ESTIMATES"
	MediumSheet    = "MEDIUM VARIANT"
	NotesSheet     = "NOTES"
)

// DefaultWorkbook returns a small but complete workbook: two countries, two
// indicators, one footnote per country.
func DefaultWorkbook() Workbook {
	return Workbook{
		SkipRows: 16,
		Discrete: DiscreteHeaders,
		Indicators: []string{
			"Life Expectancy at Birth (years)",
			"Total population (thousands)",
		},
		Estimates: [][]interface{}{
			{1, "Estimates", "WORLD", "", 900, 1950, 46.91, 2525149.312},
			{2, "Estimates", "WORLD", "", 900, 1951, 47.25, 2571867.515},
			{3, "Estimates", "United Republic of Tanzania", "a", 834, 1950, 40.5, 7649.697},
			{4, "Estimates", "Mauritius", "b", 480, 1950, 50.9, ""},
		},
		Medium: [][]interface{}{
			{5, "Medium variant", "WORLD", "", 900, 2015, 70.78, 7349472.099},
			{6, "Medium variant", "United Republic of Tanzania", "a", 834, 2015, 64.9, 53470.42},
			{7, "Medium variant", "Mauritius", "b", 480, 2015, 74.4, 1273.212},
		},
		NotesTitle: "Notes",
		Legend: []string{
			"(a) Including Zanzibar.",
			"(b) Including Agalega, Rodrigues and Saint Brandon.",
		},
	}
}

// Write saves the workbook as wpp.xlsx in dir and returns its path
func (w Workbook) Write(dir string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", EstimatesSheet); err != nil {
		return "", fmt.Errorf("rename first sheet: %w", err)
	}
	if _, err := f.NewSheet(MediumSheet); err != nil {
		return "", fmt.Errorf("create %s: %w", MediumSheet, err)
	}
	if _, err := f.NewSheet(NotesSheet); err != nil {
		return "", fmt.Errorf("create %s: %w", NotesSheet, err)
	}

	for _, sheet := range []struct {
		name string
		rows [][]interface{}
	}{
		{EstimatesSheet, w.Estimates},
		{MediumSheet, w.Medium},
	} {
		if err := w.writeDataSheet(f, sheet.name, sheet.rows); err != nil {
			return "", err
		}
	}

	if err := setRow(f, NotesSheet, 1, []interface{}{w.NotesTitle}); err != nil {
		return "", err
	}
	for i, line := range w.Legend {
		if err := setRow(f, NotesSheet, i+2, []interface{}{line}); err != nil {
			return "", err
		}
	}

	path := filepath.Join(dir, "wpp.xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func (w Workbook) writeDataSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	preamble := []string{
		"United Nations",
		"Population Division",
		"Department of Economic and Social Affairs",
		"World Population Prospects: The 2015 Revision",
	}
	for i := 0; i < w.SkipRows && i < len(preamble); i++ {
		if err := setRow(f, sheet, i+1, []interface{}{preamble[i]}); err != nil {
			return err
		}
	}

	header := []interface{}{"Index"}
	for _, h := range w.Discrete {
		header = append(header, h)
	}
	for _, h := range w.Indicators {
		header = append(header, h)
	}
	if err := setRow(f, sheet, w.SkipRows+1, header); err != nil {
		return err
	}

	for i, row := range rows {
		if err := setRow(f, sheet, w.SkipRows+2+i, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
