package extract

import (
	"fmt"

	"wppddf/domain/ddf"
)

// Datapoints reshapes the wide sheet into one long table per indicator.
// Rows keep source order and are never dropped or merged, so an indicator
// table has exactly len(src.Rows) rows, missing values included.
func Datapoints(src *ddf.SourceTable) ([]ddf.IndicatorTable, error) {
	dateColumn, err := ddf.ToConceptID(src.Discrete[ddf.ColReferenceDate])
	if err != nil {
		return nil, fmt.Errorf("reference date column of %s: %w", src.Sheet, err)
	}

	tables := make([]ddf.IndicatorTable, len(src.Indicators))
	for i, header := range src.Indicators {
		c, err := measureConcept(header)
		if err != nil {
			return nil, fmt.Errorf("indicator column of %s: %w", src.Sheet, err)
		}
		tables[i] = ddf.IndicatorTable{
			ConceptID:  c.ID,
			DateColumn: dateColumn,
			Rows:       make([]ddf.Datapoint, 0, len(src.Rows)),
		}
	}

	for r, row := range src.Rows {
		if len(row.Values) != len(src.Indicators) {
			return nil, fmt.Errorf("%s row %d has %d values for %d indicators", src.Sheet, r+1, len(row.Values), len(src.Indicators))
		}
		for i := range tables {
			tables[i].Rows = append(tables[i].Rows, ddf.Datapoint{
				CountryCode:   row.CountryCode,
				ReferenceDate: row.ReferenceDate,
				Value:         row.Values[i],
				Variant:       row.Variant,
			})
		}
	}
	return tables, nil
}
