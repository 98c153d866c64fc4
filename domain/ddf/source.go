package ddf

import (
	"fmt"

	"wppddf/domain/core"
)

// Positions of the administrative columns that follow the row index
const (
	ColVariant = iota
	ColArea
	ColNotes
	ColCountryCode
	ColReferenceDate
	DiscreteColumns
)

// DiscreteConceptIDs are the identifiers the five administrative headers
// must normalize to, in column order.
var DiscreteConceptIDs = [DiscreteColumns]string{
	"variant",
	"major_area_region_country_or_area",
	"notes",
	"country_code",
	"reference_date_1_january_31_december",
}

// DiscreteConceptTypes are assigned positionally to the administrative columns
var DiscreteConceptTypes = [DiscreteColumns]ConceptType{
	ConceptString,
	ConceptString,
	ConceptString,
	ConceptEntityDomain,
	ConceptTime,
}

// SourceRow is one data row of an ESTIMATES or MEDIUM VARIANT sheet.
// Values is aligned with SourceTable.Indicators.
type SourceRow struct {
	Index         string
	Variant       string
	Area          string
	Notes         string
	CountryCode   string
	ReferenceDate string
	Values        []Measure
}

// SourceTable is a loaded data sheet. Headers keep their original spelling.
type SourceTable struct {
	Sheet       string
	IndexHeader string
	Discrete    [DiscreteColumns]string
	Indicators  []string
	Rows        []SourceRow
}

// SameLayout reports whether two sheets share an identical header row
func (t *SourceTable) SameLayout(other *SourceTable) bool {
	if t.IndexHeader != other.IndexHeader || t.Discrete != other.Discrete {
		return false
	}
	if len(t.Indicators) != len(other.Indicators) {
		return false
	}
	for i := range t.Indicators {
		if t.Indicators[i] != other.Indicators[i] {
			return false
		}
	}
	return true
}

// Concat unions the rows of sheets sharing one layout, keeping sheet order
func Concat(tables ...*SourceTable) (*SourceTable, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("no sheets to combine")
	}
	first := tables[0]
	combined := &SourceTable{
		Sheet:       first.Sheet,
		IndexHeader: first.IndexHeader,
		Discrete:    first.Discrete,
		Indicators:  append([]string(nil), first.Indicators...),
	}
	total := 0
	for _, t := range tables {
		total += len(t.Rows)
	}
	combined.Rows = make([]SourceRow, 0, total)

	for i, t := range tables {
		if !first.SameLayout(t) {
			return nil, fmt.Errorf("%w: %q and %q", core.ErrHeaderMismatch, first.Sheet, t.Sheet)
		}
		if i > 0 {
			combined.Sheet += "+" + t.Sheet
		}
		combined.Rows = append(combined.Rows, t.Rows...)
	}
	return combined, nil
}
