package ddf

import (
	"fmt"
	"strings"
)

// Kind tells which DDF collection a file belongs to
type Kind string

const (
	KindConcepts   Kind = "concepts"
	KindEntities   Kind = "entities"
	KindDatapoints Kind = "datapoints"
	KindNotes      Kind = "notes"
	KindIndex      Kind = "index"
)

// File names of the fixed outputs
const (
	DiscreteConceptsFile   = "ddf--concepts--discrete.csv"
	ContinuousConceptsFile = "ddf--concepts--continuous.csv"
	CountryEntitiesFile    = "ddf--entities--country_code.csv"
	NotesFile              = "ddf--notes.csv"
)

// DatapointsFile names the datapoint file of one indicator
func DatapointsFile(indicator string) string {
	return "ddf--datapoints--" + indicator + "--by--country_code--year.csv"
}

// Table is a header plus string rows, ready to be written as a delimited file
type Table struct {
	Name    string
	Kind    Kind
	Columns []string
	Rows    [][]string
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// Validate checks every row has exactly one cell per column
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("table %s row %d has %d cells, want %d", t.Name, i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

// DiscreteConceptTable builds ddf--concepts--discrete.csv
func DiscreteConceptTable(concepts []Concept) *Table {
	t := &Table{
		Name:    DiscreteConceptsFile,
		Kind:    KindConcepts,
		Columns: []string{"concept", "name", "concept_type"},
		Rows:    make([][]string, 0, len(concepts)),
	}
	for _, c := range concepts {
		t.Rows = append(t.Rows, []string{c.ID, c.Name, string(c.Type)})
	}
	return t
}

// ContinuousConceptTable builds ddf--concepts--continuous.csv
func ContinuousConceptTable(concepts []Concept) *Table {
	t := &Table{
		Name:    ContinuousConceptsFile,
		Kind:    KindConcepts,
		Columns: []string{"concept", "name", "concept_type", "unit"},
		Rows:    make([][]string, 0, len(concepts)),
	}
	for _, c := range concepts {
		t.Rows = append(t.Rows, []string{c.ID, c.Name, string(c.Type), c.Unit})
	}
	return t
}

// CountryTable builds ddf--entities--country_code.csv. nameColumn is the
// normalized area header.
func CountryTable(nameColumn string, countries []Country) *Table {
	t := &Table{
		Name:    CountryEntitiesFile,
		Kind:    KindEntities,
		Columns: []string{"country_code", nameColumn},
		Rows:    make([][]string, 0, len(countries)),
	}
	for _, c := range countries {
		t.Rows = append(t.Rows, []string{c.Code, c.Name})
	}
	return t
}

// Table builds the datapoint file of the indicator
func (it *IndicatorTable) Table() *Table {
	t := &Table{
		Name:    DatapointsFile(it.ConceptID),
		Kind:    KindDatapoints,
		Columns: []string{"country_code", it.DateColumn, it.ConceptID, "variant"},
		Rows:    make([][]string, 0, len(it.Rows)),
	}
	for _, dp := range it.Rows {
		t.Rows = append(t.Rows, []string{dp.CountryCode, dp.ReferenceDate, dp.Value.Raw, dp.Variant})
	}
	return t
}

// NoteTable builds ddf--notes.csv
func NoteTable(notes []Note) *Table {
	t := &Table{
		Name:    NotesFile,
		Kind:    KindNotes,
		Columns: []string{"country_code", "variant", "notes"},
		Rows:    make([][]string, 0, len(notes)),
	}
	for _, n := range notes {
		t.Rows = append(t.Rows, []string{n.CountryCode, n.Variant, n.Text})
	}
	return t
}

// ParseFileName classifies a ddf file name. For datapoint files it also
// returns the indicator id, for entity files the entity domain.
func ParseFileName(name string) (kind Kind, subject string, ok bool) {
	base := strings.TrimSuffix(name, ".csv")
	if base == name || !strings.HasPrefix(base, "ddf--") {
		return "", "", false
	}
	parts := strings.Split(strings.TrimPrefix(base, "ddf--"), "--")
	switch Kind(parts[0]) {
	case KindConcepts:
		return KindConcepts, "", true
	case KindEntities:
		if len(parts) < 2 {
			return "", "", false
		}
		return KindEntities, parts[1], true
	case KindDatapoints:
		if len(parts) < 4 || parts[2] != "by" {
			return "", "", false
		}
		return KindDatapoints, parts[1], true
	default:
		return Kind(parts[0]), "", true
	}
}
