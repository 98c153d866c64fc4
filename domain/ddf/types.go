package ddf

import (
	"math"
	"strconv"
	"strings"
)

// ConceptType is the DDF concept_type column
type ConceptType string

const (
	ConceptString       ConceptType = "string"
	ConceptEntityDomain ConceptType = "entity domain"
	ConceptTime         ConceptType = "time"
	ConceptMeasure      ConceptType = "measure"
)

// Concept is one row of a concepts file. Unit is only set for measures.
type Concept struct {
	ID   string
	Name string
	Type ConceptType
	Unit string
}

// Country is one row of the country_code entity file
type Country struct {
	Code string
	Name string
}

// Measure is a raw indicator cell. An empty Raw is a missing value.
type Measure struct {
	Raw string
}

// missingMarkers are the placeholders the WPP sheets use for "no value"
var missingMarkers = map[string]bool{
	"":    true,
	"…":   true,
	"...": true,
	"..":  true,
	"-":   true,
}

// NewMeasure normalizes a cell into a Measure, folding missing markers to
// empty and numbers to their shortest decimal form ("46.909999999999997"
// becomes "46.91"). ok is false when the cell is neither missing nor a number.
func NewMeasure(cell string) (Measure, bool) {
	s := strings.TrimSpace(cell)
	if missingMarkers[s] {
		return Measure{}, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Measure{}, false
	}
	return Measure{Raw: strconv.FormatFloat(v, 'f', -1, 64)}, true
}

// Missing reports whether the cell held no value
func (m Measure) Missing() bool {
	return m.Raw == ""
}

// Float returns the numeric value; ok is false for missing cells
func (m Measure) Float() (float64, bool) {
	if m.Missing() {
		return 0, false
	}
	v, err := strconv.ParseFloat(m.Raw, 64)
	return v, err == nil
}

// Datapoint is one observation of one indicator
type Datapoint struct {
	CountryCode   string
	ReferenceDate string
	Value         Measure
	Variant       string
}

// IndicatorTable holds every datapoint of one measure concept, in source order
type IndicatorTable struct {
	ConceptID  string
	DateColumn string
	Rows       []Datapoint
}

// Note is one resolved footnote of a country within a variant
type Note struct {
	CountryCode string
	Variant     string
	Text        string
}

// LegendLine is one raw line of the NOTES sheet. Row is 1-based.
type LegendLine struct {
	Row  int
	Text string
}

// Legend maps footnote codes to their explanation
type Legend map[string]string
