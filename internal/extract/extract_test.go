package extract

import (
	"testing"

	"wppddf/domain/core"
	"wppddf/domain/ddf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wppSheet(name string, indicators []string, rows ...ddf.SourceRow) *ddf.SourceTable {
	return &ddf.SourceTable{
		Sheet:       name,
		IndexHeader: "Index",
		Discrete: [ddf.DiscreteColumns]string{
			"Variant", "Major area, region, country or area *", "Notes", "Country code",
			"Reference date (1 January - 31 December)",
		},
		Indicators: indicators,
		Rows:       rows,
	}
}

func row(index, variant, area, notes, code, date string, values ...string) ddf.SourceRow {
	r := ddf.SourceRow{
		Index: index, Variant: variant, Area: area, Notes: notes,
		CountryCode: code, ReferenceDate: date,
	}
	for _, v := range values {
		m, _ := ddf.NewMeasure(v)
		r.Values = append(r.Values, m)
	}
	return r
}

var indicators = []string{
	"Life Expectancy at Birth (years)",
	"Total population (thousands)",
}

func TestDiscreteConcepts(t *testing.T) {
	concepts, err := DiscreteConcepts(wppSheet("ESTIMATES", indicators))
	require.NoError(t, err)
	require.Len(t, concepts, 5)

	assert.Equal(t, ddf.Concept{ID: "variant", Name: "Variant", Type: ddf.ConceptString}, concepts[0])
	assert.Equal(t, "major_area_region_country_or_area", concepts[1].ID)
	assert.Equal(t, "Major area, region, country or area *", concepts[1].Name)
	assert.Equal(t, ddf.ConceptString, concepts[2].Type)
	assert.Equal(t, ddf.Concept{ID: "country_code", Name: "Country code", Type: ddf.ConceptEntityDomain}, concepts[3])
	assert.Equal(t, "reference_date_1_january_31_december", concepts[4].ID)
	assert.Equal(t, ddf.ConceptTime, concepts[4].Type)
}

func TestContinuousConcepts(t *testing.T) {
	concepts, err := ContinuousConcepts(wppSheet("ESTIMATES", indicators))
	require.NoError(t, err)
	require.Len(t, concepts, 2)

	assert.Equal(t, ddf.Concept{
		ID:   "life_expectancy_at_birth",
		Name: "Life Expectancy at Birth",
		Type: ddf.ConceptMeasure,
		Unit: "years",
	}, concepts[0])
	assert.Equal(t, "total_population", concepts[1].ID)
	assert.Equal(t, "thousands", concepts[1].Unit)
}

func TestContinuousConceptsRejectsBadHeader(t *testing.T) {
	_, err := ContinuousConcepts(wppSheet("ESTIMATES", []string{"Total population"}))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrBadHeader)
	assert.Contains(t, err.Error(), "Total population")
}

func TestContinuousConceptsRejectsCollision(t *testing.T) {
	_, err := ContinuousConcepts(wppSheet("ESTIMATES", []string{
		"Total population (thousands)",
		"Total-population (millions)",
	}))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateConcept)
}

func TestConceptIDsUniqueAcrossSets(t *testing.T) {
	src := wppSheet("ESTIMATES", indicators)
	discrete, err := DiscreteConcepts(src)
	require.NoError(t, err)
	continuous, err := ContinuousConcepts(src)
	require.NoError(t, err)
	require.NoError(t, CheckUniqueConcepts(discrete, continuous))

	clash := wppSheet("ESTIMATES", []string{"Notes (text)"})
	continuous, err = ContinuousConcepts(clash)
	require.NoError(t, err)
	err = CheckUniqueConcepts(discrete, continuous)
	assert.ErrorIs(t, err, core.ErrDuplicateConcept)
}

func TestCountriesDeduplicated(t *testing.T) {
	src := wppSheet("MEDIUM VARIANT", indicators,
		row("1", "Medium variant", "WORLD", "", "900", "2015", "70.5", "7349472"),
		row("2", "Medium variant", "WORLD", "", "900", "2016", "70.8", "7432663"),
		row("3", "Medium variant", "United Republic of Tanzania", "a", "834", "2015", "64.9", "53470"),
	)

	countries, err := Countries(src)
	require.NoError(t, err)
	assert.Equal(t, []ddf.Country{
		{Code: "900", Name: "WORLD"},
		{Code: "834", Name: "United Republic of Tanzania"},
	}, countries)

	column, err := AreaColumn(src)
	require.NoError(t, err)
	table := ddf.CountryTable(column, countries)
	assert.Equal(t, []string{"country_code", "major_area_region_country_or_area"}, table.Columns)
}

func TestCountriesRejectsConflictingNames(t *testing.T) {
	src := wppSheet("MEDIUM VARIANT", indicators,
		row("1", "Medium variant", "WORLD", "", "900", "2015", "1", "2"),
		row("2", "Medium variant", "World", "", "900", "2016", "1", "2"),
	)
	_, err := Countries(src)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInconsistentEntity)
	assert.Contains(t, err.Error(), "900")
}

func TestDatapointsOneTablePerIndicator(t *testing.T) {
	est := wppSheet("ESTIMATES", indicators,
		row("1", "Estimates", "WORLD", "", "900", "1950", "46.9", "2525149"),
		row("2", "Estimates", "WORLD", "", "900", "1951", "", "2571868"),
	)
	mva := wppSheet("MEDIUM VARIANT", indicators,
		row("1", "Medium variant", "WORLD", "", "900", "2015", "70.5", "7349472"),
	)
	combined, err := ddf.Concat(est, mva)
	require.NoError(t, err)

	tables, err := Datapoints(combined)
	require.NoError(t, err)
	require.Len(t, tables, len(indicators))

	life := tables[0]
	assert.Equal(t, "life_expectancy_at_birth", life.ConceptID)
	assert.Equal(t, "reference_date_1_january_31_december", life.DateColumn)
	require.Len(t, life.Rows, len(combined.Rows), "no rows are dropped")
	assert.Equal(t, "46.9", life.Rows[0].Value.Raw)
	assert.True(t, life.Rows[1].Value.Missing())
	assert.Equal(t, "Medium variant", life.Rows[2].Variant)
	assert.Equal(t, "2015", life.Rows[2].ReferenceDate)

	pop := tables[1]
	assert.Equal(t, "total_population", pop.ConceptID)
	assert.Equal(t, "7349472", pop.Rows[2].Value.Raw)
}

func TestDatapointsRejectsRaggedRow(t *testing.T) {
	src := wppSheet("ESTIMATES", indicators, row("1", "Estimates", "WORLD", "", "900", "1950", "46.9"))
	_, err := Datapoints(src)
	require.Error(t, err)
}

func TestParseLegendLine(t *testing.T) {
	code, text, err := ParseLegendLine("(a) Including Zanzibar.")
	require.NoError(t, err)
	assert.Equal(t, "a", code)
	assert.Equal(t, "Including Zanzibar.", text)

	code, text, err = ParseLegendLine("(ab)   Including Agalega, Rodrigues and Saint Brandon.")
	require.NoError(t, err)
	assert.Equal(t, "ab", code)
	assert.Equal(t, "Including Agalega, Rodrigues and Saint Brandon.", text)

	for _, line := range []string{"Including Zanzibar.", "(abc) too long", "(a)no space", "() empty"} {
		_, _, err := ParseLegendLine(line)
		assert.ErrorIs(t, err, core.ErrBadLegendLine, line)
	}
}

func TestParseLegend(t *testing.T) {
	legend, err := ParseLegend([]ddf.LegendLine{
		{Row: 2, Text: "(a) foo"},
		{Row: 3, Text: ""},
		{Row: 4, Text: "(b) bar"},
		{Row: 5, Text: "(a) foo"},
	})
	require.NoError(t, err)
	assert.Equal(t, ddf.Legend{"a": "foo", "b": "bar"}, legend)

	_, err = ParseLegend([]ddf.LegendLine{{Row: 2, Text: "(a) foo"}, {Row: 3, Text: "(a) baz"}})
	assert.ErrorIs(t, err, core.ErrConflictingLegend)

	_, err = ParseLegend([]ddf.LegendLine{{Row: 7, Text: "Notes on sources"}})
	require.ErrorIs(t, err, core.ErrBadLegendLine)
	assert.Contains(t, err.Error(), "row 7")
}

func TestNotesResolution(t *testing.T) {
	legend := ddf.Legend{"a": "foo", "b": "bar"}

	src := wppSheet("ESTIMATES+MEDIUM VARIANT", indicators,
		row("1", "Estimates", "Tanzania", "a", "834", "1950", "1", "2"),
		row("2", "Estimates", "Tanzania", "a", "834", "1951", "1", "2"),
		row("3", "Medium variant", "Tanzania", "a", "834", "2015", "1", "2"),
		row("4", "Estimates", "Mauritius", "b", "480", "1950", "1", "2"),
		row("5", "Estimates", "WORLD", "", "900", "1950", "1", "2"),
	)

	notes, err := Notes(src, legend)
	require.NoError(t, err)
	assert.Equal(t, []ddf.Note{
		{CountryCode: "834", Variant: "Estimates", Text: "foo"},
		{CountryCode: "834", Variant: "Medium variant", Text: "foo"},
		{CountryCode: "480", Variant: "Estimates", Text: "bar"},
	}, notes)

	table := ddf.NoteTable(notes)
	assert.Equal(t, []string{"country_code", "variant", "notes"}, table.Columns)
}

func TestNotesUnknownCode(t *testing.T) {
	legend := ddf.Legend{"a": "foo", "b": "bar"}
	src := wppSheet("ESTIMATES", indicators,
		row("1", "Estimates", "Tanzania", "a", "834", "1950", "1", "2"),
		row("2", "Estimates", "Somewhere", "c", "999", "1950", "1", "2"),
	)

	_, err := Notes(src, legend)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownNoteCode)
	assert.True(t, core.IsLookupError(err))
	assert.Contains(t, err.Error(), `"c"`)
	assert.Contains(t, err.Error(), "999")
}
