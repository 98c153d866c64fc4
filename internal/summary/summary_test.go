package summary

import (
	"testing"

	"wppddf/domain/ddf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indicator(values ...string) ddf.IndicatorTable {
	t := ddf.IndicatorTable{ConceptID: "life_expectancy_at_birth"}
	for _, v := range values {
		t.Rows = append(t.Rows, ddf.Datapoint{CountryCode: "900", Value: ddf.Measure{Raw: v}})
	}
	return t
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(indicator("46.91", "", "70.78", "64.9"))
	require.NoError(t, err)

	assert.Equal(t, "life_expectancy_at_birth", s.ConceptID)
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 3, s.Present)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 46.91, s.Min)
	assert.Equal(t, 70.78, s.Max)
	assert.InDelta(t, 60.863, s.Mean, 0.001)
	assert.Equal(t, 64.9, s.Median)
	assert.InDelta(t, 10.154, s.StdDev, 0.001)
	assert.Equal(t, 46.91, s.Q25)
	assert.Equal(t, 70.78, s.Q75)
	assert.Zero(t, s.Outliers)
}

func TestSummarizeOutliers(t *testing.T) {
	// a value entered in the wrong unit stands out
	s, err := Summarize(indicator("4", "1", "3", "2", "100"))
	require.NoError(t, err)
	assert.Equal(t, 2.0, s.Q25)
	assert.Equal(t, 4.0, s.Q75)
	assert.Equal(t, 1, s.Outliers)
}

func TestSummarizeAll(t *testing.T) {
	births := indicator("1", "2")
	births.ConceptID = "births"

	out, err := SummarizeAll([]ddf.IndicatorTable{indicator("46.91"), births})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "life_expectancy_at_birth", out[0].ConceptID)
	assert.Equal(t, "births", out[1].ConceptID)
	assert.Equal(t, 1.5, out[1].Mean)
}

func TestSummarizeAllMissing(t *testing.T) {
	s, err := Summarize(indicator("", ""))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Present)
	assert.Equal(t, 2, s.Missing)
	assert.Zero(t, s.Max)
}
