// Package summary computes descriptive statistics of indicator tables, used
// to sanity-check a conversion run before the output is published.
package summary

import (
	"sort"

	"wppddf/domain/ddf"
	"wppddf/domain/run"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes the statistics of one indicator. The numeric fields
// stay zero when no value is present.
func Summarize(table ddf.IndicatorTable) (run.IndicatorSummary, error) {
	s := run.IndicatorSummary{ConceptID: table.ConceptID, Rows: len(table.Rows)}

	values := make(stats.Float64Data, 0, len(table.Rows))
	for _, dp := range table.Rows {
		if v, ok := dp.Value.Float(); ok {
			values = append(values, v)
		}
	}
	s.Present = len(values)
	s.Missing = s.Rows - s.Present
	if s.Present == 0 {
		return s, nil
	}

	var err error
	if s.Min, err = values.Min(); err != nil {
		return s, err
	}
	if s.Max, err = values.Max(); err != nil {
		return s, err
	}
	if s.Mean, err = values.Mean(); err != nil {
		return s, err
	}
	if s.Median, err = values.Median(); err != nil {
		return s, err
	}
	if s.StdDev, err = values.StandardDeviation(); err != nil {
		return s, err
	}

	// stat.Quantile needs sorted input
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	s.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	s.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	s.Outliers = countOutliers(sorted, s.Q25, s.Q75)

	return s, nil
}

// countOutliers counts values outside the 1.5 IQR fences
func countOutliers(data []float64, q25, q75 float64) int {
	iqr := q75 - q25
	lower := q25 - 1.5*iqr
	upper := q75 + 1.5*iqr

	n := 0
	for _, x := range data {
		if x < lower || x > upper {
			n++
		}
	}
	return n
}

// SummarizeAll summarizes every table, in order
func SummarizeAll(tables []ddf.IndicatorTable) ([]run.IndicatorSummary, error) {
	out := make([]run.IndicatorSummary, 0, len(tables))
	for _, t := range tables {
		s, err := Summarize(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
