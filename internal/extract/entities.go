package extract

import (
	"fmt"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
)

// Countries returns the distinct (country code, area name) pairs of the
// sheet in first-appearance order. A code listed under two names is an error.
func Countries(src *ddf.SourceTable) ([]ddf.Country, error) {
	names := make(map[string]string)
	var countries []ddf.Country

	for i, row := range src.Rows {
		if row.CountryCode == "" {
			return nil, fmt.Errorf("%w: %s row %d (index %s) has no %q", core.ErrMissingColumn,
				src.Sheet, i+1, row.Index, src.Discrete[ddf.ColCountryCode])
		}
		name, seen := names[row.CountryCode]
		if !seen {
			names[row.CountryCode] = row.Area
			countries = append(countries, ddf.Country{Code: row.CountryCode, Name: row.Area})
			continue
		}
		if name != row.Area {
			return nil, fmt.Errorf("%w: country code %s is %q and %q", core.ErrInconsistentEntity,
				row.CountryCode, name, row.Area)
		}
	}
	return countries, nil
}

// AreaColumn is the entity file's name column: the normalized area header
func AreaColumn(src *ddf.SourceTable) (string, error) {
	return ddf.ToConceptID(src.Discrete[ddf.ColArea])
}
