// Package extract derives the DDF tables from loaded WPP sheets. Every
// function is pure: it reads a SourceTable and returns new rows, and any
// input that does not fit the expected layout is reported as an error
// rather than skipped.
package extract

import (
	"fmt"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
)

// DiscreteConcepts returns one concept per administrative column, typed
// positionally: string, string, string, entity domain, time.
func DiscreteConcepts(src *ddf.SourceTable) ([]ddf.Concept, error) {
	concepts := make([]ddf.Concept, 0, ddf.DiscreteColumns)
	for i, header := range src.Discrete {
		id, err := ddf.ToConceptID(header)
		if err != nil {
			return nil, fmt.Errorf("discrete column %d of %s: %w", i+1, src.Sheet, err)
		}
		concepts = append(concepts, ddf.Concept{
			ID:   id,
			Name: header,
			Type: ddf.DiscreteConceptTypes[i],
		})
	}
	return concepts, nil
}

// ContinuousConcepts returns one measure concept per indicator column, with
// name and unit split out of the "Name (Unit)" header.
func ContinuousConcepts(src *ddf.SourceTable) ([]ddf.Concept, error) {
	concepts := make([]ddf.Concept, 0, len(src.Indicators))
	seen := make(map[string]string, len(src.Indicators))
	for _, header := range src.Indicators {
		c, err := measureConcept(header)
		if err != nil {
			return nil, fmt.Errorf("indicator column of %s: %w", src.Sheet, err)
		}
		if prev, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("%w: %q from %q and %q", core.ErrDuplicateConcept, c.ID, prev, header)
		}
		seen[c.ID] = header
		concepts = append(concepts, c)
	}
	return concepts, nil
}

func measureConcept(header string) (ddf.Concept, error) {
	name, unit, err := ddf.ParseHeader(header)
	if err != nil {
		return ddf.Concept{}, err
	}
	id, err := ddf.ToConceptID(name)
	if err != nil {
		return ddf.Concept{}, fmt.Errorf("header %q: %w", header, err)
	}
	return ddf.Concept{ID: id, Name: name, Type: ddf.ConceptMeasure, Unit: unit}, nil
}

// CheckUniqueConcepts fails when any concept id appears twice across sets
func CheckUniqueConcepts(sets ...[]ddf.Concept) error {
	seen := make(map[string]string)
	for _, set := range sets {
		for _, c := range set {
			if prev, dup := seen[c.ID]; dup {
				return fmt.Errorf("%w: %q from %q and %q", core.ErrDuplicateConcept, c.ID, prev, c.Name)
			}
			seen[c.ID] = c.Name
		}
	}
	return nil
}
