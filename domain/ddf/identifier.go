package ddf

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"wppddf/domain/core"
)

var (
	// ` -.` is a range: every character from space through '.' separates words.
	separatorRun = regexp.MustCompile(`[/ -.*";]+`)
	annotation   = regexp.MustCompile(`\[.*\]`)
)

// ToConceptID converts a human readable label into a lowercase
// alphanumeric-and-underscore identifier, e.g.
// "Major area, region, country or area *" -> "major_area_region_country_or_area".
// ToConceptID(ToConceptID(s)) == ToConceptID(s) for every s it accepts.
func ToConceptID(label string) (string, error) {
	s := strings.TrimSpace(label)
	if s == "" {
		return "", fmt.Errorf("%w: label %q", core.ErrEmptyIdentifier, label)
	}

	s = separatorRun.ReplaceAllString(s, "_")
	s = strings.NewReplacer("\r", "", "\n", "").Replace(s)
	s = annotation.ReplaceAllString(s, "")
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	s = strings.TrimRightFunc(s, func(r rune) bool { return r == '_' || unicode.IsSpace(r) })
	s = strings.ToLower(s)

	if s == "" {
		return "", fmt.Errorf("%w: label %q has no identifier characters", core.ErrEmptyIdentifier, label)
	}
	return s, nil
}
