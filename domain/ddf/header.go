package ddf

import (
	"fmt"
	"regexp"
	"strings"

	"wppddf/domain/core"
)

// Greedy name: "A (b) (c)" splits into "A (b)" and "c".
var compoundHeader = regexp.MustCompile(`(?s)^(.*)\((.*)\)\s*$`)

// ParseHeader splits a continuous column label "Name (Unit)" into its name,
// trimmed, and its unit.
func ParseHeader(header string) (name, unit string, err error) {
	m := compoundHeader.FindStringSubmatch(header)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", core.ErrBadHeader, header)
	}
	name = strings.TrimSpace(m[1])
	unit = strings.TrimSpace(m[2])
	if name == "" || unit == "" {
		return "", "", fmt.Errorf("%w: %q has an empty name or unit", core.ErrBadHeader, header)
	}
	return name, unit, nil
}
