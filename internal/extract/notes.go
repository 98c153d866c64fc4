package extract

import (
	"fmt"
	"regexp"
	"strings"

	"wppddf/domain/core"
	"wppddf/domain/ddf"
)

// "(a) Including Zanzibar." -> code "a", text "Including Zanzibar."
var legendLine = regexp.MustCompile(`^\(([^)]{1,2})\) +(.*)`)

// ParseLegendLine splits one legend line into its code and text
func ParseLegendLine(line string) (code, text string, err error) {
	m := legendLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", fmt.Errorf("%w: %q", core.ErrBadLegendLine, line)
	}
	return m[1], strings.TrimSpace(m[2]), nil
}

// ParseLegend builds the code -> text mapping from the NOTES sheet.
// Blank lines are skipped; any other line must parse.
func ParseLegend(lines []ddf.LegendLine) (ddf.Legend, error) {
	legend := make(ddf.Legend, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		code, text, err := ParseLegendLine(line.Text)
		if err != nil {
			return nil, fmt.Errorf("legend row %d: %w", line.Row, err)
		}
		if prev, dup := legend[code]; dup && prev != text {
			return nil, fmt.Errorf("%w: (%s) is %q and %q", core.ErrConflictingLegend, code, prev, text)
		}
		legend[code] = text
	}
	return legend, nil
}

// Notes resolves the footnote codes of the sheet against the legend. Rows
// without a note are skipped and each resolved (country, variant, text) is
// kept once, in first-appearance order.
func Notes(src *ddf.SourceTable, legend ddf.Legend) ([]ddf.Note, error) {
	seen := make(map[ddf.Note]bool)
	var notes []ddf.Note

	for _, row := range src.Rows {
		code := strings.TrimSpace(row.Notes)
		if code == "" || row.CountryCode == "" || row.Variant == "" {
			continue
		}
		text, ok := legend[code]
		if !ok {
			return nil, fmt.Errorf("%w: code %q of country %s (%s)", core.ErrUnknownNoteCode, code, row.CountryCode, row.Variant)
		}
		note := ddf.Note{CountryCode: row.CountryCode, Variant: row.Variant, Text: text}
		if seen[note] {
			continue
		}
		seen[note] = true
		notes = append(notes, note)
	}
	return notes, nil
}
