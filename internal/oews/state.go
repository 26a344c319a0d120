package oews

import "regexp"

// stateSuffix matches the trailing state list of a standard BLS area title,
// e.g. "New York-Newark-Jersey City, NY-NJ-PA". The first code wins.
var stateSuffix = regexp.MustCompile(`,\s*([A-Z]{2})(?:-[A-Z]{2})*$`)

// ExtractState pulls the primary two-letter state abbreviation out of an
// area title. Titles without the trailing pattern yield nil, not an error;
// some BLS areas are genuinely non-standard.
func ExtractState(areaTitle string) *string {
	m := stateSuffix.FindStringSubmatch(areaTitle)
	if m == nil {
		return nil
	}
	state := m[1]
	return &state
}
