package validation

import (
	"regexp"
	"strings"
)

var (
	postcodePattern       = regexp.MustCompile(`^[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}$`)
	postcodeSearchPattern = regexp.MustCompile(`[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2}`)
)

// ValidPostcode reports whether s is a well-formed UK postcode,
// case-insensitively.
func ValidPostcode(s string) bool {
	return postcodePattern.MatchString(strings.ToUpper(strings.TrimSpace(s)))
}

// ExtractPostcode finds the first UK postcode inside a free-text address.
func ExtractPostcode(address string) (string, bool) {
	match := postcodeSearchPattern.FindString(strings.ToUpper(address))
	return match, match != ""
}
