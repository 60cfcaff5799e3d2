// Package validation holds the pure input validators used by the booking
// flow: UK phone numbers, UK postcodes, and appointment date/time against
// configured business hours.
package validation

import "regexp"

// PhonePolicy selects which phone-number regime a deployment enforces.
type PhonePolicy string

const (
	// PhoneStrictUK requires a +44 or 0 prefix followed by 9-10 digits,
	// optionally space-separated.
	PhoneStrictUK PhonePolicy = "STRICT_UK"
	// PhoneDigitsOnly accepts any non-empty run of digits.
	PhoneDigitsOnly PhonePolicy = "DIGITS_ONLY"
)

var (
	strictUKPhonePattern   = regexp.MustCompile(`^(?:\+44|0)(?: ?[0-9]){9,10}$`)
	digitsOnlyPhonePattern = regexp.MustCompile(`^\d+$`)
)

// ValidPhone reports whether phone satisfies the given policy. Unknown
// policies fall back to the strict UK rule, the safer default.
func ValidPhone(phone string, policy PhonePolicy) bool {
	switch policy {
	case PhoneDigitsOnly:
		return digitsOnlyPhonePattern.MatchString(phone)
	default:
		return strictUKPhonePattern.MatchString(phone)
	}
}
