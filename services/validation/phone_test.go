package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhoneStrictUK(t *testing.T) {
	valid := []string{
		"+442012345678",
		"+44 20 1234 5678",
		"02012345678",
		"020 1234 5678",
		"07911123456",
	}
	for _, phone := range valid {
		assert.True(t, ValidPhone(phone, PhoneStrictUK), "expected valid: %q", phone)
	}

	invalid := []string{
		"",
		"12345",
		"+1 555 123 4567",
		"2012345678",
		"+4420",
		"not a number",
		"+44 20 1234 5678 ext 9",
		"02012345678 ",
		"+44  2012345678",
	}
	for _, phone := range invalid {
		assert.False(t, ValidPhone(phone, PhoneStrictUK), "expected invalid: %q", phone)
	}
}

func TestValidPhoneDigitsOnly(t *testing.T) {
	assert.True(t, ValidPhone("2012345678", PhoneDigitsOnly))
	assert.True(t, ValidPhone("12345", PhoneDigitsOnly))
	assert.False(t, ValidPhone("020 1234 5678", PhoneDigitsOnly))
	assert.False(t, ValidPhone("", PhoneDigitsOnly))
	assert.False(t, ValidPhone("+442012345678", PhoneDigitsOnly))
}

func TestValidPhoneUnknownPolicyUsesStrictUK(t *testing.T) {
	assert.True(t, ValidPhone("+442012345678", PhonePolicy("")))
	assert.False(t, ValidPhone("12345", PhonePolicy("")))
}

func TestValidPhoneDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.True(t, ValidPhone("+442012345678", PhoneStrictUK))
		assert.False(t, ValidPhone("bogus", PhoneStrictUK))
	}
}
