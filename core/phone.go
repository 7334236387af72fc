package core

import "strings"

// PhoneCheck is the outcome of normalizing a phone number.
type PhoneCheck struct {
	Normalized string
	Valid      bool
	Changed    bool
}

// NormalizePhone reduces a Brazilian phone number to its canonical comparison
// form: digits only, without the 55 country code or a leading trunk 0.
func NormalizePhone(raw string) string {
	d := DigitsOnly(raw)
	if (len(d) == 12 || len(d) == 13) && strings.HasPrefix(d, "55") {
		d = d[2:]
	}
	if (len(d) == 11 || len(d) == 12) && strings.HasPrefix(d, "0") {
		d = d[1:]
	}
	return d
}

// ValidatePhone normalizes `raw` and checks it is a plausible Brazilian number:
// a two-digit area code (neither digit 0) followed by an 8-digit landline or a
// 9-prefixed 9-digit mobile number.
func ValidatePhone(raw string) PhoneCheck {
	norm := NormalizePhone(raw)
	check := PhoneCheck{
		Normalized: norm,
		Changed:    norm != strings.TrimSpace(raw),
	}

	switch len(norm) {
	case 10:
		check.Valid = validDDD(norm)
	case 11:
		check.Valid = validDDD(norm) && norm[2] == '9'
	}
	return check
}

func validDDD(digits string) bool {
	return digits[0] != '0' && digits[1] != '0'
}
