package core

import (
	"strings"
	"unicode"
)

// SanitizeText trims leading/trailing whitespace then truncates to maxLen runes.
// Truncation is an exact cut at the rune boundary; no ellipsis.
func SanitizeText(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// NormalizeSpaces collapses consecutive whitespace within `s` to single spaces.
func NormalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// DigitsOnly removes everything that is not a decimal digit.
func DigitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
