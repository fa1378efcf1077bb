package group

import (
	"strings"
	"unicode"
)

// OutputName returns Sanitize(namespace) + "." + Sanitize(sourceName) + suffix.
func OutputName(namespace, sourceName, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}

	return Sanitize(namespace) + "." + Sanitize(sourceName) + suffix
}

// Sanitize keeps letters, digits and '.', replacing every other rune with '_'.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			return r
		}

		return '_'
	}, s)
}
