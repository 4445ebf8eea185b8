// Package transcript normalizes raw speech-to-text output before it is
// handed to a language model.
package transcript

import (
	"strings"
	"unicode"
)

// MaxLength is the maximum transcript length in runes.
const MaxLength = 4000

// Sanitize trims the text, collapses every run of two or more whitespace
// characters into a single space and truncates the result to MaxLength
// runes. Single whitespace characters are kept as they are. The function is
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	s := strings.TrimSpace(raw)

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	count := 0
	for i := 0; i < len(runes) && count < MaxLength; {
		r := runes[i]
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
			count++
			i++
			continue
		}

		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j-i >= 2 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
		count++
		i = j
	}

	// truncation may leave trailing whitespace behind
	return strings.TrimRightFunc(b.String(), unicode.IsSpace)
}

// IsEmpty reports whether nothing usable remains after sanitizing.
func IsEmpty(sanitized string) bool {
	return sanitized == ""
}
