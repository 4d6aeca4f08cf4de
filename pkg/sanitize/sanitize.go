// Package sanitize makes stored task text safe to print on a terminal.
package sanitize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text returns a single-line rendition of s for display: invalid UTF-8 is dropped, tabs and
// line breaks become spaces and every other control character (ANSI escapes, NUL, BEL) is
// stripped. Stored text is never rewritten; only what reaches the screen is.
func Text(input string) string {
	if utf8.ValidString(input) && !hasControl(input) {
		return input
	}

	input = strings.ToValidUTF8(input, "")

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			b.WriteRune(' ')
		case unicode.IsControl(r):
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func hasControl(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}
