package tables

import "strings"

// CleanText replaces non-breaking spaces, collapses whitespace runs to a
// single space and trims the result.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.Join(strings.Fields(s), " ")
}

// indexFold returns the byte index of the first ASCII case-insensitive
// occurrence of substr in s, or -1. substr must be lowercase ASCII.
// Byte offsets line up with s because only ASCII letters are folded.
func indexFold(s, substr string) int {
	return strings.Index(asciiLower(s), substr)
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
