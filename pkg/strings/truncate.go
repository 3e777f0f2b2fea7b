// Package strings holds small string helpers shared by the CLI output code.
package strings

import (
	"strings"
)

// DefaultFieldMaxLen is the default maximum length for profile fields in
// formatted status output.
const DefaultFieldMaxLen = 60

// MinTruncateLen is the minimum maxLen value for Truncate. Values smaller
// than this would not leave room for meaningful content plus "...".
const MinTruncateLen = 4

// Truncate shortens a string to maxLen characters and ensures single-line
// output: newlines are replaced with spaces, runs of whitespace collapse to
// a single space, and "..." marks a truncation.
//
// Slicing is rune-based so multi-byte characters are never cut in half.
// A maxLen below MinTruncateLen is clamped to MinTruncateLen.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
