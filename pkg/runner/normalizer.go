package runner

import (
	"regexp"
	"strings"
)

// backslashRun is a run of backslashes interspersed with whitespace,
// starting and ending with a backslash. UNC prefixes split across
// line wraps look like this.
var backslashRun = regexp.MustCompile(`\\[\s\\]*\\`)

// Normalize canonicalizes raw decoded text before any matching.
//
// Hidden format/bidi code points are stripped, forward slashes become
// backslashes, everything outside TAB, LF, CR and printable ASCII is
// dropped and backslash runs are collapsed to exactly two. The collapse
// runs after the ASCII filter so that a removed character can never
// glue two runs together on a later pass: Normalize(Normalize(s)) is
// always Normalize(s).
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case isHiddenMark(r):
			return -1
		case r == '/':
			return '\\'
		case r == '\t', r == '\n', r == '\r':
			return r
		case r >= 0x20 && r <= 0x7E:
			return r
		}
		return -1
	}, s)

	return backslashRun.ReplaceAllLiteralString(s, `\\`)
}

// isHiddenMark reports zero-width, BOM and bidirectional control code points
func isHiddenMark(r rune) bool {
	return (r >= 0x200B && r <= 0x200F) || r == 0xFEFF || (r >= 0x202A && r <= 0x202E)
}
