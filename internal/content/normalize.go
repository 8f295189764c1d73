package content

import (
	"regexp"
	"strings"
	"unicode"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

// NormalizeASCII canonicalizes a text block before persistence: CRLF and CR
// become LF, exotic Unicode spaces become plain spaces, every other
// non-ASCII rune is dropped, and runs of blank lines collapse to one.
// Downstream consumers of the persisted artifacts expect plain ASCII.
func NormalizeASCII(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r > unicode.MaxASCII && unicode.IsSpace(r):
			return ' '
		case r > unicode.MaxASCII:
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}
