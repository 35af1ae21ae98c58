package services

import (
	"strings"
	"unicode"
)

// Sanitize cleans generated text for display: it trims the text, removes
// non-printable characters (newlines survive as line breaks), drops blank lines
// and turns "•" bullets into "-". Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(text string) string {
	printable := strings.Map(func(r rune) rune {
		if r == '\n' || unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(text))

	lines := strings.Split(printable, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}

	cleaned := strings.ReplaceAll(strings.Join(kept, "\n"), "•", "-")
	return strings.TrimSpace(cleaned)
}
