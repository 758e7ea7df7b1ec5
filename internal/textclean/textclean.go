// Package textclean normalizes extracted resume text before analysis.
package textclean

import (
	"regexp"
	"strings"
)

var (
	newlineRuns    = regexp.MustCompile(`\n+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^a-zA-Z0-9\s.,;:()\-+@#%&]`)
)

// Normalize collapses newlines and whitespace, replaces every character outside
// ASCII letters, digits, whitespace and . , ; : ( ) - + @ # % & with a space,
// collapses again and trims. It is pure and idempotent.
func Normalize(text string) string {
	text = newlineRuns.ReplaceAllString(text, "\n")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, " ")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Allowed reports whether r may appear in Normalize output.
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ':
		return true
	}
	return strings.ContainsRune(".,;:()-+@#%&", r)
}
