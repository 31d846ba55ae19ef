// Package sanitize cleans values that leave the program: CSV cells written by
// `files list --output csv` and file names proposed for downloads.
package sanitize

import (
	"strings"
	"unicode"
)

// formulaPrefixes start a formula in spreadsheet applications.
var formulaPrefixes = []string{"=", "+", "-", "@"}

// CSVValue neutralises spreadsheet formula injection by prefixing a single
// quote to values that start with =, +, - or @.
func CSVValue(value string) string {
	for _, p := range formulaPrefixes {
		if strings.HasPrefix(value, p) {
			return "'" + value
		}
	}
	return value
}

// Field removes invisible characters and surrounding whitespace.
func Field(field string) string {
	if field == "" {
		return field
	}
	return strings.TrimSpace(removeInvisibleChars(field))
}

// removeInvisibleChars removes zero-width and other invisible Unicode characters
func removeInvisibleChars(s string) string {
	invisibleChars := []string{
		"\u200B", // Zero-width space
		"\u200C", // Zero-width non-joiner
		"\u200D", // Zero-width joiner
		"\uFEFF", // Zero-width no-break space (BOM)
		"\u00AD", // Soft hyphen
		"\u2060", // Word joiner
		"\u180E", // Mongolian vowel separator
	}

	for _, char := range invisibleChars {
		s = strings.ReplaceAll(s, char, "")
	}

	return s
}

// FileName reduces a proposed download name to a single safe path element.
// Directory components and control characters are dropped and characters
// Windows reserves are replaced with '_'. An empty result becomes fallback.
func FileName(name, fallback string) string {
	name = Field(name)
	// Strip directories using both separators, regardless of platform.
	name = name[strings.LastIndexAny(name, `/\`)+1:]

	name = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`<>:"|?*`, r):
			return '_'
		}
		return r
	}, name)

	name = strings.TrimRight(strings.TrimSpace(name), ". ")
	if name == "" {
		return fallback
	}
	return name
}
