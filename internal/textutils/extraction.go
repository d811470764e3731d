// Package textutils provides text extraction and manipulation utilities.
package textutils

import (
	"strings"
	"unicode"
)

// IndexFirstMarker returns the position of the first marker, in priority order,
// that occurs anywhere in text. A marker listed earlier wins even when a later
// marker appears before it in the text. It returns -1 and "" when none match.
func IndexFirstMarker(text string, markers ...string) (int, string) {
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if idx := strings.Index(text, marker); idx >= 0 {
			return idx, marker
		}
	}
	return -1, ""
}

// CutBefore returns the prefix of text that ends before the first rune
// matching stop. A nil stop returns text unchanged.
func CutBefore(text string, stop func(rune) bool) string {
	if stop == nil {
		return text
	}
	if idx := strings.IndexFunc(text, stop); idx >= 0 {
		return text[:idx]
	}
	return text
}

// LeadingSpace returns the length in bytes of the whitespace prefix of text.
func LeadingSpace(text string) int {
	return len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
}

// TruncateSnippet shortens text for log and error messages.
func TruncateSnippet(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
