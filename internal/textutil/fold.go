package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FoldKey returns the comparison key for a tag or alias: surrounding
// whitespace removed and full Unicode case folding applied.
func FoldKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// Lower lowercases value using English rules.
func Lower(value string) string {
	return cases.Lower(language.English).String(value)
}

// Label turns a snake_case identifier into a display label, e.g.
// "location_type" becomes "Location Type".
func Label(value string) string {
	words := strings.Fields(strings.ReplaceAll(value, "_", " "))
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// Prefix returns the first n runes of value, or value itself when shorter.
func Prefix(value string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range value {
		if count == n {
			return value[:i]
		}
		count++
	}
	return value
}

// CollapseSpace trims value and replaces internal whitespace runs with a
// single space.
func CollapseSpace(value string) string {
	return strings.Join(strings.FieldsFunc(value, unicode.IsSpace), " ")
}
