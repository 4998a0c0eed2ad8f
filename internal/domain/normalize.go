package domain

import (
	"strings"
	"unicode"
)

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// Normalize canonicalizes a word for option equality: underscores and hyphens
// become spaces, the result is lowercased and trimmed.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ToLower(separatorReplacer.Replace(s)))
}

// SameWord reports whether two surface forms are the same option.
func SameWord(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Display turns a lemma name into its surface form ("ice_cream" -> "ice cream").
func Display(s string) string {
	return separatorReplacer.Replace(s)
}

// IsProperNoun applies the casing heuristic: a word whose first letter is
// upper case is treated as a proper noun.
func IsProperNoun(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}
