package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics maps "Café" to "Cafe". Letters without a decomposition
// (ß, ø, non-latin scripts) pass through unchanged.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// Slugify lowercases a display name and collapses every run of characters
// outside [a-z0-9] into one hyphen. Leading and trailing hyphens are dropped.
// Cities and places both use it, so renames must go through here too.
func Slugify(name string) string {
	folded := strings.ToLower(foldDiacritics(name))

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if isSlugRune(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// NormalizeName is the comparison key used for duplicate detection: folded,
// lowercased, with every rune outside [a-z0-9] removed.
func NormalizeName(name string) string {
	folded := strings.ToLower(foldDiacritics(name))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isSlugRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
