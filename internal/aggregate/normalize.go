package aggregate

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CanonicalKey normalizes a company name or location into the canonical
// grouping form: trimmed, internal whitespace collapsed, case-folded, and
// accents stripped, so "Acme  Plumbing" and "ACME Plumbing" share a key.
func CanonicalKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = removeAccents(s)
	return strings.Join(strings.Fields(s), " ")
}

// DisplayName trims and collapses whitespace while preserving the original
// casing, for human-readable output.
func DisplayName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}
