// Package search builds the normalized index strings used for listing search.
//
// Listings store a precomputed index built from title and description at write
// time; queries normalize the user's free text the same way, so a search term
// matches regardless of diacritics, punctuation, or case.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and removes combining marks, turning
// "Mărimea" into "Marimea".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize converts free text into its canonical search form: diacritics
// stripped, lowercased, every run of non-alphanumeric characters collapsed to
// a single space, trimmed. It is total and idempotent; empty input yields an
// empty string.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	folded, _, err := transform.String(stripMarks, text)
	if err != nil {
		// Transform failures leave the input usable as-is; fall back to the
		// raw text rather than dropping the term.
		folded = text
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingSpace := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}

	return b.String()
}

// IndexFor builds the stored search index for a listing from its title and
// description.
func IndexFor(title, description string) string {
	return Normalize(title + " " + description)
}
