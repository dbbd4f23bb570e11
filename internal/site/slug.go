package site

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes accented characters and removes the combining marks,
// so "idées" slugs to "idees".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var titleCaser = cases.Title(language.English, cases.NoLower)

// Slugify turns an arbitrary tag or title into a URL-safe path segment:
// accent-folded, lowercased, runs of non-alphanumerics collapsed to single
// hyphens. The result is deterministic for a given input.
func Slugify(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
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

// DisplayTitle renders a tag for headings. Words are title-cased without
// lowering what is already cased: "python" becomes "Python", "SIMD" stays
// "SIMD".
func DisplayTitle(tag string) string {
	return titleCaser.String(tag)
}
