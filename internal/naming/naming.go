// Package naming derives the identifier keys items are registered under.
package naming

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unnamed is the key used when a name has no usable characters.
const Unnamed = "unnamed"

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns a display name into a key: diacritics folded, lowercase,
// punctuation dropped, whitespace runs joined with "_". A key that would start
// with a digit is prefixed with "_".
func Slugify(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsSpace(r) || r == '_' || r == '-':
			pendingSep = b.Len() > 0
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}

	slug := b.String()
	if slug == "" {
		return Unnamed
	}
	if slug[0] >= '0' && slug[0] <= '9' {
		slug = "_" + slug
	}
	return slug
}

// UniqueKey slugifies name and appends _2, _3, ... until the key is not in taken.
func UniqueKey(name string, taken map[string]bool) string {
	base := Slugify(name)
	if !taken[base] {
		return base
	}
	for n := 2; ; n++ {
		key := base + "_" + strconv.Itoa(n)
		if !taken[key] {
			return key
		}
	}
}
