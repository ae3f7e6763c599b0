// Package textnorm implements case and accent insensitive text matching.
package textnorm

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize decomposes s (NFD), drops the combining marks and lowercases the
// rest, so "MÉXICO" and "mexico" normalize to the same string.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Contains reports whether needle occurs in haystack once both are
// normalized. An empty needle matches everything.
func Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Normalize(haystack), Normalize(needle))
}

// Equal compares two strings after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// collate.Collator is not safe for concurrent use, hence one per call.
func newCollator() *collate.Collator {
	return collate.New(language.Spanish, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// Compare orders a and b the way a Spanish reader expects, ignoring case and
// accents. It returns -1, 0 or 1.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortBy sorts items in place by the Spanish collation of key(item). The sort
// is stable.
func SortBy[T any](items []T, key func(T) string) {
	c := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
