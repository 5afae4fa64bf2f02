// Package text provides case-insensitive text normalization with an ASCII
// fast path and a Unicode fallback.
package text

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const toLower = 'a' - 'A'

// Lower returns a lowercase version of s.
//
// ASCII input is byte-lowercased in a single pass; when s contains no
// uppercase ASCII byte, s itself is returned and no allocation occurs.
// Input containing non-ASCII bytes undergoes full Unicode lowering.
func Lower(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= utf8.RuneSelf {
			return unicodeLower(s)
		}
		if 'A' <= c && c <= 'Z' {
			return lowerFrom(s, i)
		}
	}
	return s
}

// lowerFrom byte-lowercases s starting at index i, the position of the
// first uppercase ASCII byte. If a non-ASCII byte turns up later in s,
// it abandons the partial result and defers to Unicode lowering.
func lowerFrom(s string, i int) string {
	b := []byte(s)
	for ; i < len(b); i++ {
		c := b[i]
		if c >= utf8.RuneSelf {
			return unicodeLower(s)
		}
		if 'A' <= c && c <= 'Z' {
			b[i] = c + toLower
		}
	}
	return string(b)
}

func unicodeLower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// EqualFold reports whether a and b are equal under case folding.
//
// Identical strings and pure-ASCII pairs are compared without allocating.
// Otherwise, both strings undergo full Unicode case folding, under which
// length-changing folds compare equal to their expansions
// (e.g. "straße" and "STRASSE").
func EqualFold(a, b string) bool {
	if a == b {
		return true
	}
	if IsASCII(a) && IsASCII(b) {
		if len(a) != len(b) {
			return false
		}
		for i := 0; i < len(a); i++ {
			if foldByte(a[i]) != foldByte(b[i]) {
				return false
			}
		}
		return true
	}
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}

// IsASCII reports whether s consists solely of ASCII bytes.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

func foldByte(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + toLower
	}
	return c
}
