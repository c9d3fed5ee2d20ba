// Package textnorm folds free text for keyword matching.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks, so "Descripción" becomes "Descripcion".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key is the form both sides of a keyword match are compared in: accents
// stripped, whitespace collapsed, upper-case.
func Key(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(StripAccents(s)), " "))
}
