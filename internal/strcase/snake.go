// Package strcase converts declared property names into serialized keys.
package strcase

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Snake converts camelCase and PascalCase to snake_case: every upper-case
// rune that follows another rune gets an underscore in front of it, and the
// result is lower-cased ("personDetails" -> "person_details",
// "userID" -> "user_i_d"). Whitespace separated words are joined first.
// Names that are already lower case are returned unchanged.
func Snake(s string) string {
	if !hasUpperOrSpace(s) {
		return s
	}
	s = joinWords(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return cases.Lower(language.Und).String(b.String())
}

func hasUpperOrSpace(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

// joinWords removes whitespace, upper-casing the first rune of every word
// ("person details" -> "PersonDetails").
func joinWords(s string) string {
	var b strings.Builder
	for _, f := range strings.FieldsFunc(s, unicode.IsSpace) {
		b.WriteString(upperFirst(f))
	}
	return b.String()
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
