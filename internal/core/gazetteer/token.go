package gazetteer

import (
	"unicode"
	"unicode/utf8"
)

// isWord reports whether r continues a token: letters, numbers, marks (Devanagari matras)
// and connector punctuation
func isWord(r rune) bool {
	if r == utf8.RuneError || r == 0 {
		return false
	}
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r) || unicode.In(r, unicode.Pc)
}

// bounded reports whether s[start:end] sits on token boundaries on both sides
func bounded(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); isWord(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); isWord(r) {
			return false
		}
	}
	return true
}
