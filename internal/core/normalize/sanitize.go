package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops invalid UTF-8, NUL, DEL and the C0/C1 control ranges.
// Tab, CR and LF survive so collapseSpaces can turn them into single spaces.
// Clean input is returned unchanged without allocating
func Sanitize(s string) string {
	if s == "" || clean(s) {
		return s
	}
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, s)
}

func clean(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || dropped(r) {
			return false
		}
		i += size
	}
	return true
}

func dropped(r rune) bool {
	switch {
	case r == '\n' || r == '\r' || r == '\t':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}
