// Package strings provides small string helpers shared by transports and repos
package strings

import (
	std "strings"
	"unicode/utf8"
)

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes a route prefix like /nlu or api/v1/ to /nlu or /api/v1
// panics if nothing is left after trimming
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Clip returns s cut to at most n runes, never splitting a rune
func Clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// SQLNull returns nil for a blank string so the column stores NULL
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// ValidUTF8 replaces invalid sequences with nothing
func ValidUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return std.ToValidUTF8(s, "")
}
