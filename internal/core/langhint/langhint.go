// Package langhint counts letters per writing system.
// The language classifier uses it for the native-script signal and to report the dominant script
package langhint

import (
	"unicode"
)

// scripts are checked in order; Latin goes last so specific scripts win ties
var scripts = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Devanagari", unicode.Devanagari},
	{"Gurmukhi", unicode.Gurmukhi},
	{"Bengali", unicode.Bengali},
	{"Gujarati", unicode.Gujarati},
	{"Tamil", unicode.Tamil},
	{"Telugu", unicode.Telugu},
	{"Arabic", unicode.Arabic},
	{"Cyrillic", unicode.Cyrillic},
	{"Greek", unicode.Greek},
	{"Han", unicode.Han},
	{"Latin", unicode.Latin},
}

// Count returns how many runes of s are letters or marks in table
func Count(s string, table *unicode.RangeTable) int {
	if table == nil {
		return 0
	}
	n := 0
	for _, r := range s {
		if (unicode.IsLetter(r) || unicode.IsMark(r)) && unicode.Is(table, r) {
			n++
		}
	}
	return n
}

// Dominant returns the script with the most letters in s and the total letter count.
// Script is empty when s has no letters
func Dominant(s string) (script string, letters int) {
	counts := make([]int, len(scripts))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		for i, sc := range scripts {
			if unicode.Is(sc.table, r) {
				counts[i]++
				break
			}
		}
	}
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return "", letters
	}
	return scripts[best].name, letters
}
