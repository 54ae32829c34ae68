package langhint

import (
	"testing"
	"unicode"
)

func TestDominant(t *testing.T) {
	tests := []struct {
		in      string
		script  string
		letters int
	}{
		{"turn on the lights", "Latin", 15},
		{"मौसम कैसा है", "Devanagari", 6},
		{"aaj मौसम", "Devanagari", 6},
		{"12345 !!", "", 0},
		{"", "", 0},
	}
	for _, tc := range tests {
		script, letters := Dominant(tc.in)
		if script != tc.script || letters != tc.letters {
			t.Fatalf("Dominant(%q) = %q,%d; want %q,%d", tc.in, script, letters, tc.script, tc.letters)
		}
	}
}

func TestCount(t *testing.T) {
	if n := Count("light जलाओ", unicode.Devanagari); n != 4 {
		t.Fatalf("Count Devanagari = %d, want 4", n)
	}
	if n := Count("anything", nil); n != 0 {
		t.Fatalf("nil table should count 0, got %d", n)
	}
}
