package normalize

import (
	"strings"
	"testing"
)

func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity ascii", "turn on the lights", "turn on the lights"},
		{"utf8 repair drops invalid bytes", string([]byte{0xff, 'f', 'a', 'n', 0x80, ' ', 'o', 'n'}), "fan on"},
		{"case fold", "Mausam KAISA hai", "mausam kaisa hai"},
		{"remove zero-widths", "li\u200bg\u200dht", "light"},
		{"width fold fullwidth", "ＴＶ on", "tv on"},
		{"nfkc ligature", "oﬃce", "office"},
		{"digits survive", "Set timer for 5 minutes", "set timer for 5 minutes"},
		{"typographic apostrophe", "What’s the time", "what's the time"},
		{"devanagari marks survive", "मौसम कैसा है", "मौसम कैसा है"},
		{"collapse whitespace", "a\t\tb\nc   d", "a b c d"},
		{"controls", "call\x00 mom\x7f\u0085", "call mom"},
		{"empty", "", ""},
		{"only spaces", " \t\n ", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
			if again := n.Normalize(got); again != got {
				t.Fatalf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestClean_KeepsCase(t *testing.T) {
	n := New()
	got := n.Clean("  Book a   flight to \uff2e\uff39\uff23\u200b ")
	if got != "Book a flight to NYC" {
		t.Fatalf("Clean = %q", got)
	}
}

func TestTokens(t *testing.T) {
	n := New()
	tests := []struct {
		in   string
		want []string
	}{
		{"What's the time?", []string{"what's", "the", "time"}},
		{"Mausam kaisa hai?!", []string{"mausam", "kaisa", "hai"}},
		{"'quoted' words", []string{"quoted", "words"}},
		{"मौसम, कैसा है।", []string{"मौसम", "कैसा", "है"}},
		{"12345", []string{"12345"}},
		{"...", nil},
	}
	for _, tc := range tests {
		got := n.Tokens(tc.in)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") {
			t.Fatalf("Tokens(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitize_FastPath(t *testing.T) {
	in := "plain text\twith tab"
	if got := Sanitize(in); got != in {
		t.Fatalf("Sanitize changed clean input: %q", got)
	}
	if got := Sanitize("a\x01b\u0090c"); got != "abc" {
		t.Fatalf("Sanitize = %q", got)
	}
}

func TestCollapseSpaces(t *testing.T) {
	in := " \t a \n b   c \r\n "
	if got := collapseSpaces(in); got != "a b c" {
		t.Fatalf("collapseSpaces(%q) = %q", in, got)
	}
}
