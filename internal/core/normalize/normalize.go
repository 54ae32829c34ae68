// Package normalize prepares utterances for cue and pattern matching
// Pipeline order
// 1 Sanitize controls and drop invalid UTF-8
// 2 Unicode NFKC normalization
// 3 Case folding (Normalize only; Clean keeps case for proper-noun patterns)
// 4 Remove format characters (ZWJ, ZWNJ, BOM)
// 5 Width fold fullwidth to ASCII and map typographic apostrophes to '
// 6 Collapse whitespace to single spaces and trim
//
// Nonspacing marks are kept: Devanagari matras and viramas are Mn and carry meaning
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe; transformer chains come from pools
type Normalizer struct{}

var apostrophes = runes.Map(func(r rune) rune {
	switch r {
	case '‘', '’', 'ʼ', '′':
		return '\''
	}
	return r
})

var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			apostrophes,
		)
	},
}

var cleanPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			apostrophes,
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the case-folded form of s used for cue lists and intent patterns
func (n *Normalizer) Normalize(s string) string {
	return run(&foldPool, s)
}

// Clean returns s with the same pipeline minus case folding
func (n *Normalizer) Clean(s string) string {
	return run(&cleanPool, s)
}

// Tokens splits the normalized form of s into word tokens.
// Letters, digits, marks and inner apostrophes belong to a token
func (n *Normalizer) Tokens(s string) []string {
	return Tokens(n.Normalize(s))
}

// Tokens splits an already normalized string into word tokens
func Tokens(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '\'')
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func run(pool *sync.Pool, s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := pool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	if err != nil {
		// transformers only fail on malformed input, which Sanitize already removed
		ns = s
	}
	return collapseSpaces(ns)
}

// collapseSpaces converts every whitespace run to one ASCII space and trims the ends
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	pending := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pending = b.Len() > 0
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
