// Package splitter cuts an utterance into clauses on the pack's conjunction markers
package splitter

import (
	"regexp"
	"strings"

	"vaani/internal/core/normalize"
	"vaani/internal/core/rulepack"
)

// Splitter is read-only after New and safe for concurrent use
type Splitter struct {
	re   *regexp.Regexp
	norm *normalize.Normalizer
}

// New wraps the pack's compiled marker expression
func New(p *rulepack.Pack) *Splitter {
	return &Splitter{re: p.Splitter, norm: normalize.New()}
}

// Split returns the trimmed, non-empty clauses of text in order. Matching is
// case-insensitive and clauses keep their original case.
// Fewer than two clauses means the utterance is single-intent
func (s *Splitter) Split(text string) []string {
	clean := s.norm.Clean(text)
	if clean == "" {
		return nil
	}
	parts := s.re.Split(clean, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.Trim(p, " .,;!?")
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
