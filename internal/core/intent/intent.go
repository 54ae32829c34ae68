// Package intent resolves an utterance to one named intent from the pack's ordered rules
package intent

import (
	"vaani/internal/core/normalize"
	"vaani/internal/core/rulepack"
)

// Source indicates how a Match was produced
type Source string

const (
	// SourceRule is a hit from a priority rule
	SourceRule Source = "rule"
	// SourceKeyword is a hit from the coarse fallback keyword map
	SourceKeyword Source = "keyword"
	// SourceNone means nothing matched
	SourceNone Source = "none"
)

// Match is the matcher outcome. Raw is the matched span of the normalized text
// (the keyword for fallback hits). Rule is nil unless Source is SourceRule
type Match struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Raw        string         `json:"raw,omitempty"`
	Source     Source         `json:"source"`
	Rule       *rulepack.Rule `json:"-"`
}

// Matcher is read-only after New and safe for concurrent use
type Matcher struct {
	p    *rulepack.Pack
	norm *normalize.Normalizer
}

// New builds a matcher over the pack's sorted rules
func New(p *rulepack.Pack) *Matcher {
	return &Matcher{p: p, norm: normalize.New()}
}

// Unknown is the no-match result
func Unknown() Match {
	return Match{Intent: rulepack.IntentUnknown, Source: SourceNone}
}

// Match walks the rules in priority order and returns the first hit,
// then falls back to the keyword map, then to unknown
func (m *Matcher) Match(text string) Match {
	return m.MatchNormalized(m.norm.Normalize(text))
}

// MatchNormalized is Match for text already passed through normalize.Normalize
func (m *Matcher) MatchNormalized(norm string) Match {
	if norm == "" {
		return Unknown()
	}
	for i := range m.p.Rules {
		r := &m.p.Rules[i]
		loc := r.Re.FindStringIndex(norm)
		if loc == nil {
			continue
		}
		return Match{
			Intent:     r.Name,
			Confidence: m.p.Confidence(r.Priority),
			Raw:        norm[loc[0]:loc[1]],
			Source:     SourceRule,
			Rule:       r,
		}
	}
	for _, tok := range normalize.Tokens(norm) {
		if in, ok := m.p.FallbackIndex[tok]; ok {
			return Match{
				Intent:     in,
				Confidence: m.p.Scoring.FallbackConfidence,
				Raw:        tok,
				Source:     SourceKeyword,
			}
		}
	}
	return Unknown()
}

// Known reports whether a match resolved to a real intent
func (m Match) Known() bool { return m.Intent != rulepack.IntentUnknown && m.Intent != "" }
