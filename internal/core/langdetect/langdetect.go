// Package langdetect classifies an utterance as one of the pack's languages by additive cue scoring.
//
// Per token a language earns its strong weight, or its common weight (discounted for words it
// shares with another language). On top come a verb-position bonus (SOV languages at the end,
// SVO at the start), a fixed bonus per grammar marker present, and a native-script bonus when
// any letter of the language's script appears. The strictly highest score wins; ties and
// all-zero scores fall back to the pack's first language
package langdetect

import (
	"vaani/internal/core/langhint"
	"vaani/internal/core/normalize"
	"vaani/internal/core/rulepack"
)

// Detection is the outcome of one classification
type Detection struct {
	Code       string             `json:"code"`
	Confidence float64            `json:"confidence"`
	Script     string             `json:"script,omitempty"`
	Scores     map[string]float64 `json:"scores"`
}

// Classifier is read-only after New and safe for concurrent use
type Classifier struct {
	langs []rulepack.Language
	def   string
	norm  *normalize.Normalizer
}

// New builds a classifier over the pack's language profiles
func New(p *rulepack.Pack) *Classifier {
	return &Classifier{
		langs: p.Languages,
		def:   p.Default(),
		norm:  normalize.New(),
	}
}

// Default returns the fallback language code
func (c *Classifier) Default() string { return c.def }

// Codes lists the known language codes, default first
func (c *Classifier) Codes() []string {
	out := make([]string, len(c.langs))
	for i, l := range c.langs {
		out[i] = l.Code
	}
	return out
}

// Detect never fails; empty input yields the default language with zero confidence
func (c *Classifier) Detect(text string) Detection {
	scores := make(map[string]float64, len(c.langs))
	for _, l := range c.langs {
		scores[l.Code] = 0
	}
	norm := c.norm.Normalize(text)
	if norm == "" {
		return Detection{Code: c.def, Scores: scores}
	}

	tokens := normalize.Tokens(norm)
	for i := range c.langs {
		scores[c.langs[i].Code] = Score(&c.langs[i], norm, tokens)
	}
	code, conf := c.pick(scores)
	script, _ := langhint.Dominant(norm)
	return Detection{Code: code, Confidence: conf, Script: script, Scores: scores}
}

// Score computes one language's evidence for a normalized utterance and its tokens
func Score(l *rulepack.Language, norm string, tokens []string) float64 {
	var s float64
	for _, tok := range tokens {
		if _, ok := l.Strong[tok]; ok {
			s += l.StrongWeight
			continue
		}
		if _, ok := l.Common[tok]; ok {
			w := l.CommonWeight
			if _, shared := l.Shared[tok]; shared {
				w *= l.SharedDiscount
			}
			s += w
		}
	}

	if n := len(tokens); n > 0 && l.VerbBonus > 0 {
		var tok string
		switch l.VerbPosition {
		case rulepack.PositionStart:
			tok = tokens[0]
		case rulepack.PositionEnd:
			tok = tokens[n-1]
		}
		if _, ok := l.Verbs[tok]; ok && tok != "" {
			s += l.VerbBonus
		}
	}

	for _, m := range l.Markers {
		if m.Re.MatchString(norm) {
			s += m.Bonus
		}
	}

	if l.Script != nil && langhint.Count(norm, l.Script) > 0 {
		s += l.ScriptBonus
	}
	return s
}

func (c *Classifier) pick(scores map[string]float64) (string, float64) {
	var (
		best  = c.def
		top   = scores[c.def]
		sum   float64
		ties  int
		first = true
	)
	for _, l := range c.langs {
		v := scores[l.Code]
		sum += v
		switch {
		case first || v > top:
			best, top, ties, first = l.Code, v, 1, false
		case v == top:
			ties++
		}
	}
	if sum == 0 {
		return c.def, 0
	}
	if ties > 1 {
		best = c.def
	}
	return best, scores[best] / sum
}
