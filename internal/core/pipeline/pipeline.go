// Package pipeline is the facade over the language classifier, splitter, intent matcher
// and entity extractor. It is stateless: every Process call allocates its own result and
// only reads the compiled pack
package pipeline

import (
	"strings"
	"time"

	"vaani/internal/core/entities"
	"vaani/internal/core/intent"
	"vaani/internal/core/langdetect"
	"vaani/internal/core/rulepack"
	"vaani/internal/core/splitter"
)

// Clause is one resolved segment of a multi-intent utterance
type Clause struct {
	Text       string            `json:"text"`
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Entities   entities.Entities `json:"entities"`
}

// Result is the outcome of one Process call
type Result struct {
	Text       string            `json:"text"`
	Intent     string            `json:"intent"`
	Intents    []Clause          `json:"intents,omitempty"`
	Entities   entities.Entities `json:"entities"`
	Confidence float64           `json:"confidence"`
	Language   string            `json:"language,omitempty"`
	Source     intent.Source     `json:"source,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty"`
}

// Multi reports whether the result carries per-clause intents
func (r Result) Multi() bool { return r.Intent == rulepack.IntentMulti }

// Empty is the canonical result for blank input
func Empty(text string) Result {
	return Result{Text: text, Intent: rulepack.IntentUnknown}
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithClock replaces time.Now for result timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// Pipeline is safe for concurrent use
type Pipeline struct {
	pack     *rulepack.Pack
	lang     *langdetect.Classifier
	matcher  *intent.Matcher
	extract  *entities.Extractor
	splitter *splitter.Splitter
	now      func() time.Time
}

// New wires the components over one compiled pack
func New(p *rulepack.Pack, opts ...Option) *Pipeline {
	pl := &Pipeline{
		pack:     p,
		lang:     langdetect.New(p),
		matcher:  intent.New(p),
		extract:  entities.New(p),
		splitter: splitter.New(p),
		now:      time.Now,
	}
	for _, o := range opts {
		o(pl)
	}
	return pl
}

// Pack returns the compiled rule pack the pipeline reads
func (p *Pipeline) Pack() *rulepack.Pack { return p.pack }

// Process resolves text to a single or multi-intent result. It never fails
func (p *Pipeline) Process(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Empty(text)
	}

	if clauses := p.clauses(text); len(clauses) >= 2 {
		return Result{
			Text:       text,
			Intent:     rulepack.IntentMulti,
			Intents:    clauses,
			Entities:   p.extract.Extract(text),
			Confidence: p.pack.Scoring.MultiConfidence,
			Language:   p.lang.Detect(text).Code,
			Source:     intent.SourceRule,
			Timestamp:  p.stamp(),
		}
	}

	m := p.matcher.Match(text)
	return Result{
		Text:       text,
		Intent:     m.Intent,
		Entities:   p.extract.ExtractFor(text, m.Rule),
		Confidence: m.Confidence,
		Language:   p.lang.Detect(text).Code,
		Source:     m.Source,
		Timestamp:  p.stamp(),
	}
}

// clauses resolves each split segment and keeps those with a known intent
func (p *Pipeline) clauses(text string) []Clause {
	parts := p.splitter.Split(text)
	if len(parts) < 2 {
		return nil
	}
	out := make([]Clause, 0, len(parts))
	for _, part := range parts {
		m := p.matcher.Match(part)
		if !m.Known() {
			continue
		}
		out = append(out, Clause{
			Text:       part,
			Intent:     m.Intent,
			Confidence: m.Confidence,
			Entities:   p.extract.ExtractFor(part, m.Rule),
		})
	}
	return out
}

func (p *Pipeline) stamp() string {
	return p.now().UTC().Format(time.RFC3339Nano)
}

// Language runs only the classifier
func (p *Pipeline) Language(text string) langdetect.Detection { return p.lang.Detect(text) }

// Intent runs only the matcher
func (p *Pipeline) Intent(text string) intent.Match { return p.matcher.Match(text) }

// Entities runs only the extractor over every kind
func (p *Pipeline) Entities(text string) entities.Entities { return p.extract.Extract(text) }

// Split runs only the splitter
func (p *Pipeline) Split(text string) []string { return p.splitter.Split(text) }
