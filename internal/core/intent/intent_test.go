package intent

import (
	"testing"

	"vaani/internal/core/rulepack"
)

func TestMatch_Embedded(t *testing.T) {
	m := New(rulepack.MustLoad())

	tests := []struct {
		in     string
		intent string
		source Source
	}{
		{"What time is it?", "time_date", SourceRule},
		{"Mausam kaisa hai?", "weather", SourceRule},
		{"Turn on the lights", "control_device", SourceRule},
		{"Set timer for 5 minutes", "timer", SourceRule},
		{"Book a flight to NYC", "schedule", SourceRule},
		{"find a hotel near Central Park", "search", SourceRule},
		{"Call mom", "call", SourceRule},
		{"bedroom ka fan chalao", "control_device", SourceRule},
		{"wake me up at 7:30 am tomorrow", "alarm", SourceRule},
		{"remind me to buy milk at 5 pm", "reminder", SourceRule},
		{"kal ka mausam batao", "weather", SourceRule},
		{"STOP!", "stop", SourceRule},
		{"मौसम कैसा है?", "weather", SourceRule},
		{"कितने बजे हैं", "time_date", SourceRule},
		{"बत्तियाँ जलाओ", "control_device", SourceRule},
		{"लाइट", "control_device", SourceKeyword},
		{"समय", "time_date", SourceKeyword},
		{"मौसमी फल", rulepack.IntentUnknown, SourceNone},
		{"light", "control_device", SourceKeyword},
		{"any good hotel", "search", SourceKeyword},
		{"xyz qwe", rulepack.IntentUnknown, SourceNone},
		{"", rulepack.IntentUnknown, SourceNone},
		{"  \t ", rulepack.IntentUnknown, SourceNone},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got := m.Match(tc.in)
			if got.Intent != tc.intent || got.Source != tc.source {
				t.Fatalf("Match(%q) = %s/%s (raw %q), want %s/%s", tc.in, got.Intent, got.Source, got.Raw, tc.intent, tc.source)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Fatalf("confidence %v out of range", got.Confidence)
			}
			if (got.Rule != nil) != (got.Source == SourceRule) {
				t.Fatalf("Rule set = %v for source %s", got.Rule != nil, got.Source)
			}
		})
	}
}

func TestMatch_Confidence(t *testing.T) {
	p := rulepack.MustLoad()
	m := New(p)

	if got := m.Match("stop"); got.Confidence != p.Scoring.Base {
		t.Fatalf("top priority rule confidence = %v, want %v", got.Confidence, p.Scoring.Base)
	}
	if got := m.Match("light"); got.Confidence != p.Scoring.FallbackConfidence {
		t.Fatalf("fallback confidence = %v", got.Confidence)
	}
	if got := m.Match("nothing here"); got.Confidence != 0 {
		t.Fatalf("unknown confidence = %v", got.Confidence)
	}
	hi, lo := m.Match("set a timer"), m.Match("thank you")
	if !(hi.Confidence > lo.Confidence) {
		t.Fatalf("higher priority should score higher: timer %v, thanks %v", hi.Confidence, lo.Confidence)
	}
}

func fixture(t *testing.T) *rulepack.Pack {
	t.Helper()
	p, err := rulepack.Compile(rulepack.Raw{
		Version: rulepack.Version,
		Scoring: rulepack.RawScoring{Base: 0.9, DecayStep: 0.1, FallbackConfidence: 0.5, MultiConfidence: 0.8},
		Intents: []rulepack.RawIntent{
			{Name: "low", Pattern: `\bshared\b`, Priority: 1},
			{Name: "first", Pattern: `\bshared\b`, Priority: 5},
			{Name: "second", Pattern: `\bshared\b`, Priority: 5},
		},
		Fallback: []rulepack.RawKeyword{
			{Keyword: "beta", Intent: "second"},
			{Keyword: "alpha", Intent: "low"},
		},
		Languages: []rulepack.RawLanguage{{Code: "en", StrongWeight: 1, CommonWeight: 1}},
		Entities:  map[string]rulepack.RawKind{},
		Splitter:  rulepack.RawSplitter{Markers: []string{","}},
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return p
}

func TestMatch_TieBreakIsDeclarationOrder(t *testing.T) {
	m := New(fixture(t))
	for i := 0; i < 10; i++ {
		got := m.Match("a SHARED phrase")
		if got.Intent != "first" {
			t.Fatalf("run %d: got %s, want first", i, got.Intent)
		}
		if got.Raw != "shared" {
			t.Fatalf("raw = %q", got.Raw)
		}
	}
}

func TestMatch_FallbackTextOrder(t *testing.T) {
	m := New(fixture(t))
	got := m.Match("alpha then beta")
	if got.Intent != "low" || got.Raw != "alpha" || got.Confidence != 0.5 {
		t.Fatalf("fallback = %+v", got)
	}
}
