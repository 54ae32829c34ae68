package rulepack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fixture() Raw {
	return Raw{
		Version: Version,
		Scoring: RawScoring{Base: 0.95, DecayStep: 0.02, FallbackConfidence: 0.7, MultiConfidence: 0.85},
		Slots: map[string]SlotBlock{
			"DEVICE": {Aliases: []SlotAlias{
				{ID: "light", Names: []string{"light", "lights"}},
				{ID: "ac", Names: []string{"air conditioner", "ac"}},
			}},
		},
		Intents: []RawIntent{
			{Name: "low", Pattern: `\bping\b`, Priority: 1},
			{Name: "first", Pattern: `\bshared\b`, Priority: 5},
			{Name: "second", Pattern: `\bshared\b`, Priority: 5},
			{Name: "device", Pattern: `\b(?:{DEVICE})\b`, Priority: 9, Entities: []string{"device"}},
		},
		Fallback: []RawKeyword{{Keyword: "Pong", Intent: "low"}, {Keyword: "pong", Intent: "first"}},
		Languages: []RawLanguage{
			{Code: "en", StrongWeight: 3, CommonWeight: 1},
			{Code: "hi", StrongWeight: 2, CommonWeight: 1, SharedDiscount: 0.5, Script: "Devanagari"},
		},
		Entities: map[string]RawKind{
			"device":   {Patterns: []RawPattern{{Slot: "DEVICE"}}},
			"duration": {Patterns: []RawPattern{{Pattern: `(?i)\b(\d+)\s*({UNIT})\b`}}},
		},
		Units:    map[string]int{"minute": 60, "minutes": 60},
		Splitter: RawSplitter{Markers: []string{",", "and", "and then"}},
	}
}

func TestLoadEmbedded(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if p.Version != Version {
		t.Fatalf("version = %d", p.Version)
	}
	if len(p.Rules) == 0 {
		t.Fatalf("expected compiled rules")
	}
	for i := 1; i < len(p.Rules); i++ {
		if p.Rules[i-1].Priority < p.Rules[i].Priority {
			t.Fatalf("rules not sorted at %d: %d < %d", i, p.Rules[i-1].Priority, p.Rules[i].Priority)
		}
	}
	if p.Default() != "en" {
		t.Fatalf("default language = %q", p.Default())
	}
	for _, k := range PatternKinds {
		if _, ok := p.Entities[k]; !ok {
			t.Fatalf("embedded pack is missing entity kind %q", k)
		}
	}
	if id, ok := p.SlotID("DEVICE", "Lights"); !ok || id != "light" {
		t.Fatalf("SlotID(DEVICE, Lights) = %q, %v", id, ok)
	}
	if p.Splitter == nil {
		t.Fatalf("splitter not compiled")
	}
}

func TestCompile_StableTieBreak(t *testing.T) {
	p, err := Compile(fixture())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	var got []string
	for _, r := range p.Rules {
		got = append(got, r.Name)
	}
	want := "device,first,second,low"
	if strings.Join(got, ",") != want {
		t.Fatalf("order = %v, want %s", got, want)
	}
	if p.MaxPriority != 9 {
		t.Fatalf("MaxPriority = %d", p.MaxPriority)
	}
	if p.Rules[1].Order != 1 || p.Rules[2].Order != 2 {
		t.Fatalf("declaration order lost: %+v", p.Rules[1:3])
	}
}

func TestCompile_SlotExpansion(t *testing.T) {
	p, err := Compile(fixture())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	dev := p.Rules[0]
	if !strings.Contains(dev.Pattern, `air\s+conditioner`) {
		t.Fatalf("multi-word slot name not expanded: %q", dev.Pattern)
	}
	for _, s := range []string{"turn the LIGHTS", "switch the air   conditioner"} {
		if !dev.Re.MatchString(s) {
			t.Fatalf("device rule should match %q", s)
		}
	}
	if names := p.SlotNames("DEVICE"); names[0] != "air conditioner" {
		t.Fatalf("slot names not longest first: %v", names)
	}
	if _, ok := p.Slots["UNIT"]; !ok {
		t.Fatalf("UNIT slot not synthesized from units")
	}
	if !p.Entities["duration"].Patterns[0].Re.MatchString("5 minutes") {
		t.Fatalf("duration pattern did not expand {UNIT}")
	}
}

func TestCompile_Fallback(t *testing.T) {
	p, err := Compile(fixture())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(p.Fallback) != 1 || p.FallbackIndex["pong"] != "low" {
		t.Fatalf("first declared keyword should win: %+v", p.Fallback)
	}
}

func TestConfidence(t *testing.T) {
	p, err := Compile(fixture())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if c := p.Confidence(9); c != 0.95 {
		t.Fatalf("Confidence(max) = %v", c)
	}
	hi, lo := p.Confidence(5), p.Confidence(1)
	if !(hi > lo) {
		t.Fatalf("higher priority must map to higher confidence: %v <= %v", hi, lo)
	}
	if c := p.Confidence(-1000); c != 0 {
		t.Fatalf("confidence must clamp at 0, got %v", c)
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Raw)
		want string
	}{
		{"version", func(r *Raw) { r.Version = 9 }, "unsupported rules version"},
		{"reserved", func(r *Raw) { r.Intents[0].Name = IntentUnknown }, "reserved"},
		{"bad regex", func(r *Raw) { r.Intents[0].Pattern = `(file|.` }, "compile"},
		{"unknown slot", func(r *Raw) { r.Intents[0].Pattern = `{NOPE}` }, "unknown slot"},
		{"unknown kind", func(r *Raw) { r.Intents[0].Entities = []string{"mood"} }, "unknown entity kind"},
		{"fallback intent", func(r *Raw) { r.Fallback = []RawKeyword{{Keyword: "x", Intent: "nope"}} }, "unknown intent"},
		{"fallback phrase", func(r *Raw) { r.Fallback = []RawKeyword{{Keyword: "a b", Intent: "low"}} }, "single word"},
		{"negative weight", func(r *Raw) { r.Languages[0].StrongWeight = -1 }, "negative weight"},
		{"script", func(r *Raw) { r.Languages[1].Script = "Klingon" }, "unknown script"},
		{"dup language", func(r *Raw) { r.Languages[1].Code = "en" }, "duplicate language"},
		{"scoring", func(r *Raw) { r.Scoring.Base = 0 }, "scoring.base"},
		{"splitter", func(r *Raw) { r.Splitter.Markers = nil }, "splitter"},
		{"entity slot", func(r *Raw) { r.Entities["device"] = RawKind{Patterns: []RawPattern{{Slot: "ROOM"}}} }, "unknown slot"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw := fixture()
			tc.mut(&raw)
			_, err := Compile(raw)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want substring %q", err, tc.want)
			}
		})
	}
}

func TestSplitterRegex(t *testing.T) {
	p, err := Compile(fixture())
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	got := p.Splitter.Split("lights on AND THEN fan off, android on", -1)
	want := []string{"lights on", "fan off", "android on"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("split = %q, want %q", got, want)
	}
}

func TestValidate_Schema(t *testing.T) {
	if err := Validate(embedded); err != nil {
		t.Fatalf("embedded rules fail schema: %v", err)
	}
	bad := []byte(`{"version":1,"scoring":{"base":2,"decay_step":0,"fallback_confidence":0,"multi_confidence":0}}`)
	if err := Validate(bad); err == nil {
		t.Fatalf("expected schema error")
	}
}

func TestLoadFile_YAML(t *testing.T) {
	doc := `
version: 1
scoring: {base: 0.9, decay_step: 0.1, fallback_confidence: 0.5, multi_confidence: 0.8}
intents:
  - {name: greet, pattern: '\bhello\b', priority: 2}
  - {name: bye, pattern: '\bbye\b', priority: 1}
fallback:
  - {keyword: hey, intent: greet}
languages:
  - {code: en, strong_weight: 3, common_weight: 1, strong: [hello]}
entities:
  numbers: {patterns: [{pattern: '\b(\d+)\b'}]}
states:
  on: true
splitter:
  markers: [",", and]
`
	path := filepath.Join(t.TempDir(), "mini.yaml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	p, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(p.Rules) != 2 || p.Rules[0].Name != "greet" {
		t.Fatalf("rules = %+v", p.Rules)
	}
	if !p.States["on"] {
		t.Fatalf("yaml key 'on' should stay a string key")
	}
	if c := p.Confidence(1); c < 0.79 || c > 0.81 {
		t.Fatalf("Confidence(1) = %v", c)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
