// Package rulepack loads and compiles the intent, language and entity tables from rules.json.
// A compiled Pack is read-only and safe to share between goroutines
package rulepack

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Version is the only rules.json version this package understands
const Version = 1

// Reserved intent names produced by the pipeline itself
const (
	IntentUnknown = "unknown"
	IntentMulti   = "multi_intent"
)

// Entity kinds understood by the extractor
const (
	KindDate     = "date"
	KindTime     = "time"
	KindLocation = "location"
	KindContact  = "contact"
	KindNumbers  = "numbers"
	KindValue    = "value"
	KindDevice   = "device"
	KindState    = "state"
	KindDuration = "duration"
	KindMessage  = "message"
	KindTask     = "task"
	KindQuery    = "query"
)

// PatternKinds lists the kinds backed by pattern lists, in extraction order
var PatternKinds = []string{
	KindDate, KindTime, KindLocation, KindContact, KindNumbers, KindDevice,
	KindState, KindDuration, KindMessage, KindTask, KindQuery,
}

// unitSlot is synthesized from the units table
const unitSlot = "UNIT"

var slotRef = regexp.MustCompile(`\{([A-Z][A-Z0-9_]*)\}`)

// Raw mirrors rules.json
type Raw struct {
	Version   int                  `json:"version"`
	Name      string               `json:"name,omitempty"`
	Meta      map[string]any       `json:"meta,omitempty"`
	Scoring   RawScoring           `json:"scoring"`
	Slots     map[string]SlotBlock `json:"slots,omitempty"`
	Intents   []RawIntent          `json:"intents"`
	Fallback  []RawKeyword         `json:"fallback,omitempty"`
	Languages []RawLanguage        `json:"languages"`
	Entities  map[string]RawKind   `json:"entities"`
	States    map[string]bool      `json:"states,omitempty"`
	Units     map[string]int       `json:"units,omitempty"`
	Splitter  RawSplitter          `json:"splitter"`
}

// RawScoring holds the confidence constants
type RawScoring struct {
	Base               float64 `json:"base"`
	DecayStep          float64 `json:"decay_step"`
	FallbackConfidence float64 `json:"fallback_confidence"`
	MultiConfidence    float64 `json:"multi_confidence"`
}

// SlotAlias maps a canonical id to its surface names
type SlotAlias struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

// SlotBlock is a named vocabulary
type SlotBlock struct {
	Aliases []SlotAlias `json:"aliases"`
}

// RawIntent is one declared intent rule
type RawIntent struct {
	Name     string   `json:"name"`
	Pattern  string   `json:"pattern"`
	Priority int      `json:"priority"`
	Entities []string `json:"entities,omitempty"`
	Examples []string `json:"examples,omitempty"`
}

// RawKeyword is one fallback keyword
type RawKeyword struct {
	Keyword string `json:"keyword"`
	Intent  string `json:"intent"`
}

// RawMarker is a grammar marker with its bonus
type RawMarker struct {
	Pattern string  `json:"pattern"`
	Bonus   float64 `json:"bonus"`
}

// RawLanguage is one language cue profile
type RawLanguage struct {
	Code           string      `json:"code"`
	Name           string      `json:"name,omitempty"`
	StrongWeight   float64     `json:"strong_weight"`
	CommonWeight   float64     `json:"common_weight"`
	SharedDiscount float64     `json:"shared_discount,omitempty"`
	Strong         []string    `json:"strong,omitempty"`
	Common         []string    `json:"common,omitempty"`
	Shared         []string    `json:"shared,omitempty"`
	Verbs          []string    `json:"verbs,omitempty"`
	VerbPosition   string      `json:"verb_position,omitempty"`
	VerbBonus      float64     `json:"verb_bonus,omitempty"`
	Markers        []RawMarker `json:"markers,omitempty"`
	Script         string      `json:"script,omitempty"`
	ScriptBonus    float64     `json:"script_bonus,omitempty"`
}

// RawPattern is either a regex or a slot lookup
type RawPattern struct {
	Pattern string `json:"pattern,omitempty"`
	Slot    string `json:"slot,omitempty"`
}

// RawKind is the ordered candidate list for one entity kind
type RawKind struct {
	Patterns []RawPattern `json:"patterns"`
	Exclude  []string     `json:"exclude,omitempty"`
	Fold     bool         `json:"fold,omitempty"`
}

// RawSplitter lists clause separators
type RawSplitter struct {
	Markers []string `json:"markers"`
}

// Rule is a compiled intent rule
type Rule struct {
	Name     string
	Priority int
	Order    int // declaration index, the tie-break for equal priorities
	Pattern  string
	Re       *regexp.Regexp
	Entities []string
}

// Wants reports whether the rule asks for entity kind k; a nil rule or an empty list wants all
func (r *Rule) Wants(k string) bool {
	if r == nil || len(r.Entities) == 0 {
		return true
	}
	for _, e := range r.Entities {
		if e == k {
			return true
		}
	}
	return false
}

// Keyword is a fallback keyword
type Keyword struct {
	Word   string
	Intent string
}

// Scoring holds the confidence constants
type Scoring struct {
	Base               float64
	DecayStep          float64
	FallbackConfidence float64
	MultiConfidence    float64
}

// Position is where a verb cue earns its bonus
type Position string

const (
	// PositionStart favors SVO languages
	PositionStart Position = "start"
	// PositionEnd favors SOV languages
	PositionEnd Position = "end"
)

// Marker is a compiled grammar marker
type Marker struct {
	Pattern string
	Re      *regexp.Regexp
	Bonus   float64
}

// Language is a compiled cue profile
type Language struct {
	Code           string
	Name           string
	StrongWeight   float64
	CommonWeight   float64
	SharedDiscount float64
	Strong         map[string]struct{}
	Common         map[string]struct{}
	Shared         map[string]struct{}
	Verbs          map[string]struct{}
	VerbPosition   Position
	VerbBonus      float64
	Markers        []Marker
	ScriptName     string
	Script         *unicode.RangeTable
	ScriptBonus    float64
}

// EntityPattern is one candidate of an entity kind; exactly one of Re or Slot is set
type EntityPattern struct {
	Pattern string
	Re      *regexp.Regexp
	Slot    string
}

// EntityKind is the ordered candidate list for a kind
type EntityKind struct {
	Name     string
	Patterns []EntityPattern
	Exclude  map[string]struct{}
	Fold     bool
}

// Excluded reports whether v is on the kind's exclude list
func (k EntityKind) Excluded(v string) bool {
	_, ok := k.Exclude[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// Pack is the compiled, immutable rule pack
type Pack struct {
	Version int
	Name    string
	Meta    map[string]any

	Scoring     Scoring
	Rules       []Rule // priority descending, declaration order within a priority
	MaxPriority int

	Fallback      []Keyword
	FallbackIndex map[string]string // keyword -> intent, first declaration wins

	Languages []Language // first is the default

	Entities map[string]EntityKind
	States   map[string]bool
	Units    map[string]int

	Slots    map[string][]SlotAlias
	slotFlat map[string][]string
	slotIDs  map[string]map[string]string

	SplitMarkers []string
	Splitter     *regexp.Regexp
}

// Default returns the default language code
func (p *Pack) Default() string { return p.Languages[0].Code }

// Intents returns the distinct intent names in rule order
func (p *Pack) Intents() []string {
	seen := make(map[string]struct{}, len(p.Rules))
	out := make([]string, 0, len(p.Rules))
	for _, r := range p.Rules {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		out = append(out, r.Name)
	}
	return out
}

// Confidence maps a rule priority to its confidence, clamped to [0,1]
func (p *Pack) Confidence(priority int) float64 {
	c := p.Scoring.Base - float64(p.MaxPriority-priority)*p.Scoring.DecayStep
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

// SlotNames returns the lowercased surface names of slot, longest first
func (p *Pack) SlotNames(slot string) []string { return p.slotFlat[slot] }

// SlotID maps a surface name to its canonical id within slot
func (p *Pack) SlotID(slot, name string) (string, bool) {
	id, ok := p.slotIDs[slot][strings.ToLower(strings.Join(strings.Fields(name), " "))]
	return id, ok
}

// Compile turns a raw document into a Pack
func Compile(rp Raw) (*Pack, error) {
	if rp.Version != Version {
		return nil, fmt.Errorf("rulepack: unsupported rules version %d (want %d)", rp.Version, Version)
	}
	if err := checkScoring(rp.Scoring); err != nil {
		return nil, err
	}

	p := &Pack{
		Version:       rp.Version,
		Name:          rp.Name,
		Meta:          rp.Meta,
		Scoring:       Scoring(rp.Scoring),
		FallbackIndex: make(map[string]string, len(rp.Fallback)),
		Entities:      make(map[string]EntityKind, len(rp.Entities)),
		States:        make(map[string]bool, len(rp.States)),
		Units:         make(map[string]int, len(rp.Units)),
		Slots:         make(map[string][]SlotAlias, len(rp.Slots)+1),
	}

	for k, v := range rp.States {
		p.States[strings.ToLower(k)] = v
	}
	for k, v := range rp.Units {
		if v <= 0 {
			return nil, fmt.Errorf("rulepack: unit %q must be positive", k)
		}
		p.Units[strings.ToLower(k)] = v
	}

	for name, blk := range rp.Slots {
		p.Slots[name] = blk.Aliases
	}
	if len(p.Units) > 0 {
		if _, taken := p.Slots[unitSlot]; !taken {
			p.Slots[unitSlot] = unitAliases(p.Units)
		}
	}
	p.slotFlat, p.slotIDs = flattenSlots(p.Slots)

	if err := p.compileIntents(rp.Intents); err != nil {
		return nil, err
	}
	if err := p.compileFallback(rp.Fallback); err != nil {
		return nil, err
	}
	if err := p.compileLanguages(rp.Languages); err != nil {
		return nil, err
	}
	if err := p.compileEntities(rp.Entities); err != nil {
		return nil, err
	}
	if err := p.compileSplitter(rp.Splitter.Markers); err != nil {
		return nil, err
	}
	return p, nil
}

func checkScoring(s RawScoring) error {
	switch {
	case s.Base <= 0 || s.Base > 1:
		return fmt.Errorf("rulepack: scoring.base %v out of (0,1]", s.Base)
	case s.DecayStep < 0:
		return fmt.Errorf("rulepack: scoring.decay_step %v is negative", s.DecayStep)
	case s.FallbackConfidence < 0 || s.FallbackConfidence > 1:
		return fmt.Errorf("rulepack: scoring.fallback_confidence %v out of [0,1]", s.FallbackConfidence)
	case s.MultiConfidence < 0 || s.MultiConfidence > 1:
		return fmt.Errorf("rulepack: scoring.multi_confidence %v out of [0,1]", s.MultiConfidence)
	}
	return nil
}

func (p *Pack) compileIntents(in []RawIntent) error {
	if len(in) == 0 {
		return fmt.Errorf("rulepack: no intents")
	}
	p.Rules = make([]Rule, 0, len(in))
	for i, ri := range in {
		name := strings.TrimSpace(ri.Name)
		switch name {
		case "":
			return fmt.Errorf("rulepack: intent %d has no name", i)
		case IntentUnknown, IntentMulti:
			return fmt.Errorf("rulepack: intent name %q is reserved", name)
		}
		if ri.Priority < 0 {
			return fmt.Errorf("rulepack: intent %q has negative priority", name)
		}
		for _, k := range ri.Entities {
			if !knownKind(k) {
				return fmt.Errorf("rulepack: intent %q wants unknown entity kind %q", name, k)
			}
		}
		exp, err := p.expandSlots(ri.Pattern)
		if err != nil {
			return fmt.Errorf("rulepack: intent %q: %w", name, err)
		}
		re, err := regexp.Compile("(?i)" + exp)
		if err != nil {
			return fmt.Errorf("rulepack: intent %q: compile: %w", name, err)
		}
		p.Rules = append(p.Rules, Rule{
			Name:     name,
			Priority: ri.Priority,
			Order:    i,
			Pattern:  exp,
			Re:       re,
			Entities: append([]string(nil), ri.Entities...),
		})
		if ri.Priority > p.MaxPriority {
			p.MaxPriority = ri.Priority
		}
	}

	// stable keeps declaration order for equal priorities
	sort.SliceStable(p.Rules, func(i, j int) bool {
		return p.Rules[i].Priority > p.Rules[j].Priority
	})
	return nil
}

func (p *Pack) compileFallback(in []RawKeyword) error {
	known := make(map[string]struct{}, len(p.Rules))
	for _, r := range p.Rules {
		known[r.Name] = struct{}{}
	}
	for _, kw := range in {
		w := strings.ToLower(strings.TrimSpace(kw.Keyword))
		if w == "" || strings.ContainsAny(w, " \t\n") {
			return fmt.Errorf("rulepack: fallback keyword %q must be a single word", kw.Keyword)
		}
		if _, ok := known[kw.Intent]; !ok {
			return fmt.Errorf("rulepack: fallback keyword %q points at unknown intent %q", w, kw.Intent)
		}
		if _, dup := p.FallbackIndex[w]; dup {
			continue
		}
		p.FallbackIndex[w] = kw.Intent
		p.Fallback = append(p.Fallback, Keyword{Word: w, Intent: kw.Intent})
	}
	return nil
}

func (p *Pack) compileLanguages(in []RawLanguage) error {
	if len(in) == 0 {
		return fmt.Errorf("rulepack: no languages")
	}
	seen := make(map[string]struct{}, len(in))
	for _, rl := range in {
		code := strings.ToLower(strings.TrimSpace(rl.Code))
		if code == "" {
			return fmt.Errorf("rulepack: language without code")
		}
		if _, dup := seen[code]; dup {
			return fmt.Errorf("rulepack: duplicate language %q", code)
		}
		seen[code] = struct{}{}

		for _, w := range []float64{rl.StrongWeight, rl.CommonWeight, rl.VerbBonus, rl.ScriptBonus} {
			if w < 0 {
				return fmt.Errorf("rulepack: language %q has a negative weight", code)
			}
		}
		discount := rl.SharedDiscount
		if discount == 0 {
			discount = 1
		}
		if discount < 0 || discount > 1 {
			return fmt.Errorf("rulepack: language %q shared_discount %v out of [0,1]", code, discount)
		}

		lang := Language{
			Code:           code,
			Name:           rl.Name,
			StrongWeight:   rl.StrongWeight,
			CommonWeight:   rl.CommonWeight,
			SharedDiscount: discount,
			Strong:         wordSet(rl.Strong),
			Common:         wordSet(rl.Common),
			Shared:         wordSet(rl.Shared),
			Verbs:          wordSet(rl.Verbs),
			VerbPosition:   Position(rl.VerbPosition),
			VerbBonus:      rl.VerbBonus,
			ScriptBonus:    rl.ScriptBonus,
		}
		switch lang.VerbPosition {
		case "", PositionStart, PositionEnd:
		default:
			return fmt.Errorf("rulepack: language %q has bad verb_position %q", code, rl.VerbPosition)
		}
		if rl.Script != "" {
			tbl, ok := unicode.Scripts[rl.Script]
			if !ok {
				return fmt.Errorf("rulepack: language %q names unknown script %q", code, rl.Script)
			}
			lang.ScriptName, lang.Script = rl.Script, tbl
		}
		for _, m := range rl.Markers {
			if m.Bonus < 0 {
				return fmt.Errorf("rulepack: language %q marker %q has negative bonus", code, m.Pattern)
			}
			re, err := regexp.Compile(m.Pattern)
			if err != nil {
				return fmt.Errorf("rulepack: language %q marker: %w", code, err)
			}
			lang.Markers = append(lang.Markers, Marker{Pattern: m.Pattern, Re: re, Bonus: m.Bonus})
		}
		p.Languages = append(p.Languages, lang)
	}
	return nil
}

func (p *Pack) compileEntities(in map[string]RawKind) error {
	for name, rk := range in {
		if !knownKind(name) || name == KindValue {
			return fmt.Errorf("rulepack: unknown entity kind %q", name)
		}
		kind := EntityKind{Name: name, Exclude: wordSet(rk.Exclude), Fold: rk.Fold}
		for i, rpat := range rk.Patterns {
			switch {
			case rpat.Slot != "" && rpat.Pattern != "":
				return fmt.Errorf("rulepack: entity %q pattern %d sets both slot and pattern", name, i)
			case rpat.Slot != "":
				if _, ok := p.Slots[rpat.Slot]; !ok {
					return fmt.Errorf("rulepack: entity %q references unknown slot %q", name, rpat.Slot)
				}
				kind.Patterns = append(kind.Patterns, EntityPattern{Slot: rpat.Slot})
			case rpat.Pattern != "":
				exp, err := p.expandSlots(rpat.Pattern)
				if err != nil {
					return fmt.Errorf("rulepack: entity %q: %w", name, err)
				}
				re, err := regexp.Compile(exp)
				if err != nil {
					return fmt.Errorf("rulepack: entity %q: compile: %w", name, err)
				}
				kind.Patterns = append(kind.Patterns, EntityPattern{Pattern: exp, Re: re})
			default:
				return fmt.Errorf("rulepack: entity %q pattern %d is empty", name, i)
			}
		}
		p.Entities[name] = kind
	}
	if _, ok := p.Entities[KindDuration]; ok && len(p.Units) == 0 {
		return fmt.Errorf("rulepack: duration patterns need a units table")
	}
	return nil
}

func (p *Pack) compileSplitter(markers []string) error {
	if len(markers) == 0 {
		return fmt.Errorf("rulepack: splitter has no markers")
	}
	ms := make([]string, 0, len(markers))
	for _, m := range markers {
		m = strings.ToLower(strings.Join(strings.Fields(m), " "))
		if m == "" {
			continue
		}
		ms = append(ms, m)
	}
	if len(ms) == 0 {
		return fmt.Errorf("rulepack: splitter has no markers")
	}
	p.SplitMarkers = ms

	// longest first so "and then" wins over "and"
	ordered := append([]string(nil), ms...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i]) > len(ordered[j]) })

	alts := make([]string, 0, len(ordered))
	for _, m := range ordered {
		alts = append(alts, markerExpr(m))
	}
	re, err := regexp.Compile(`(?i)\s*(?:` + strings.Join(alts, "|") + `)\s*`)
	if err != nil {
		return fmt.Errorf("rulepack: splitter: %w", err)
	}
	p.Splitter = re
	return nil
}

// markerExpr quotes a marker, bounding word markers so "and" never splits "android"
func markerExpr(m string) string {
	words := strings.Fields(m)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	expr := strings.Join(words, `\s+`)
	r := []rune(m)
	if isASCIIWord(r[0]) {
		expr = `\b` + expr
	}
	if isASCIIWord(r[len(r)-1]) {
		expr += `\b`
	}
	return expr
}

func isASCIIWord(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}

// expandSlots replaces {NAME} with a non-capturing group of the slot's quoted names.
// Multi-word names match any whitespace run; an unknown slot is an error
func (p *Pack) expandSlots(pattern string) (string, error) {
	var missing string
	out := slotRef.ReplaceAllStringFunc(pattern, func(tok string) string {
		name := tok[1 : len(tok)-1]
		names := p.slotFlat[name]
		if len(names) == 0 {
			if missing == "" {
				missing = name
			}
			return tok
		}
		parts := make([]string, 0, len(names))
		for _, n := range names {
			words := strings.Fields(n)
			for i, w := range words {
				words[i] = regexp.QuoteMeta(w)
			}
			parts = append(parts, strings.Join(words, `\s+`))
		}
		return "(?:" + strings.Join(parts, "|") + ")"
	})
	if missing != "" {
		return "", fmt.Errorf("unknown slot {%s} in %q", missing, pattern)
	}
	return out, nil
}

// flattenSlots lowercases and dedupes names per slot, longest first, and indexes name -> id
func flattenSlots(in map[string][]SlotAlias) (map[string][]string, map[string]map[string]string) {
	flat := make(map[string][]string, len(in))
	ids := make(map[string]map[string]string, len(in))
	for slot, aliases := range in {
		idx := make(map[string]string, 32)
		var acc []string
		for _, a := range aliases {
			id := strings.TrimSpace(a.ID)
			if id == "" {
				continue
			}
			for _, nm := range a.Names {
				nm = strings.ToLower(strings.Join(strings.Fields(nm), " "))
				if nm == "" {
					continue
				}
				if _, ok := idx[nm]; ok {
					continue
				}
				idx[nm] = id
				acc = append(acc, nm)
			}
		}
		sort.SliceStable(acc, func(i, j int) bool { return len(acc[i]) > len(acc[j]) })
		flat[slot] = acc
		ids[slot] = idx
	}
	return flat, ids
}

func unitAliases(units map[string]int) []SlotAlias {
	names := make([]string, 0, len(units))
	for k := range units {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]SlotAlias, 0, len(names))
	for _, n := range names {
		out = append(out, SlotAlias{ID: n, Names: []string{n}})
	}
	return out
}

func wordSet(xs []string) map[string]struct{} {
	out := make(map[string]struct{}, len(xs))
	for _, x := range xs {
		x = strings.ToLower(strings.TrimSpace(x))
		if x != "" {
			out[x] = struct{}{}
		}
	}
	return out
}

func knownKind(k string) bool {
	if k == KindValue {
		return true
	}
	for _, pk := range PatternKinds {
		if pk == k {
			return true
		}
	}
	return false
}
