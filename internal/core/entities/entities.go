// Package entities pulls typed fragments (dates, times, places, contacts, numbers, devices,
// message and task bodies) out of an utterance.
//
// Each kind holds an ordered candidate list in the rule pack and the first candidate that
// yields an acceptable value wins. Regex candidates run on the cleaned, case-preserved text
// so proper-noun patterns can key on capitals; slot candidates run on the normalized text
// against the pack's vocabularies
package entities

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"vaani/internal/core/gazetteer"
	"vaani/internal/core/normalize"
	"vaani/internal/core/rulepack"
)

// Entities is the per-utterance extraction result; every field is optional
type Entities struct {
	Date     string `json:"date,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
	Contact  string `json:"contact,omitempty"`
	Numbers  []int  `json:"numbers,omitempty"`
	Value    *int   `json:"value,omitempty"`
	Device   string `json:"device,omitempty"`
	State    *bool  `json:"state,omitempty"`
	Duration *int   `json:"duration,omitempty"` // seconds
	Message  string `json:"message,omitempty"`
	Task     string `json:"task,omitempty"`
	Query    string `json:"query,omitempty"`
}

// Empty reports whether no kind was extracted
func (e Entities) Empty() bool { return len(e.Kinds()) == 0 }

// Kinds lists the extracted kinds in extraction order
func (e Entities) Kinds() []string {
	var out []string
	add := func(ok bool, k string) {
		if ok {
			out = append(out, k)
		}
	}
	add(e.Date != "", rulepack.KindDate)
	add(e.Time != "", rulepack.KindTime)
	add(e.Location != "", rulepack.KindLocation)
	add(e.Contact != "", rulepack.KindContact)
	add(len(e.Numbers) > 0, rulepack.KindNumbers)
	add(e.Value != nil, rulepack.KindValue)
	add(e.Device != "", rulepack.KindDevice)
	add(e.State != nil, rulepack.KindState)
	add(e.Duration != nil, rulepack.KindDuration)
	add(e.Message != "", rulepack.KindMessage)
	add(e.Task != "", rulepack.KindTask)
	add(e.Query != "", rulepack.KindQuery)
	return out
}

// Extractor is read-only after New and safe for concurrent use
type Extractor struct {
	p    *rulepack.Pack
	norm *normalize.Normalizer
	gaz  map[string]*gazetteer.Gazetteer
}

// New builds one gazetteer per pack slot
func New(p *rulepack.Pack) *Extractor {
	x := &Extractor{p: p, norm: normalize.New(), gaz: make(map[string]*gazetteer.Gazetteer, len(p.Slots))}
	for slot, aliases := range p.Slots {
		var entries []gazetteer.Entry
		for _, a := range aliases {
			for _, n := range a.Names {
				entries = append(entries, gazetteer.Entry{Phrase: n, ID: a.ID})
			}
		}
		x.gaz[slot] = gazetteer.New(entries)
	}
	return x
}

// Extract runs every kind over text
func (x *Extractor) Extract(text string) Entities {
	return x.ExtractFor(text, nil)
}

// ExtractFor runs only the kinds rule asks for; a nil rule or one with no list gets every kind
func (x *Extractor) ExtractFor(text string, rule *rulepack.Rule) Entities {
	var e Entities
	clean := x.norm.Clean(text)
	if clean == "" {
		return e
	}
	low := x.norm.Normalize(text)

	str := func(kind string, dst *string) {
		if rule.Wants(kind) {
			*dst, _ = x.first(kind, clean, low)
		}
	}
	str(rulepack.KindDate, &e.Date)
	str(rulepack.KindTime, &e.Time)
	str(rulepack.KindLocation, &e.Location)
	str(rulepack.KindContact, &e.Contact)

	wantNums, wantValue := rule.Wants(rulepack.KindNumbers), rule.Wants(rulepack.KindValue)
	if wantNums || wantValue {
		nums := x.numbers(clean)
		if wantNums {
			e.Numbers = nums
		}
		if wantValue && len(nums) == 1 {
			v := nums[0]
			e.Value = &v
		}
	}

	// state only means something next to a device, so the device lookup runs either way
	device, hasDevice := x.first(rulepack.KindDevice, clean, low)
	if rule.Wants(rulepack.KindDevice) {
		e.Device = device
	}
	if hasDevice && rule.Wants(rulepack.KindState) {
		e.State = x.state(clean, low)
	}
	if rule.Wants(rulepack.KindDuration) {
		e.Duration = x.duration(clean)
	}

	str(rulepack.KindMessage, &e.Message)
	str(rulepack.KindTask, &e.Task)
	str(rulepack.KindQuery, &e.Query)
	return e
}

// first returns the value of the first candidate pattern of kind that yields one
func (x *Extractor) first(kind, clean, low string) (string, bool) {
	k, ok := x.p.Entities[kind]
	if !ok {
		return "", false
	}
	for _, pat := range k.Patterns {
		if pat.Slot != "" {
			for _, m := range x.gaz[pat.Slot].All(low) {
				if !k.Excluded(m.Phrase) && !k.Excluded(m.ID) {
					return m.ID, true
				}
			}
			continue
		}
		for _, sm := range pat.Re.FindAllStringSubmatch(clean, -1) {
			v := tidy(capture(sm))
			if v == "" || k.Excluded(v) {
				continue
			}
			if k.Fold {
				v = x.norm.Normalize(v)
			}
			return v, true
		}
	}
	return "", false
}

// numbers collects every integer matched by the first numbers pattern that matches at all
func (x *Extractor) numbers(clean string) []int {
	k, ok := x.p.Entities[rulepack.KindNumbers]
	if !ok {
		return nil
	}
	for _, pat := range k.Patterns {
		if pat.Re == nil {
			continue
		}
		var out []int
		for _, sm := range pat.Re.FindAllStringSubmatch(clean, -1) {
			n, ok := parseCount(capture(sm))
			if !ok {
				continue
			}
			out = append(out, n)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// state maps the first on/off word the pack knows to a boolean
func (x *Extractor) state(clean, low string) *bool {
	k, ok := x.p.Entities[rulepack.KindState]
	if !ok {
		return nil
	}
	for _, pat := range k.Patterns {
		var words []string
		if pat.Slot != "" {
			for _, m := range x.gaz[pat.Slot].All(low) {
				words = append(words, m.ID)
			}
		} else {
			for _, sm := range pat.Re.FindAllStringSubmatch(clean, -1) {
				words = append(words, x.norm.Normalize(capture(sm)))
			}
		}
		for _, w := range words {
			if v, ok := x.p.States[w]; ok {
				return &v
			}
		}
	}
	return nil
}

// duration sums every "<n> <unit>" match of the first duration pattern that matches, in seconds
func (x *Extractor) duration(clean string) *int {
	k, ok := x.p.Entities[rulepack.KindDuration]
	if !ok {
		return nil
	}
	for _, pat := range k.Patterns {
		if pat.Re == nil {
			continue
		}
		total, hit := 0, false
		for _, sm := range pat.Re.FindAllStringSubmatch(clean, -1) {
			if len(sm) < 3 {
				continue
			}
			n, ok := parseCount(sm[1])
			if !ok {
				continue
			}
			unit, ok := x.p.Units[strings.ToLower(sm[2])]
			if !ok {
				continue
			}
			total = addSat(total, mulSat(n, unit))
			hit = true
		}
		if hit {
			return &total
		}
	}
	return nil
}

// capture prefers the first non-empty group and falls back to the whole match
func capture(sm []string) string {
	for _, g := range sm[1:] {
		if g != "" {
			return g
		}
	}
	return sm[0]
}

func tidy(v string) string {
	return strings.TrimRight(strings.TrimSpace(v), " .,!?;:")
}

// parseCount reads a run of digits; values past math.MaxInt saturate instead of dropping out
func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err == nil {
		return n, true
	}
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(s, "-") {
		return math.MaxInt, true
	}
	return 0, false
}

// mulSat and addSat work on non-negative counts and stop at math.MaxInt
func mulSat(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
