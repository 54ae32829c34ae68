// Package gazetteer finds fixed-vocabulary phrases (device names, rooms, relations)
// in normalized text with an Aho-Corasick scan and token-boundary checks
package gazetteer

import (
	"sort"
	"strings"
)

// Entry is a surface phrase and the canonical id it resolves to
type Entry struct {
	Phrase string
	ID     string
}

// Match is a bounded occurrence of an entry; Start and End are byte offsets into the scanned text
type Match struct {
	Phrase string
	ID     string
	Start  int
	End    int
}

// Gazetteer is immutable after New and safe for concurrent use
type Gazetteer struct {
	ac      *automaton
	entries []Entry
}

// New builds a gazetteer; phrases are lowercased and inner whitespace collapsed, empties and
// duplicates are dropped (first id wins)
func New(entries []Entry) *Gazetteer {
	g := &Gazetteer{ac: newAutomaton()}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		ph := strings.ToLower(strings.Join(strings.Fields(e.Phrase), " "))
		if ph == "" {
			continue
		}
		if _, dup := seen[ph]; dup {
			continue
		}
		seen[ph] = struct{}{}
		g.ac.add([]byte(ph), int32(len(g.entries)))
		g.entries = append(g.entries, Entry{Phrase: ph, ID: e.ID})
	}
	g.ac.build()
	return g
}

// Len returns the number of distinct phrases
func (g *Gazetteer) Len() int { return len(g.entries) }

// First returns the leftmost match, the longest one when several start at the same offset
func (g *Gazetteer) First(text string) (Match, bool) {
	cands := g.candidates(text)
	if len(cands) == 0 {
		return Match{}, false
	}
	return cands[0], true
}

// All returns non-overlapping matches left to right, longest first at each offset
func (g *Gazetteer) All(text string) []Match {
	cands := g.candidates(text)
	out := cands[:0]
	last := -1
	for _, m := range cands {
		if m.Start < last {
			continue
		}
		out = append(out, m)
		last = m.End
	}
	return out
}

func (g *Gazetteer) candidates(text string) []Match {
	if text == "" || len(g.entries) == 0 {
		return nil
	}
	var cands []Match
	g.ac.scan([]byte(text), func(end int, id int32) bool {
		e := g.entries[id]
		start := end - len(e.Phrase)
		if bounded(text, start, end) {
			cands = append(cands, Match{Phrase: e.Phrase, ID: e.ID, Start: start, End: end})
		}
		return true
	})
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Start != cands[j].Start {
			return cands[i].Start < cands[j].Start
		}
		return cands[i].End > cands[j].End
	})
	return cands
}
