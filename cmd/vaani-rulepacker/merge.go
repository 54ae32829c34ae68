package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"vaani/internal/core/rulepack"
)

// fragment is an intent add-on; later fragments override earlier ones by intent name
type fragment struct {
	path string

	Intents  []rulepack.RawIntent          `json:"intents"`
	Fallback []rulepack.RawKeyword         `json:"fallback"`
	Slots    map[string]rulepack.SlotBlock `json:"slots"`
	States   map[string]bool               `json:"states"`
	Units    map[string]int                `json:"units"`
	Markers  []string                      `json:"markers"`
}

func readCore(path string) (rulepack.Raw, error) {
	if path == "" {
		return rulepack.Decode(rulepack.Embedded())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return rulepack.Raw{}, fmt.Errorf("read core: %w", err)
	}
	doc, err := rulepack.ToJSON(path, b)
	if err != nil {
		return rulepack.Raw{}, err
	}
	raw, err := rulepack.Decode(doc)
	if err != nil {
		return rulepack.Raw{}, fmt.Errorf("core %s: %w", path, err)
	}
	return raw, nil
}

func isFragment(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// findFragments walks root and returns fragment paths in lexical order
func findFragments(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isFragment(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func readFragment(path string) (fragment, error) {
	var f fragment
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	doc, err := rulepack.ToJSON(path, b)
	if err != nil {
		return f, err
	}
	dec := json.NewDecoder(bytes.NewReader(doc))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("decode %s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// merge folds fragments into base in the given order.
// Intents replace by name or append, fallback keywords keep the first declaration,
// slot aliases merge names by id, and maps take the later value
func merge(base rulepack.Raw, frags []fragment) (rulepack.Raw, []string) {
	var warnings []string
	out := base
	out.Intents = append([]rulepack.RawIntent(nil), base.Intents...)
	out.Fallback = append([]rulepack.RawKeyword(nil), base.Fallback...)
	out.Splitter.Markers = append([]string(nil), base.Splitter.Markers...)
	out.Slots = cloneSlots(base.Slots)
	out.States = maps.Clone(base.States)
	out.Units = maps.Clone(base.Units)

	byName := make(map[string]int, len(out.Intents))
	for i, in := range out.Intents {
		byName[in.Name] = i
	}
	seenKW := make(map[string]bool, len(out.Fallback))
	for _, k := range out.Fallback {
		seenKW[strings.ToLower(k.Keyword)] = true
	}
	seenMarker := make(map[string]bool, len(out.Splitter.Markers))
	for _, m := range out.Splitter.Markers {
		seenMarker[strings.ToLower(m)] = true
	}

	for _, f := range frags {
		for _, in := range f.Intents {
			if i, ok := byName[in.Name]; ok {
				warnings = append(warnings, fmt.Sprintf("%s: intent %q overrides an earlier definition", f.path, in.Name))
				out.Intents[i] = in
				continue
			}
			byName[in.Name] = len(out.Intents)
			out.Intents = append(out.Intents, in)
		}
		for _, k := range f.Fallback {
			key := strings.ToLower(strings.TrimSpace(k.Keyword))
			if key == "" || seenKW[key] {
				continue
			}
			seenKW[key] = true
			out.Fallback = append(out.Fallback, k)
		}
		for _, m := range f.Markers {
			key := strings.ToLower(strings.TrimSpace(m))
			if key == "" || seenMarker[key] {
				continue
			}
			seenMarker[key] = true
			out.Splitter.Markers = append(out.Splitter.Markers, m)
		}
		for name, blk := range f.Slots {
			if out.Slots == nil {
				out.Slots = map[string]rulepack.SlotBlock{}
			}
			out.Slots[name] = mergeSlot(out.Slots[name], blk)
		}
		if len(f.States) > 0 {
			if out.States == nil {
				out.States = map[string]bool{}
			}
			maps.Copy(out.States, f.States)
		}
		if len(f.Units) > 0 {
			if out.Units == nil {
				out.Units = map[string]int{}
			}
			maps.Copy(out.Units, f.Units)
		}
	}
	return out, warnings
}

func cloneSlots(in map[string]rulepack.SlotBlock) map[string]rulepack.SlotBlock {
	if in == nil {
		return nil
	}
	out := make(map[string]rulepack.SlotBlock, len(in))
	for k, v := range in {
		out[k] = mergeSlot(rulepack.SlotBlock{}, v)
	}
	return out
}

// mergeSlot appends src aliases to dst, joining names for a shared id
func mergeSlot(dst, src rulepack.SlotBlock) rulepack.SlotBlock {
	out := rulepack.SlotBlock{Aliases: make([]rulepack.SlotAlias, 0, len(dst.Aliases)+len(src.Aliases))}
	idx := map[string]int{}
	add := func(a rulepack.SlotAlias) {
		i, ok := idx[a.ID]
		if !ok {
			idx[a.ID] = len(out.Aliases)
			out.Aliases = append(out.Aliases, rulepack.SlotAlias{ID: a.ID})
			i = len(out.Aliases) - 1
		}
		for _, n := range a.Names {
			if !containsFold(out.Aliases[i].Names, n) {
				out.Aliases[i].Names = append(out.Aliases[i].Names, n)
			}
		}
	}
	for _, a := range dst.Aliases {
		add(a)
	}
	for _, a := range src.Aliases {
		add(a)
	}
	return out
}

func containsFold(xs []string, s string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, s) {
			return true
		}
	}
	return false
}

// build encodes the merged pack, then validates it against the schema and compiles it
func build(raw rulepack.Raw, pretty bool) ([]byte, *rulepack.Pack, error) {
	var (
		enc []byte
		err error
	)
	if pretty {
		enc, err = json.MarshalIndent(raw, "", "  ")
	} else {
		enc, err = json.Marshal(raw)
	}
	if err != nil {
		return nil, nil, err
	}
	pk, err := rulepack.Parse(enc)
	if err != nil {
		return nil, nil, err
	}
	return enc, pk, nil
}

// writeDump prints rules in match order
func writeDump(w io.Writer, pk *rulepack.Pack) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "#\tINTENT\tPRIORITY\tCONFIDENCE")
	for i, r := range pk.Rules {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\t%.2f\n", i+1, r.Name, r.Priority, pk.Confidence(r.Priority))
	}
	return tw.Flush()
}
