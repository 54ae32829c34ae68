// Command vaani-cli runs the pipeline over arguments or stdin lines and prints one JSON object per utterance
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"vaani/internal/core/entities"
	"vaani/internal/core/intent"
	"vaani/internal/core/langdetect"
	"vaani/internal/core/pipeline"
	"vaani/internal/core/rulepack"
	"vaani/internal/core/version"
)

// stages is the output when one or more inspection flags are set
type stages struct {
	Text     string                `json:"text"`
	Language *langdetect.Detection `json:"language,omitempty"`
	Intent   *intent.Match         `json:"intent,omitempty"`
	Entities *entities.Entities    `json:"entities,omitempty"`
	Parts    []string              `json:"parts,omitempty"`
}

type opts struct {
	lang, intent, entities, split bool
	pretty                        bool
	rules                         string
	version                       bool
}

func (o opts) inspecting() bool { return o.lang || o.intent || o.entities || o.split }

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vaani-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o opts
	fs.BoolVar(&o.lang, "lang", false, "print the language detection only")
	fs.BoolVar(&o.intent, "intent", false, "print the single intent match only")
	fs.BoolVar(&o.entities, "entities", false, "print the extracted entities only")
	fs.BoolVar(&o.split, "split", false, "print the clause split only")
	fs.BoolVar(&o.pretty, "pretty", false, "pretty-print JSON")
	fs.StringVar(&o.rules, "rules", "", "rule pack file (.json, .yaml); default is the embedded pack")
	fs.BoolVar(&o.version, "version", false, "print build info and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var pk *rulepack.Pack
	var err error
	if o.rules != "" {
		pk, err = rulepack.LoadFile(o.rules)
	} else {
		pk, err = rulepack.Load()
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	if o.pretty {
		enc.SetIndent("", "  ")
	}

	if o.version {
		if err := enc.Encode(version.Info("vaani-cli").WithRules(pk.Version)); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
		return 0
	}

	p := pipeline.New(pk)
	emit := func(text string) error {
		if !o.inspecting() {
			return enc.Encode(p.Process(text))
		}
		out := stages{Text: text}
		if o.lang {
			d := p.Language(text)
			out.Language = &d
		}
		if o.intent {
			m := p.Intent(text)
			out.Intent = &m
		}
		if o.entities {
			e := p.Entities(text)
			out.Entities = &e
		}
		if o.split {
			out.Parts = p.Split(text)
		}
		return enc.Encode(out)
	}

	if fs.NArg() > 0 {
		for _, a := range fs.Args() {
			if err := emit(a); err != nil {
				_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
				return 1
			}
		}
		return 0
	}

	sc := bufio.NewScanner(stdin)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if err := emit(line); err != nil {
			_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}
	if err := sc.Err(); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: read stdin: %v\n", err)
		return 1
	}
	return 0
}
