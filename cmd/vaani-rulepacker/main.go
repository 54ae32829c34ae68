// Command vaani-rulepacker merges a core rule pack with intent fragments into one rules.json
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vaani-rulepacker", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		core    = fs.String("core", "", "core pack (.json, .yaml); empty uses the embedded pack")
		frags   = fs.String("fragments", "", "directory of .json/.yaml intent fragments, walked recursively")
		out     = fs.String("out", "./internal/core/rulepack/rules.json", "output path or '-' for stdout")
		pretty  = fs.Bool("pretty", true, "pretty-print JSON")
		check   = fs.Bool("check", false, "validate and compile without writing")
		dump    = fs.Bool("dump", false, "print the sorted rule order with derived confidences")
		verbose = fs.Bool("v", false, "verbose logging")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	fail := func(err error) int {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	base, err := readCore(strings.TrimSpace(*core))
	if err != nil {
		return fail(err)
	}

	var paths []string
	if dir := strings.TrimSpace(*frags); dir != "" {
		if paths, err = findFragments(dir); err != nil {
			return fail(err)
		}
	}
	fragments := make([]fragment, 0, len(paths))
	for _, p := range paths {
		f, err := readFragment(p)
		if err != nil {
			return fail(err)
		}
		fragments = append(fragments, f)
	}

	merged, warnings := merge(base, fragments)
	for _, w := range warnings {
		_, _ = fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	enc, pk, err := build(merged, *pretty)
	if err != nil {
		return fail(err)
	}
	if *verbose {
		_, _ = fmt.Fprintf(stderr, "merged %d fragments, %d intents\n", len(fragments), len(pk.Rules))
	}

	if *dump {
		if err := writeDump(stdout, pk); err != nil {
			return fail(err)
		}
	}
	if *check {
		_, _ = fmt.Fprintf(stderr, "ok: %d intents, %d languages\n", len(pk.Rules), len(pk.Languages))
		return 0
	}
	if *dump && *out == "-" {
		return 0
	}

	if *out == "-" {
		if _, err := stdout.Write(append(enc, '\n')); err != nil {
			return fail(err)
		}
		return 0
	}
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fail(err)
	}
	if err := os.WriteFile(*out, append(enc, '\n'), 0o644); err != nil {
		return fail(err)
	}
	if *verbose {
		_, _ = fmt.Fprintf(stderr, "wrote %s (%d bytes)\n", *out, len(enc)+1)
	}
	return 0
}
