package config

// This file contains the configuration composer: selecting one fragment
// per category and merging fragments, root scalars and caller overrides
// into a single flat, fully-substituted configuration.

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selection maps categories to the fragment name to compose. Categories
// absent from the selection fall back to the store's declared defaults.
type Selection map[string]string

// Strategy controls how a fragment-declared value merges over a
// root-declared value of the same key.
type Strategy int

const (
	// Overwrite replaces the root value with the fragment value.
	Overwrite Strategy = iota
	// Append concatenates list values, root first.
	Append
)

// mergeStrategies assigns an explicit strategy per fragment key.
// Runtime lines are additive so a global policy (e.g. a stopping
// criterion) and a per-variant addition can coexist.
var mergeStrategies = map[string]Strategy{
	"suffix": Overwrite,
	"lines":  Append,
}

// BlockRuntime is the resolved key holding the merged runtime lines.
const BlockRuntime = "runtime"

// Resolved is the flat, fully-merged configuration for one run. It is a
// pure value: every ${ref} substitution is applied during composition,
// and nothing mutates it afterwards.
type Resolved struct {
	Title      string `yaml:"title"`
	Executable string `yaml:"executable"`
	WorkDir    string `yaml:"workdir"`
	Basename   string `yaml:"basename"`
	Suffix     string `yaml:"suffix"`

	// Selections records which fragment was composed per category.
	Selections map[string]string `yaml:"selections"`

	// Vars carries substitution variables plus any unrecognized
	// override keys passed through untyped.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Blocks holds the ordered script lines per block name: physical,
	// radiation, runtime and saves.
	Blocks map[string][]string `yaml:"blocks"`
}

// Encode serializes the resolved configuration to YAML. Map keys are
// emitted in sorted order, so encoding the same value twice yields
// byte-identical output.
func (r *Resolved) Encode() ([]byte, error) {
	return yaml.Marshal(r)
}

// Compose selects one fragment per category, merges them with the root
// context, applies caller overrides and substitutes all ${ref}
// references. Overrides win over fragment values, fragment values win
// over root values, except list-valued runtime lines which concatenate
// root-first per the Append strategy.
func Compose(store *Store, sel Selection, overrides map[string]string) (*Resolved, error) {
	root := store.Root

	// Reject selections against unknown categories before any lookup.
	for category := range sel {
		if !IsCategory(category) {
			return nil, &NotFoundError{Category: category, Name: sel[category]}
		}
	}

	selections := make(map[string]string, len(Categories))
	fragments := make(map[string]Fragment, len(Categories))
	for _, category := range Categories {
		name := sel[category]
		if name == "" {
			name = root.Defaults[category]
		}
		if name == "" {
			return nil, &NotFoundError{Category: category}
		}
		fragment, err := store.Fragment(category, name)
		if err != nil {
			return nil, err
		}
		selections[category] = name
		fragments[category] = fragment
	}

	run := fragments[CategoryRun]

	resolved := &Resolved{
		Title:      root.Title,
		Executable: root.Executable,
		WorkDir:    root.WorkDir,
		Basename:   root.Basename,
		Suffix:     run.Suffix,
		Selections: selections,
		Vars:       make(map[string]string, len(root.Vars)),
		Blocks:     make(map[string][]string, len(Categories)),
	}
	for key, value := range root.Vars {
		resolved.Vars[key] = value
	}

	for _, category := range Categories {
		if category == CategoryRun {
			continue
		}
		resolved.Blocks[category] = append([]string(nil), fragments[category].Lines...)
	}
	resolved.Blocks[BlockRuntime] = mergeLines(root.Lines, run.Lines)

	applyOverrides(resolved, overrides)
	if err := substitute(resolved); err != nil {
		return nil, err
	}

	return resolved, nil
}

// mergeLines merges a fragment's line list over the root's per the
// declared strategy for the "lines" key.
func mergeLines(rootLines, fragmentLines []string) []string {
	if mergeStrategies["lines"] == Append {
		merged := make([]string, 0, len(rootLines)+len(fragmentLines))
		merged = append(merged, rootLines...)
		return append(merged, fragmentLines...)
	}
	return append([]string(nil), fragmentLines...)
}

// applyOverrides applies caller-supplied key=value overrides on the
// merged configuration. Recognized scalar keys overwrite (run.suffix is
// accepted as an alias for suffix); anything else passes through into
// the vars bag (open schema).
func applyOverrides(resolved *Resolved, overrides map[string]string) {
	for key, value := range overrides {
		switch strings.TrimPrefix(key, "run.") {
		case "title":
			resolved.Title = value
		case "executable":
			resolved.Executable = value
		case "workdir":
			resolved.WorkDir = value
		case "basename":
			resolved.Basename = value
		case "suffix":
			resolved.Suffix = value
		default:
			resolved.Vars[key] = value
		}
	}
}

var refPattern = regexp.MustCompile(`\$\{([A-Za-z0-9_.-]+)\}`)

// substitute expands every ${ref} reference inside string values of the
// resolved configuration. References resolve against the root scalars
// and the vars bag. An unresolved reference is a hard error; nothing is
// silently replaced with an empty value.
func substitute(resolved *Resolved) error {
	lookup := map[string]string{
		"title":      resolved.Title,
		"executable": resolved.Executable,
		"workdir":    resolved.WorkDir,
		"basename":   resolved.Basename,
		"suffix":     resolved.Suffix,
	}
	for key, value := range resolved.Vars {
		lookup[key] = value
	}

	expand := func(key, value string) (string, error) {
		var unresolved error
		out := refPattern.ReplaceAllStringFunc(value, func(match string) string {
			ref := refPattern.FindStringSubmatch(match)[1]
			substituted, ok := lookup[ref]
			if !ok {
				if unresolved == nil {
					unresolved = &UnresolvedReferenceError{Key: key, Ref: ref}
				}
				return match
			}
			return substituted
		})
		return out, unresolved
	}

	var err error
	if resolved.Title, err = expand("title", resolved.Title); err != nil {
		return err
	}
	for key, value := range resolved.Vars {
		if resolved.Vars[key], err = expand(key, value); err != nil {
			return err
		}
	}
	for name, lines := range resolved.Blocks {
		for i, line := range lines {
			if lines[i], err = expand(name, line); err != nil {
				return err
			}
		}
	}
	return nil
}
