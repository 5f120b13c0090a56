package config

// This file contains the configuration group store: loading the project
// root context and the named fragment files from a directory hierarchy.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Categories lists the fragment categories recognized by the store.
// Exactly one fragment per category is selected for every run.
var Categories = []string{"physical", "radiation", "saves", "run"}

// CategoryRun is the category whose fragments carry run controls (a
// symbolic suffix plus additional runtime lines). Its lines merge
// additively with the root-level runtime lines instead of replacing
// them.
const CategoryRun = "run"

// Fragment is a named, reusable block of configuration values for one
// category. Fragments are immutable once loaded.
type Fragment struct {
	Category string `yaml:"-"`
	Name     string `yaml:"-"`

	// Suffix is a short symbolic tag for the run, recognized only for
	// fragments in the run category.
	Suffix string `yaml:"suffix,omitempty"`

	// Lines are emitted verbatim into the fragment's script block, in
	// order. They are opaque commands for the simulation executable.
	Lines []string `yaml:"lines"`
}

// Root holds the project-level scalars and runtime lines shared by all
// runs composed from one store.
type Root struct {
	Title      string `yaml:"title"`
	Executable string `yaml:"executable"`
	WorkDir    string `yaml:"workdir"`
	Basename   string `yaml:"basename"`

	// Vars are arbitrary substitution variables, referenced as ${name}
	// from fragment lines and other string values.
	Vars map[string]string `yaml:"vars,omitempty"`

	// Lines are root-level runtime lines. They always precede the
	// selected run fragment's lines in the rendered script.
	Lines []string `yaml:"lines,omitempty"`

	// Defaults names the default fragment per category. Every category
	// needs a default here or an explicit selection at compose time.
	Defaults map[string]string `yaml:"defaults"`
}

// Store is the read-only set of fragments plus the project root
// context. Safe to share across concurrently executing runs once
// loaded.
type Store struct {
	Root      Root
	fragments map[string]map[string]Fragment
}

// Load reads a group store from dir. The layout is one project.yaml at
// the root and one subdirectory per category containing the fragment
// files; a fragment's name is its file name minus the extension.
func Load(dir string) (*Store, error) {
	rootPath := filepath.Join(dir, "project.yaml")
	data, err := os.ReadFile(rootPath)
	if err != nil {
		return nil, fmt.Errorf("reading project file %s: %w", rootPath, err)
	}

	var root Root
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing project file %s: %w", rootPath, err)
	}

	store := &Store{
		Root:      root,
		fragments: make(map[string]map[string]Fragment),
	}

	for _, category := range Categories {
		fragments, err := loadCategory(filepath.Join(dir, category), category)
		if err != nil {
			return nil, err
		}
		store.fragments[category] = fragments
	}

	return store, nil
}

func loadCategory(dir, category string) (map[string]Fragment, error) {
	fragments := make(map[string]Fragment)

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		// Empty category; selections against it fail at compose time.
		return fragments, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading category directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ext)

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading fragment %s/%s: %w", category, entry.Name(), err)
		}

		var fragment Fragment
		if err := yaml.Unmarshal(data, &fragment); err != nil {
			return nil, fmt.Errorf("parsing fragment %s/%s: %w", category, entry.Name(), err)
		}
		fragment.Category = category
		fragment.Name = name
		fragments[name] = fragment
	}

	return fragments, nil
}

// Fragment returns the named fragment from a category.
func (s *Store) Fragment(category, name string) (Fragment, error) {
	byName, ok := s.fragments[category]
	if !ok {
		return Fragment{}, &NotFoundError{Category: category, Name: name}
	}
	fragment, ok := byName[name]
	if !ok {
		return Fragment{}, &NotFoundError{Category: category, Name: name}
	}
	return fragment, nil
}

// Names returns the sorted fragment names available in a category.
func (s *Store) Names(category string) []string {
	names := make([]string, 0, len(s.fragments[category]))
	for name := range s.fragments[category] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsCategory reports whether name is a recognized fragment category.
func IsCategory(name string) bool {
	for _, category := range Categories {
		if name == category {
			return true
		}
	}
	return false
}
