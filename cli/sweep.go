package cli

// This file contains the sweep command: enumerating the Cartesian
// product of category and override selections and executing each
// combination as an independent run.

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nebrun/nebrun/config"
	"github.com/nebrun/nebrun/script"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// combo is one combination of the sweep: a full selection plus the
// overrides to apply, and the swept values that make its suffix
// distinct from every other combination.
type combo struct {
	sel       config.Selection
	overrides map[string]string
	parts     []string
}

func (c combo) clone() combo {
	next := combo{
		sel:       make(config.Selection, len(c.sel)),
		overrides: make(map[string]string, len(c.overrides)),
		parts:     append([]string(nil), c.parts...),
	}
	for k, v := range c.sel {
		next.sel[k] = v
	}
	for k, v := range c.overrides {
		next.overrides[k] = v
	}
	return next
}

type comboResult struct {
	suffix  string
	workDir string
	err     error
}

func (a *App) sweep(ctx *cli.Context) error {
	selLists, ovrLists, err := parseSweepArgs(ctx.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	store, err := config.Load(ctx.String("store"))
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	combos := enumerate(selLists, ovrLists)
	parallel := ctx.Int("parallel")
	if parallel < 1 {
		parallel = 1
	}

	a.logger.Info().
		Int("combinations", len(combos)).
		Int("parallel", parallel).
		Msg("Starting sweep")

	// The store is read-only after load, so combinations can execute
	// concurrently; each one gets its own working directory.
	results := make([]comboResult, len(combos))
	g := new(errgroup.Group)
	g.SetLimit(parallel)
	for i, c := range combos {
		i, c := i, c
		g.Go(func() error {
			results[i] = a.executeCombo(ctx, store, c)
			// Failures are isolated per combination; the sweep
			// always runs to completion.
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.err != nil {
			failed++
			a.logger.Error().
				Err(res.err).
				Str("suffix", res.suffix).
				Str("workdir", res.workDir).
				Msg("Combination failed")
		}
	}

	a.logger.Info().
		Int("completed", len(results)-failed).
		Int("failed", failed).
		Msg("Sweep finished")

	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d combinations failed", failed, len(combos)), 1)
	}
	return nil
}

// executeCombo composes and runs a single sweep combination. The suffix
// gains one part per swept dimension and the combination runs in a
// matching subdirectory of the base working directory, so no two
// combinations collide on (basename, suffix) or output files.
func (a *App) executeCombo(ctx *cli.Context, store *config.Store, c combo) comboResult {
	overrides := make(map[string]string, len(c.overrides)+2)
	for k, v := range c.overrides {
		overrides[k] = v
	}
	applyFlagOverrides(ctx, overrides)

	suffix := comboSuffix(store, c, overrides)
	overrides["suffix"] = suffix

	baseDir := store.Root.WorkDir
	if wd, ok := overrides["workdir"]; ok {
		baseDir = wd
	}
	workDir := filepath.Join(baseDir, suffix)
	overrides["workdir"] = workDir

	result := comboResult{suffix: suffix, workDir: workDir}

	resolved, err := config.Compose(store, c.sel, overrides)
	if err != nil {
		result.err = err
		return result
	}
	text, err := script.Input.Render(resolved)
	if err != nil {
		result.err = err
		return result
	}

	result.err = a.executeRun(resolved, text, overrides)
	return result
}

// comboSuffix derives the combination's suffix: the run fragment's
// declared suffix (or its override) plus the swept selection values.
func comboSuffix(store *config.Store, c combo, overrides map[string]string) string {
	base := overrides["suffix"]
	if base == "" {
		name := c.sel[config.CategoryRun]
		if name == "" {
			name = store.Root.Defaults[config.CategoryRun]
		}
		if fragment, err := store.Fragment(config.CategoryRun, name); err == nil {
			base = fragment.Suffix
		}
	}

	parts := c.parts
	if base != "" {
		parts = append([]string{base}, parts...)
	}
	return strings.Join(parts, "-")
}

// enumerate expands the comma-separated selection and override lists
// into the Cartesian product of combinations. Dimensions are ordered
// deterministically: categories first in their declared order, then
// override keys sorted.
func enumerate(selLists, ovrLists map[string][]string) []combo {
	type dim struct {
		key      string
		category bool
		values   []string
	}

	var dims []dim
	for _, category := range config.Categories {
		if values, ok := selLists[category]; ok {
			dims = append(dims, dim{key: category, category: true, values: values})
		}
	}
	keys := make([]string, 0, len(ovrLists))
	for key := range ovrLists {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		dims = append(dims, dim{key: key, values: ovrLists[key]})
	}

	combos := []combo{{sel: config.Selection{}, overrides: map[string]string{}}}
	for _, d := range dims {
		next := make([]combo, 0, len(combos)*len(d.values))
		for _, c := range combos {
			for _, value := range d.values {
				nc := c.clone()
				if d.category {
					nc.sel[d.key] = value
				} else {
					nc.overrides[d.key] = value
				}
				// Only swept dimensions contribute to the suffix;
				// a single fixed value never varies across combos.
				// A swept suffix override is already distinct by
				// itself.
				if len(d.values) > 1 && d.key != "suffix" {
					nc.parts = append(nc.parts, value)
				}
				next = append(next, nc)
			}
		}
		combos = next
	}

	return combos
}
