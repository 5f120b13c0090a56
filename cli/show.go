package cli

// This file contains the show command: resolving a previous run by
// index or ID prefix and displaying its record and resolved
// configuration.

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nebrun/nebrun/history"
	"github.com/urfave/cli/v2"
)

func (a *App) show(ctx *cli.Context) error {
	ref := ctx.Args().First()
	if ref == "" {
		ref = "0"
	}

	entries, err := history.LoadEntries(a.logger, ctx.String("dir"))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return cli.Exit("no runs found", 1)
	}

	entry, err := resolveEntry(entries, ref)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	record, err := json.MarshalIndent(entry.Run, "", "  ")
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", record)

	snapshotPath := filepath.Join(entry.FullPath, "resolved-config.yaml")
	if snapshot, err := os.ReadFile(snapshotPath); err == nil {
		fmt.Printf("\n--- resolved-config.yaml ---\n%s", snapshot)
	}

	return nil
}

// resolveEntry picks an entry by index (0 is the latest, -1 the one
// before) or by hex ID prefix. Entries are ordered newest first.
func resolveEntry(entries []history.Entry, ref string) (history.Entry, error) {
	if index, err := strconv.Atoi(ref); err == nil {
		if index > 0 {
			return history.Entry{}, fmt.Errorf("invalid index %d: use 0 for the latest run, -1 for the one before", index)
		}
		index = -index
		if index >= len(entries) {
			return history.Entry{}, fmt.Errorf("index %s out of range: only %d runs recorded", ref, len(entries))
		}
		return entries[index], nil
	}

	var matches []history.Entry
	for _, entry := range entries {
		if strings.HasPrefix(entry.Run.ID, ref) {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 0:
		return history.Entry{}, fmt.Errorf("no run with ID prefix %q", ref)
	case 1:
		return matches[0], nil
	default:
		return history.Entry{}, fmt.Errorf("ID prefix %q matches %d runs", ref, len(matches))
	}
}
