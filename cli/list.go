package cli

// This file contains run history functionality for listing and
// displaying previous runs.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nebrun/nebrun/history"
	"github.com/urfave/cli/v2"
)

func (a *App) list(ctx *cli.Context) error {
	baseDir := ctx.String("dir")
	limit := ctx.Int("limit")

	if _, err := os.Stat(baseDir); os.IsNotExist(err) {
		fmt.Println("No runs found")
		return nil
	}

	entries, err := history.LoadEntries(a.logger, baseDir)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	displayRuns := entries
	if limit > 0 && limit < len(displayRuns) {
		displayRuns = displayRuns[:limit]
	}

	fmt.Printf("\n=== Runs (%d total) ===\n\n", len(entries))

	for _, entry := range displayRuns {
		run := entry.Run
		timestamp := run.Timestamp.Format("2006-01-02 15:04:05")
		duration := run.Duration.Round(time.Millisecond)

		status := "✓"
		if run.ExitCode != 0 {
			status = "✗"
		}

		shortID := run.ID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		fmt.Printf("%s  %s  [%s]  exit=%d  id=%s\n", status, timestamp, duration, run.ExitCode, shortID)
		if len(run.Selections) > 0 {
			fmt.Printf("   Selections: %s\n", formatSelections(run.Selections))
		}
		if run.Basename != "" {
			fmt.Printf("   Input: %s-%s.in\n", run.Basename, run.Suffix)
		}
		if run.Git != nil && run.Git.Commit != "" {
			shortCommit := run.Git.Commit
			if len(shortCommit) > 8 {
				shortCommit = shortCommit[:8]
			}
			fmt.Printf("   Commit: %s", shortCommit)
			if run.Git.Branch != "" {
				fmt.Printf(" (%s)", run.Git.Branch)
			}
			fmt.Println()
		}
		for _, artifact := range run.Artifacts {
			fmt.Printf("   %s (%.1f KB)\n", artifact.File, float64(artifact.Size)/1024)
		}
		fmt.Printf("   %s\n", entry.FullPath)
		fmt.Println()
	}

	return nil
}

// formatSelections prints category=name pairs in category order.
func formatSelections(selections map[string]string) string {
	keys := make([]string, 0, len(selections))
	for key := range selections {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, selections[key]))
	}
	return strings.Join(pairs, " ")
}
