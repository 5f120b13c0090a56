package cli

// This file contains the single-run command: composing one
// configuration, rendering the input script and executing the
// simulation.

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nebrun/nebrun/config"
	"github.com/nebrun/nebrun/model"
	"github.com/nebrun/nebrun/runner"
	"github.com/nebrun/nebrun/script"
	"github.com/urfave/cli/v2"
)

func (a *App) run(ctx *cli.Context) error {
	sel, overrides, err := parseRunArgs(ctx.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}
	applyFlagOverrides(ctx, overrides)

	store, err := config.Load(ctx.String("store"))
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	resolved, err := config.Compose(store, sel, overrides)
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	text, err := script.Input.Render(resolved)
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	if err := a.executeRun(resolved, text, overrides); err != nil {
		var procErr *runner.ProcessError
		if errors.As(err, &procErr) {
			// Propagate the simulation's own exit code.
			return cli.Exit(err.Error(), procErr.Code)
		}
		return cli.Exit(err.Error(), 1)
	}
	return nil
}

// applyFlagOverrides folds the convenience flags into the override map.
// Positional key=value overrides win if both are given.
func applyFlagOverrides(ctx *cli.Context, overrides map[string]string) {
	if exe := ctx.String("exe"); exe != "" {
		if _, ok := overrides["executable"]; !ok {
			overrides["executable"] = exe
		}
	}
	if workdir := ctx.String("workdir"); workdir != "" {
		if _, ok := overrides["workdir"]; !ok {
			overrides["workdir"] = workdir
		}
	}
}

// executeRun invokes the simulation for one resolved configuration and
// records the run. The returned error is a *runner.ProcessError when
// the executable itself failed.
func (a *App) executeRun(resolved *config.Resolved, text string, overrides map[string]string) error {
	startTime := time.Now()

	// Generate random 16-byte run ID
	idBytes := make([]byte, 16)
	if _, err := rand.Read(idBytes); err != nil {
		return fmt.Errorf("failed to generate run ID: %w", err)
	}

	run := &model.Run{
		ID:         hex.EncodeToString(idBytes),
		Timestamp:  startTime,
		Args:       os.Args,
		WorkDir:    resolved.WorkDir,
		Basename:   resolved.Basename,
		Suffix:     resolved.Suffix,
		Selections: resolved.Selections,
		Overrides:  overrides,
	}

	// Capture git info (non-fatal if the store is not in a repository)
	if commit, branch, err := getGitInfo(); err == nil {
		run.Git = &model.Git{
			Commit: commit,
			Branch: branch,
		}
	}

	res, runErr := runner.Run(a.logger, resolved, text)
	run.Duration = time.Since(startTime)

	if res != nil {
		run.ExitCode = res.ExitCode
		// Record even failed runs; the files on disk aid debugging.
		if err := a.recordRun(run, res); err != nil {
			a.logger.Warn().Err(err).Msg("Failed to record run")
		}
	}

	return runErr
}
