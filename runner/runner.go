package runner

// This file contains the run executor: writing the rendered input
// script, invoking the simulation executable with it on standard input,
// and capturing its output streams byte-for-byte.

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/nebrun/nebrun/config"
	"github.com/rs/zerolog"
)

// Result records the files a run produced and how the executable
// exited. All paths are relative to the run's working directory.
type Result struct {
	WorkDir      string
	InputFile    string
	StdoutFile   string
	StderrFile   string
	SnapshotFile string
	ExitCode     int
	Duration     time.Duration
}

// ProcessError reports a simulation executable that exited non-zero.
// The input, stream and snapshot files are left on disk for debugging.
type ProcessError struct {
	Code int
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("simulation exited with code %d", e.Code)
}

// Run writes the rendered script and resolved-configuration snapshot
// into the working directory, then invokes the executable with the
// script on standard input and waits for it to finish. The child's
// stdout and stderr are captured to files in full regardless of exit
// status. A non-nil Result is returned even when the executable fails,
// so callers can record the produced artifacts.
func Run(logger zerolog.Logger, cfg *config.Resolved, text string) (*Result, error) {
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return nil, fmt.Errorf("creating working directory: %w", err)
	}

	res := &Result{
		WorkDir:      cfg.WorkDir,
		InputFile:    fmt.Sprintf("%s-%s.in", cfg.Basename, cfg.Suffix),
		StdoutFile:   fmt.Sprintf("%s-%s.stdout", cfg.Basename, cfg.Suffix),
		StderrFile:   fmt.Sprintf("%s-%s.stderr", cfg.Basename, cfg.Suffix),
		SnapshotFile: "resolved-config.yaml",
	}

	if err := writeSnapshot(cfg, filepath.Join(cfg.WorkDir, res.SnapshotFile)); err != nil {
		return nil, err
	}

	inputPath := filepath.Join(cfg.WorkDir, res.InputFile)
	if err := os.WriteFile(inputPath, []byte(text), 0644); err != nil {
		return nil, fmt.Errorf("writing input file: %w", err)
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return nil, fmt.Errorf("opening input file: %w", err)
	}
	defer input.Close()

	stdout, err := os.Create(filepath.Join(cfg.WorkDir, res.StdoutFile))
	if err != nil {
		return nil, fmt.Errorf("creating stdout file: %w", err)
	}
	defer stdout.Close()

	stderr, err := os.Create(filepath.Join(cfg.WorkDir, res.StderrFile))
	if err != nil {
		return nil, fmt.Errorf("creating stderr file: %w", err)
	}
	defer stderr.Close()

	cmd := exec.Command(cfg.Executable)
	cmd.Dir = cfg.WorkDir
	cmd.Stdin = input
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Info().
		Str("command", fmt.Sprintf("%s < %s", shellescape.Quote(cfg.Executable), shellescape.Quote(res.InputFile))).
		Str("workdir", cfg.WorkDir).
		Msg("Starting simulation")

	start := time.Now()
	err = cmd.Run()
	res.Duration = time.Since(start)

	if err != nil {
		// Non-zero exit is fatal for this run; partial output files
		// stay on disk.
		if exitErr, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exitErr.ExitCode()
			logger.Error().
				Int("exit_code", res.ExitCode).
				Str("stderr", res.StderrFile).
				Msg("Simulation failed")
			return res, &ProcessError{Code: res.ExitCode}
		}
		return res, fmt.Errorf("failed to execute %s: %w", cfg.Executable, err)
	}

	logger.Info().
		Dur("duration", res.Duration).
		Str("input", res.InputFile).
		Msg("Simulation completed")
	return res, nil
}
