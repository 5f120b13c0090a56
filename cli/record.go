package cli

// This file contains run recording functionality for saving run
// metadata and the produced artifact list to the run directory.

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nebrun/nebrun/model"
	"github.com/nebrun/nebrun/runner"
)

func (a *App) recordRun(run *model.Run, res *runner.Result) error {
	artifacts := []struct {
		kind model.ArtifactType
		file string
	}{
		{model.ArtifactTypeInput, res.InputFile},
		{model.ArtifactTypeStdout, res.StdoutFile},
		{model.ArtifactTypeStderr, res.StderrFile},
		{model.ArtifactTypeSnapshot, res.SnapshotFile},
	}
	for _, artifact := range artifacts {
		info, err := os.Stat(filepath.Join(res.WorkDir, artifact.file))
		if err != nil {
			continue
		}
		run.Artifacts = append(run.Artifacts, model.Artifact{
			Type: artifact.kind,
			Size: uint64(info.Size()),
			File: artifact.file,
		})
	}

	metadataJSON, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	metadataPath := filepath.Join(res.WorkDir, "run.json")
	if err := os.WriteFile(metadataPath, metadataJSON, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}

	a.logger.Debug().Str("dir", res.WorkDir).Str("id", run.ID).Msg("Recorded run")
	return nil
}

// getGitInfo returns the current commit and branch, for reproducibility
// metadata in the run record.
func getGitInfo() (commit, branch string, err error) {
	cmd := exec.Command("git", "rev-parse", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git commit: %w", err)
	}
	commit = strings.TrimSpace(string(output))

	cmd = exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	output, err = cmd.Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git branch: %w", err)
	}
	branch = strings.TrimSpace(string(output))

	return commit, branch, nil
}
