package model

import "time"

// Run is the persisted record of a single simulation invocation. It is
// written to run.json in the run's working directory and never mutated
// afterwards.
type Run struct {
	// Unique ID for this run (16 random bytes, hex encoded)
	ID string `json:"id"`
	// Timestamp when the run started
	Timestamp time.Time `json:"timestamp"`
	// Command-line arguments (including command name)
	Args []string `json:"args"`
	// Working directory the run executed in
	WorkDir string `json:"workdir"`
	// Input file basename and run suffix; together they name the
	// input and stream files
	Basename string `json:"basename"`
	Suffix   string `json:"suffix"`
	// Fragment selected per category
	Selections map[string]string `json:"selections"`
	// Caller-supplied overrides, if any
	Overrides map[string]string `json:"overrides,omitempty"`
	// Exit code of the simulation executable
	ExitCode int `json:"exit_code"`
	// Duration of the run
	Duration time.Duration `json:"duration"`
	// Git information, when the store lives in a repository
	Git *Git `json:"git,omitempty"`
	// Files produced by this run
	Artifacts []Artifact `json:"artifacts,omitempty"`
}

// Git contains git repository information
type Git struct {
	// Git commit hash at time of execution
	Commit string `json:"commit,omitempty"`
	// Git branch at time of execution
	Branch string `json:"branch,omitempty"`
}

// ArtifactType identifies the type of artifact
type ArtifactType uint8

const (
	ArtifactTypeInput ArtifactType = iota
	ArtifactTypeStdout
	ArtifactTypeStderr
	ArtifactTypeSnapshot
)

// Artifact represents a file generated during a run
type Artifact struct {
	Type ArtifactType `json:"type"`
	Size uint64       `json:"size"`
	File string       `json:"file"` // relative to the run directory
}
