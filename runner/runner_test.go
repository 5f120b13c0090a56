package runner

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nebrun/nebrun/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, executable string) *config.Resolved {
	t.Helper()
	return &config.Resolved{
		Title:      "Test",
		Executable: executable,
		WorkDir:    filepath.Join(t.TempDir(), "out"),
		Basename:   "sim",
		Suffix:     "n10",
		Selections: map[string]string{"physical": "const_n10"},
		Blocks: map[string][]string{
			"physical":  {"hden 1.00"},
			"radiation": {"blackbody 50000 K"},
			"runtime":   {"stop temperature 100 K"},
			"saves":     {`save last "last.out"`},
		},
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, "cat")
	text := "hden 1.00\nblackbody 50000 K\n"

	res, err := Run(zerolog.Nop(), cfg, text)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "sim-n10.in", res.InputFile)

	// The input file holds the rendered script and cat copies it to
	// stdout byte-for-byte.
	input, err := os.ReadFile(filepath.Join(cfg.WorkDir, res.InputFile))
	require.NoError(t, err)
	assert.Equal(t, text, string(input))

	stdout, err := os.ReadFile(filepath.Join(cfg.WorkDir, res.StdoutFile))
	require.NoError(t, err)
	assert.Equal(t, text, string(stdout))

	stderr, err := os.ReadFile(filepath.Join(cfg.WorkDir, res.StderrFile))
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestRun_WritesSnapshot(t *testing.T) {
	cfg := testConfig(t, "cat")

	res, err := Run(zerolog.Nop(), cfg, "hden 1.00\n")
	require.NoError(t, err)

	snapshot, err := os.ReadFile(filepath.Join(cfg.WorkDir, res.SnapshotFile))
	require.NoError(t, err)

	expected, err := cfg.Encode()
	require.NoError(t, err)
	assert.Equal(t, expected, snapshot)
}

func TestRun_NonZeroExit(t *testing.T) {
	cfg := testConfig(t, "false")

	res, err := Run(zerolog.Nop(), cfg, "hden 1.00\n")
	require.NotNil(t, res)

	var procErr *ProcessError
	require.ErrorAs(t, err, &procErr)
	assert.Equal(t, 1, procErr.Code)
	assert.Equal(t, 1, res.ExitCode)

	// The snapshot and stream files survive the failure.
	for _, file := range []string{res.InputFile, res.StdoutFile, res.StderrFile, res.SnapshotFile} {
		_, err := os.Stat(filepath.Join(cfg.WorkDir, file))
		assert.NoError(t, err, file)
	}
}

func TestRun_MissingExecutable(t *testing.T) {
	cfg := testConfig(t, "definitely-not-a-real-executable")

	_, err := Run(zerolog.Nop(), cfg, "hden 1.00\n")
	require.Error(t, err)

	var procErr *ProcessError
	assert.False(t, errors.As(err, &procErr))
}
