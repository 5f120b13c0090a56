package runner

// This file contains the reproducibility snapshot: persisting the
// fully-resolved configuration alongside the run's other outputs.

import (
	"fmt"
	"os"

	"github.com/nebrun/nebrun/config"
)

// writeSnapshot serializes the resolved configuration to a stable,
// human-readable YAML file. It runs before the executable is invoked,
// so the snapshot survives whether or not the run succeeds.
func writeSnapshot(cfg *config.Resolved, path string) error {
	data, err := cfg.Encode()
	if err != nil {
		return fmt.Errorf("encoding resolved configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}
