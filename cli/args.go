package cli

// This file contains argument processing utilities for classifying
// positional arguments into fragment selections and value overrides.

import (
	"fmt"
	"strings"

	"github.com/nebrun/nebrun/config"
)

// parseRunArgs classifies positional arguments: category=name becomes a
// fragment selection, anything else is a key=value override.
func parseRunArgs(args []string) (config.Selection, map[string]string, error) {
	sel := config.Selection{}
	overrides := map[string]string{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid argument %q: expected category=name or key=value", arg)
		}
		if config.IsCategory(key) {
			sel[key] = value
		} else {
			overrides[key] = value
		}
	}

	return sel, overrides, nil
}

// parseSweepArgs classifies sweep arguments the same way but splits
// each value on commas into the list of values to enumerate.
func parseSweepArgs(args []string) (map[string][]string, map[string][]string, error) {
	selections := map[string][]string{}
	overrides := map[string][]string{}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, nil, fmt.Errorf("invalid argument %q: expected category=name,name or key=value,value", arg)
		}
		values := strings.Split(value, ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		if config.IsCategory(key) {
			selections[key] = values
		} else {
			overrides[key] = values
		}
	}

	return selections, overrides, nil
}
