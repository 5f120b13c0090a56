package cli

// This file contains the render command: composing a configuration and
// printing the input script without invoking the simulation.

import (
	"fmt"

	"github.com/nebrun/nebrun/config"
	"github.com/nebrun/nebrun/script"
	"github.com/urfave/cli/v2"
)

func (a *App) render(ctx *cli.Context) error {
	sel, overrides, err := parseRunArgs(ctx.Args().Slice())
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

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

	fmt.Print(text)
	return nil
}
