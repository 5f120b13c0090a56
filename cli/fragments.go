package cli

// This file contains the fragments command: listing the categories and
// fragment names available in the configuration store.

import (
	"fmt"

	"github.com/nebrun/nebrun/config"
	"github.com/urfave/cli/v2"
)

func (a *App) fragments(ctx *cli.Context) error {
	store, err := config.Load(ctx.String("store"))
	if err != nil {
		return cli.Exit(err.Error(), composeExitCode)
	}

	for _, category := range config.Categories {
		fmt.Printf("%s:\n", category)
		names := store.Names(category)
		if len(names) == 0 {
			fmt.Println("  (no fragments)")
			continue
		}
		for _, name := range names {
			if store.Root.Defaults[category] == name {
				fmt.Printf("  %s (default)\n", name)
			} else {
				fmt.Printf("  %s\n", name)
			}
		}
	}

	return nil
}
