package cli

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "nebrun"

// Exit code for composition and rendering errors, distinct from any
// code the simulation executable returns.
const composeExitCode = 2

type App struct {
	logger zerolog.Logger
	cli    *cli.App
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		cli: &cli.App{
			Name:  AppName,
			Usage: "Compose simulation input scripts from configuration fragments and run them",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "verbose",
					Usage: "Enable verbose (debug) logging",
				},
				&cli.StringFlag{
					Name:    "store",
					Aliases: []string{"s"},
					Usage:   "Path to the configuration group store",
					Value:   "configs",
					EnvVars: []string{"NEBRUN_STORE"},
				},
			},
			Before: func(ctx *cli.Context) error {
				if err := godotenv.Load(); err == nil {
					logger.Debug().Msg("Loaded environment from .env")
				}
				if ctx.Bool("verbose") {
					zerolog.SetGlobalLevel(zerolog.DebugLevel)
				}
				return nil
			},
		},
	}
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "run",
		Usage:     "Compose one configuration and run the simulation",
		ArgsUsage: "[category=name ...] [key=value ...]",
		Action:    app.run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "exe",
				Usage:   "Simulation executable (overrides the store's executable)",
				EnvVars: []string{"NEBRUN_EXE"},
			},
			&cli.StringFlag{
				Name:    "workdir",
				Aliases: []string{"w"},
				Usage:   "Working directory for the run (overrides the store's workdir)",
			},
		},
		Description: `Compose one configuration and run the simulation.

Arguments select fragments and override values:
  category=name   Select a fragment (categories: physical, radiation, saves, run)
  key=value       Override a root-level scalar or pass a substitution variable

Examples:
  nebrun run physical=const_n10 radiation=blackbody
  nebrun run run=converge title="Dense model" data_dir=/opt/sim/data`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "sweep",
		Usage:     "Run every combination of comma-separated selections",
		ArgsUsage: "[category=name,name ...] [key=value,value ...]",
		Action:    app.sweep,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "exe",
				Usage:   "Simulation executable (overrides the store's executable)",
				EnvVars: []string{"NEBRUN_EXE"},
			},
			&cli.StringFlag{
				Name:    "workdir",
				Aliases: []string{"w"},
				Usage:   "Base working directory; each combination runs in a subdirectory",
			},
			&cli.IntFlag{
				Name:    "parallel",
				Aliases: []string{"j"},
				Usage:   "Number of combinations to run concurrently",
				Value:   runtime.NumCPU(),
			},
		},
		Description: `Run every combination of comma-separated selections.

Each combination is an independent run with its own suffix and working
directory. A failing combination does not stop the others.

Example:
  nebrun sweep physical=n10,n100,n1000 radiation=blackbody,powerlaw`,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "render",
		Usage:     "Compose a configuration and print the input script without running",
		ArgsUsage: "[category=name ...] [key=value ...]",
		Action:    app.render,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "fragments",
		Usage:  "List the categories and fragment names available in the store",
		Action: app.fragments,
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:   "list",
		Usage:  "List previous runs",
		Action: app.list,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to search for run records",
				Value:   ".",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Limit number of results (default: 20)",
				Value:   20,
			},
		},
	})
	app.cli.Commands = append(app.cli.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Show a previous run's record and resolved configuration",
		ArgsUsage: "[ID|INDEX]",
		Action:    app.show,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dir",
				Aliases: []string{"d"},
				Usage:   "Directory to search for run records",
				Value:   ".",
			},
		},
		Description: `Show a previous run's record and resolved configuration.

Arguments:
  0           Show last run (default)
  -1          Show 2nd last run
  <hex-id>    Show the run matching the hex ID prefix`,
	})
	return app
}

func (a *App) Run(args []string) error {
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && commit != "" {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}
