package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/pkg/config"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	// -v belongs to --verbose.
	cli.VersionFlag = &cli.BoolFlag{
		Name:  "version",
		Usage: "print the version",
	}

	return &cli.App{
		Name:     "mood",
		Usage:    "Object-oriented design metrics for class hierarchies",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `mood measures class hierarchies: depth of inheritance (DIT), number of
children (NOC), the MOOD inheritance and hiding factors (MIF, MHF, AHF, AIF)
and the polymorphism factor (POF).

Hierarchies come from a model file (YAML, JSON or TOML) or are extracted from
JavaScript, TypeScript, Python and Java sources.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"MOOD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config, text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			ditCmd(),
			nocCmd(),
			moodCmd(),
			pofCmd(),
			analyzeCmd(),
			extractCmd(),
			validateCmd(),
			mcpCmd(),
			cacheCmd(),
		},
	}
}

// setup loads the config and installs the logger before any command runs.
func setup(c *cli.Context) error {
	res, err := config.LoadConfig(config.WithPath(c.String("config")))
	if err != nil {
		return err
	}
	cfg := res.Config
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}
	if c.Bool("no-color") {
		cfg.Output.Color = false
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if f := c.String("format"); f != "" {
		cfg.Output.Format = f
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	c.App.Metadata[configKey] = cfg

	c.Context = logging.Setup(c.Context, c.App.ErrWriter, logging.Options{
		Verbose: cfg.Output.Verbose,
		Color:   cfg.Output.Color && !color.NoColor,
	})
	if res.Source != "" {
		slogctx.Debug(c.Context, "loaded config", "path", res.Source)
	}
	return nil
}
