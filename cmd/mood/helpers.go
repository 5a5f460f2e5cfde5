package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/model"
	"github.com/urfave/cli/v2"
)

var errNoModel = errors.New("a model file is required (--model or first argument)")

// getConfig returns the config loaded by setup.
func getConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// newFormatter writes to --output when set, otherwise to the app's writer.
func newFormatter(c *cli.Context) (*output.Formatter, error) {
	cfg := getConfig(c)
	format := output.ParseFormat(cfg.Output.Format)
	if path := c.String("output"); path != "" {
		return output.NewFormatter(format, path, false)
	}
	return output.NewWriterFormatter(c.App.Writer, format, cfg.Output.Color && !color.NoColor), nil
}

// status prints a colored line to stderr so it never mixes with
// machine-readable output.
func status(c *cli.Context, attr color.Attribute, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if getConfig(c).Output.Color && !color.NoColor {
		msg = color.New(attr).Sprint(msg)
	}
	fmt.Fprintln(c.App.ErrWriter, msg)
}

func modelFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Class hierarchy model file (.yaml, .yml, .json, .toml)",
		},
		&cli.StringFlag{
			Name:  "model-format",
			Usage: "Model file format when the extension does not tell: yaml, json, toml",
		},
	}
}

func classFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "class",
		Aliases:  []string{"k"},
		Usage:    "Class to measure",
		Required: true,
	}
}

// modelPath returns --model, or the first positional argument.
func modelPath(c *cli.Context) (string, error) {
	if p := c.String("model"); p != "" {
		return p, nil
	}
	if c.Args().Len() > 0 {
		return c.Args().First(), nil
	}
	return "", errNoModel
}

func modelFormat(c *cli.Context, path string) (model.Format, error) {
	if f := c.String("model-format"); f != "" {
		return model.ParseFormat(f)
	}
	return model.FormatFromPath(path)
}

// readModel decodes and validates the model file, returning the raw bytes
// for cache keys.
func readModel(c *cli.Context, path string) (*model.Document, []byte, error) {
	format, err := modelFormat(c, path)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read model: %w", err)
	}
	doc, err := model.Parse(data, format)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, data, nil
}

// loadRegistry reads the model named on the command line and builds it.
func loadRegistry(c *cli.Context) (*hierarchy.Registry, error) {
	path, err := modelPath(c)
	if err != nil {
		return nil, err
	}
	doc, _, err := readModel(c, path)
	if err != nil {
		return nil, err
	}
	reg, err := doc.Registry()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

func classNames(classes []*hierarchy.Class) []string {
	names := make([]string, len(classes))
	for i, cls := range classes {
		names[i] = cls.Name()
	}
	return names
}
