package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/pkg/model"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

func extractCmd() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Aliases:   []string{"x"},
		Usage:     "Extract a class hierarchy model from source files",
		ArgsUsage: "[path...]",
		Description: `Scans the given paths (default ".") and writes every class found, with
its parent and own members, as a model file. Use --output to write to a file;
its extension picks the model format unless --model-format is set.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "model-format",
				Usage: "Model format to write: yaml, json, toml (default yaml)",
			},
		},
		Action: runExtractCmd,
	}
}

func runExtractCmd(c *cli.Context) error {
	cfg := getConfig(c)

	files, err := scanner.NewScanner(cfg).ScanPaths(getPaths(c))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no source files found")
	}

	res, err := extractSources(c.Context, c, cfg, files)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		slogctx.Warn(c.Context, w)
	}

	format := model.FormatYAML
	out := c.String("output")
	switch {
	case c.String("model-format") != "":
		if format, err = model.ParseFormat(c.String("model-format")); err != nil {
			return err
		}
	case out != "":
		if f, err := model.FormatFromPath(out); err == nil {
			format = f
		}
	}

	var w io.Writer = c.App.Writer
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	if err := model.Encode(w, res.Declarations(), format); err != nil {
		return err
	}
	status(c, color.FgGreen, "Extracted %d classes from %d files", len(res.Classes), res.Files)
	return nil
}
