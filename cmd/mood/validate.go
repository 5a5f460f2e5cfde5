package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check model files for schema errors, unknown parents and inheritance cycles",
		ArgsUsage: "[model...]",
		Flags:     modelFlags(),
		Action:    runValidateCmd,
	}
}

func runValidateCmd(c *cli.Context) error {
	paths := c.Args().Slice()
	if m := c.String("model"); m != "" {
		paths = append([]string{m}, paths...)
	}
	if len(paths) == 0 {
		return errNoModel
	}

	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	invalid := 0
	for _, path := range paths {
		if err := validateModel(c, path); err != nil {
			formatter.Error("%s: %v", path, err)
			invalid++
			continue
		}
		formatter.Success("%s: ok", path)
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d models invalid", invalid, len(paths))
	}
	return nil
}

func validateModel(c *cli.Context, path string) error {
	doc, _, err := readModel(c, path)
	if err != nil {
		return err
	}
	reg, err := doc.Registry()
	if err != nil {
		return err
	}
	return reg.Validate()
}
