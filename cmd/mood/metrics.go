package main

import (
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/metrics"
	"github.com/urfave/cli/v2"
)

func ditCmd() *cli.Command {
	return &cli.Command{
		Name:      "dit",
		Usage:     "Depth of inheritance tree of a class",
		ArgsUsage: "[model]",
		Flags:     append(modelFlags(), classFlag()),
		Action:    runDITCmd,
	}
}

func runDITCmd(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}
	cls, err := reg.Get(c.String("class"))
	if err != nil {
		return err
	}
	chain, err := hierarchy.AncestorChain(cls)
	if err != nil {
		return err
	}
	return render(c, output.NewDITSection(cls.Name(), classNames(chain)))
}

func nocCmd() *cli.Command {
	return &cli.Command{
		Name:      "noc",
		Usage:     "Number of direct subclasses of a class",
		ArgsUsage: "[model]",
		Flags:     append(modelFlags(), classFlag()),
		Action:    runNOCCmd,
	}
}

func runNOCCmd(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}
	name := c.String("class")
	if _, err := metrics.ComputeNOC(reg, name); err != nil {
		return err
	}
	return render(c, output.NewNOCSection(name, classNames(reg.Children(name))))
}

func moodCmd() *cli.Command {
	return &cli.Command{
		Name:      "mood",
		Usage:     "MOOD factors (MIF, MHF, AHF, AIF) of a class",
		ArgsUsage: "[model]",
		Flags:     append(modelFlags(), classFlag()),
		Action:    runMOODCmd,
	}
}

func runMOODCmd(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}
	name := c.String("class")
	m, err := metrics.ComputeMOOD(reg, name)
	if err != nil {
		return err
	}
	return render(c, output.NewMOODTable(name, m))
}

func pofCmd() *cli.Command {
	return &cli.Command{
		Name:      "pof",
		Usage:     "Polymorphism factor of a class, or of the whole model without --class",
		ArgsUsage: "[model]",
		Flags: append(modelFlags(), &cli.StringFlag{
			Name:    "class",
			Aliases: []string{"k"},
			Usage:   "Count overridden own methods of this class instead of the corpus factor",
		}),
		Action: runPOFCmd,
	}
}

func runPOFCmd(c *cli.Context) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	if name := c.String("class"); name != "" {
		pof, err := metrics.ComputePOFForClass(reg, name)
		if err != nil {
			return err
		}
		return render(c, output.NewPOFClassSection(name, pof))
	}

	pof, err := metrics.ComputePOFForRegistry(reg)
	if err != nil {
		return err
	}
	return render(c, output.NewPOFRegistrySection(pof))
}

func render(c *cli.Context, r output.Renderable) error {
	formatter, err := newFormatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(r)
}
