package main

import (
	"fmt"

	"github.com/panbanda/mood/internal/logging"
	"github.com/panbanda/mood/internal/mcpserver"
	"github.com/panbanda/mood/pkg/metrics"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start the MCP server over stdio",
		Description: `Exposes the hierarchy metrics as MCP tools. Each tool takes a path to a
model file; parsed models are memoized by content hash across calls.`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry manifest (server.json)",
				Action: runMCPManifestCmd,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	cfg := getConfig(c)
	server := mcpserver.NewServer(version, mcpserver.WithThresholds(metrics.Thresholds{
		MaxDIT: cfg.Thresholds.MaxDIT,
		MaxNOC: cfg.Thresholds.MaxNOC,
	}))
	// stdout carries the protocol; keep logs off it.
	return server.Run(logging.Discard(c.Context))
}

func runMCPManifestCmd(c *cli.Context) error {
	data, err := mcpserver.GenerateManifest(version)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
