package main

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/internal/output"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the analysis cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache location, entry count and size",
				Action: runCacheStatsCmd,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached analysis",
				Action: runCacheClearCmd,
			},
		},
	}
}

// openCacheDir opens the configured cache directory even when caching is
// disabled for analyses.
func openCacheDir(c *cli.Context) (*cache.Cache, error) {
	cfg := getConfig(c)
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
}

func runCacheStatsCmd(c *cli.Context) error {
	store, err := openCacheDir(c)
	if err != nil {
		return err
	}
	stats, err := store.GetStats()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Directory", stats.Dir},
		{"Entries", strconv.Itoa(stats.Entries)},
		{"Size", humanize.Bytes(uint64(stats.TotalSize))},
	}
	if stats.Entries > 0 {
		rows = append(rows,
			[]string{"Oldest", humanize.Time(time.Now().Add(-stats.OldestAge))},
			[]string{"Newest", humanize.Time(time.Now().Add(-stats.NewestAge))},
		)
	}
	return render(c, output.NewTable("Cache", []string{"Property", "Value"}, rows, nil, stats))
}

func runCacheClearCmd(c *cli.Context) error {
	store, err := openCacheDir(c)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	status(c, color.FgGreen, "Cache cleared")
	return nil
}
