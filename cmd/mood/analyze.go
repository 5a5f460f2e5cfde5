package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/internal/progress"
	"github.com/panbanda/mood/internal/scanner"
	"github.com/panbanda/mood/internal/watch"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/extract"
	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/metrics"
	"github.com/urfave/cli/v2"
	slogctx "github.com/veqryn/slog-context"
)

func analyzeCmd() *cli.Command {
	flags := append(modelFlags(),
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "Sort classes by name, dit, noc, mif or pof (default from config, name)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Show only the first N classes after sorting",
		},
		&cli.IntFlag{
			Name:  "max-dit",
			Usage: "Flag classes deeper than this (overrides thresholds.max_dit)",
		},
		&cli.IntFlag{
			Name:  "max-noc",
			Usage: "Flag classes with more children than this (overrides thresholds.max_noc)",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-run the analysis whenever the model or a source file changes",
		},
		&cli.DurationFlag{
			Name:  "debounce",
			Value: watch.DefaultDebounce,
			Usage: "Quiet period before a watched change triggers a run",
		},
	)
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Measure every class of a model file or of extracted sources",
		ArgsUsage: "[path...]",
		Description: `With --model, analyzes the class hierarchy model file. Otherwise the
given paths (default ".") are scanned for JavaScript, TypeScript, Python and
Java sources and the hierarchy is extracted from them first.`,
		Flags:  flags,
		Action: runAnalyzeCmd,
	}
}

// analysisInput names what an analysis runs over: a model file, or source
// paths when model is empty.
type analysisInput struct {
	model string
	paths []string
}

func (in analysisInput) watchTargets() []string {
	if in.model != "" {
		return []string{in.model}
	}
	return in.paths
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg := getConfig(c)
	in := analysisInput{model: c.String("model"), paths: getPaths(c)}

	run := func(ctx context.Context) error {
		a, err := runAnalysis(ctx, c, cfg, in)
		if err != nil {
			return err
		}
		a.Sort(sortKey(c, cfg))
		if len(a.Errors) > 0 {
			status(c, color.FgYellow, "%d classes could not be measured (inheritance cycles)", len(a.Errors))
		}
		return render(c, output.NewAnalysisReport(a, c.Int("top")))
	}

	if !c.Bool("watch") {
		return run(c.Context)
	}

	if err := run(c.Context); err != nil {
		status(c, color.FgRed, "Error: %v", err)
	}

	w, err := watch.NewWatcher(in.watchTargets(), cfg, c.Duration("debounce"))
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Stop()
	w.SetOutput(c.App.ErrWriter)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w.SetCallback(func(changed []string) {
		slogctx.Debug(ctx, "re-running analysis", "changed", changed)
		if err := run(ctx); err != nil {
			status(c, color.FgRed, "Error: %v", err)
		}
	})

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func sortKey(c *cli.Context, cfg *config.Config) string {
	if s := c.String("sort"); s != "" {
		return s
	}
	return cfg.Analysis.Sort
}

func thresholds(c *cli.Context, cfg *config.Config) metrics.Thresholds {
	t := metrics.Thresholds{MaxDIT: cfg.Thresholds.MaxDIT, MaxNOC: cfg.Thresholds.MaxNOC}
	if c.IsSet("max-dit") {
		t.MaxDIT = c.Int("max-dit")
	}
	if c.IsSet("max-noc") {
		t.MaxNOC = c.Int("max-noc")
	}
	return t
}

// runAnalysis measures the input, serving a cached analysis when the input
// content and the thresholds are unchanged.
func runAnalysis(ctx context.Context, c *cli.Context, cfg *config.Config, in analysisInput) (*metrics.Analysis, error) {
	t := thresholds(c, cfg)
	store := openCache(ctx, cfg)

	var (
		key, hash string
		build     func() (*hierarchy.Registry, error)
	)

	if in.model != "" {
		doc, data, err := readModel(c, in.model)
		if err != nil {
			return nil, err
		}
		abs, _ := filepath.Abs(in.model)
		key = cache.Key("analyze", abs, strconv.Itoa(t.MaxDIT), strconv.Itoa(t.MaxNOC))
		hash = cache.HashBytes(data)
		build = doc.Registry
	} else {
		files, err := scanner.NewScanner(cfg).ScanPaths(in.paths)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, errors.New("no source files found")
		}
		key = cache.Key("analyze-sources", strings.Join(files, "\n"), strconv.Itoa(t.MaxDIT), strconv.Itoa(t.MaxNOC))
		if store.Enabled() {
			if hash, err = hashFiles(files); err != nil {
				return nil, err
			}
		}
		build = func() (*hierarchy.Registry, error) {
			res, err := extractSources(ctx, c, cfg, files)
			if err != nil {
				return nil, err
			}
			return res.Registry()
		}
	}

	var cached metrics.Analysis
	if store.Load(key, hash, &cached) {
		slogctx.Debug(ctx, "analysis served from cache", "key", key)
		return &cached, nil
	}

	reg, err := build()
	if err != nil {
		return nil, err
	}

	tracker := newTracker(c, cfg, "Measuring classes...", reg.Len())
	a, err := metrics.New(
		metrics.WithMaxWorkers(cfg.Analysis.MaxWorkers),
		metrics.WithThresholds(t),
		metrics.WithProgress(tracker.Tick),
	).Analyze(ctx, reg)
	if err != nil {
		tracker.FinishError(err)
		return nil, fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	if err := store.Store(key, hash, a); err != nil {
		slogctx.Warn(ctx, "could not cache analysis", "err", err)
	}
	return a, nil
}

// openCache returns the configured cache, or a disabled one when the cache
// directory cannot be created.
func openCache(ctx context.Context, cfg *config.Config) *cache.Cache {
	store, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled)
	if err != nil {
		slogctx.Warn(ctx, "cache disabled", "dir", cfg.Cache.Dir, "err", err)
		store, _ = cache.New("", 0, false)
	}
	return store
}

func hashFiles(files []string) (string, error) {
	var b strings.Builder
	for _, f := range files {
		h, err := cache.HashFile(f)
		if err != nil {
			return "", err
		}
		b.WriteString(h)
	}
	return cache.HashBytes([]byte(b.String())), nil
}

// newTracker draws a bar only for text output on a terminal.
func newTracker(c *cli.Context, cfg *config.Config, label string, total int) *progress.Tracker {
	if output.ParseFormat(cfg.Output.Format) != output.FormatText || color.NoColor || c.String("output") != "" {
		return progress.NewQuiet(label, total)
	}
	return progress.NewTracker(label, total)
}

func extractLanguages(cfg *config.Config) []extract.Language {
	var langs []extract.Language
	for _, name := range cfg.Extract.Languages {
		for _, l := range extract.Languages() {
			if strings.EqualFold(name, string(l)) {
				langs = append(langs, l)
			}
		}
	}
	return langs
}

func extractSources(ctx context.Context, c *cli.Context, cfg *config.Config, files []string) (*extract.Result, error) {
	tracker := newTracker(c, cfg, "Extracting classes...", len(files))
	ex := extract.New(
		extract.WithMaxWorkers(cfg.Analysis.MaxWorkers),
		extract.WithMaxFileSize(cfg.Extract.MaxFileSize),
		extract.WithIncludeTests(cfg.Extract.IncludeTests),
		extract.WithLanguages(extractLanguages(cfg)...),
		extract.WithProgress(tracker.Tick),
	)
	res, err := ex.Extract(ctx, files)
	if err != nil {
		tracker.FinishError(err)
		return nil, err
	}
	tracker.FinishSuccess()

	for _, perr := range res.Errors {
		slogctx.Warn(ctx, "skipped file", "path", perr.Path, "err", perr.Err)
	}
	slogctx.Debug(ctx, "extracted classes", "files", res.Files, "classes", len(res.Classes))
	return res, nil
}
