// Package logging sets up the process-wide slog logger and carries it in
// the context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	slogctx "github.com/veqryn/slog-context"
)

// Options configures Setup.
type Options struct {
	// Verbose lowers the level from warn to debug.
	Verbose bool
	// Color enables ANSI colors in log lines.
	Color bool
}

// Setup installs a tint handler writing to w as the default logger and
// returns ctx carrying it. Attributes added with slogctx.With or
// slogctx.Append on a derived context show up on every record.
func Setup(ctx context.Context, w io.Writer, opts Options) context.Context {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	tintHandler := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    !opts.Color,
	})
	ctxHandler := slogctx.NewHandler(tintHandler, nil)

	logger := slog.New(ctxHandler)
	slog.SetDefault(logger)

	return slogctx.NewCtx(ctx, logger)
}

// Discard returns ctx carrying a logger that drops everything. Used by
// the MCP server, whose stdout is the protocol stream.
func Discard(ctx context.Context) context.Context {
	return slogctx.NewCtx(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
