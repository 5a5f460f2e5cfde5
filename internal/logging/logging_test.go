package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	slogctx "github.com/veqryn/slog-context"
)

func TestSetupDefaultLevelIsWarn(t *testing.T) {
	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, Options{})

	slogctx.Debug(ctx, "hidden detail")
	slogctx.Warn(ctx, "dropping unresolved parent", "class", "Widget")

	out := buf.String()
	assert.NotContains(t, out, "hidden detail")
	assert.Contains(t, out, "dropping unresolved parent")
	assert.Contains(t, out, "class=Widget")
	assert.NotContains(t, out, "\x1b[", "no color codes when Color is false")
}

func TestSetupVerbose(t *testing.T) {
	var buf bytes.Buffer
	ctx := Setup(context.Background(), &buf, Options{Verbose: true})

	ctx = slogctx.With(ctx, slog.String("model", "hierarchy.yaml"))
	slogctx.Debug(ctx, "loaded model")

	out := buf.String()
	assert.Contains(t, out, "loaded model")
	assert.Contains(t, out, "model=hierarchy.yaml")
}

func TestDiscard(t *testing.T) {
	ctx := Discard(context.Background())
	assert.NotPanics(t, func() {
		slogctx.Error(ctx, "nobody hears this")
	})
	assert.NotNil(t, slogctx.FromCtx(ctx))
}
