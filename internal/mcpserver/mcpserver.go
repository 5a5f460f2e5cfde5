package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/cache"
	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/metrics"
	"github.com/panbanda/mood/pkg/model"
	slogctx "github.com/veqryn/slog-context"
)

// DefaultRegistryCacheSize bounds how many decoded models stay in memory.
const DefaultRegistryCacheSize = 32

// Server wraps the MCP server and registers all mood metric tools.
type Server struct {
	server     *mcp.Server
	registries *lru.Cache[string, *hierarchy.Registry]
	thresholds metrics.Thresholds
}

// Option configures a Server.
type Option func(*Server)

// WithThresholds sets the flag thresholds used by analyze_hierarchy when the
// caller does not pass its own.
func WithThresholds(t metrics.Thresholds) Option {
	return func(s *Server) {
		s.thresholds = t
	}
}

// NewServer creates a new MCP server with all mood tools registered.
func NewServer(version string, opts ...Option) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "mood",
			Version: version,
		},
		nil,
	)

	// only fails for a non-positive size
	registries, _ := lru.New[string, *hierarchy.Registry](DefaultRegistryCacheSize)

	s := &Server{
		server:     server,
		registries: registries,
		thresholds: metrics.DefaultThresholds(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_dit",
		Description: describeDIT(),
	}, s.handleComputeDIT)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_noc",
		Description: describeNOC(),
	}, s.handleComputeNOC)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_mood",
		Description: describeMOOD(),
	}, s.handleComputeMOOD)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_pof_class",
		Description: describePOFClass(),
	}, s.handleComputePOFClass)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compute_pof_registry",
		Description: describePOFRegistry(),
	}, s.handleComputePOFRegistry)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_hierarchy",
		Description: describeAnalyze(),
	}, s.handleAnalyzeHierarchy)
}

// loadRegistry decodes the model at path, reusing the registry built for an
// earlier call when the file content has not changed.
func (s *Server) loadRegistry(ctx context.Context, path string) (*hierarchy.Registry, error) {
	if path == "" {
		return nil, fmt.Errorf("model path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	key := cache.Key(abs, cache.HashBytes(data))
	if reg, ok := s.registries.Get(key); ok {
		slogctx.Debug(ctx, "model cache hit", "model", abs)
		return reg, nil
	}

	format, err := model.FormatFromPath(abs)
	if err != nil {
		return nil, err
	}
	doc, err := model.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	reg, err := doc.Registry()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.registries.Add(key, reg)
	slogctx.Debug(ctx, "model loaded", "model", abs, "classes", reg.Len())
	return reg, nil
}
