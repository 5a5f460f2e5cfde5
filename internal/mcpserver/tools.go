package mcpserver

import (
	"bytes"
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/mood/internal/output"
	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/panbanda/mood/pkg/metrics"
)

// ModelInput is the base input for every tool.
type ModelInput struct {
	Model  string `json:"model" jsonschema:"Path to a class hierarchy model file (.yaml, .yml, .json or .toml)."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// ClassInput selects one class of the model.
type ClassInput struct {
	ModelInput
	Class string `json:"class" jsonschema:"Name of the class to measure."`
}

// AnalyzeInput adds report options.
type AnalyzeInput struct {
	ModelInput
	Sort   string `json:"sort,omitempty" jsonschema:"Sort classes by name, dit, noc, mif or pof. Default name."`
	Top    int    `json:"top,omitempty" jsonschema:"Show only the first N classes after sorting. Default all."`
	MaxDIT int    `json:"max_dit,omitempty" jsonschema:"Flag classes deeper than this. Default 5."`
	MaxNOC int    `json:"max_noc,omitempty" jsonschema:"Flag classes with more direct subclasses than this. Default 6."`
}

func getFormat(input ModelInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func formatOutput(r output.Renderable, format output.Format) (string, error) {
	var buf bytes.Buffer
	if err := output.NewWriterFormatter(&buf, format, false).Output(r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(r, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func classNames(classes []*hierarchy.Class) []string {
	names := make([]string, len(classes))
	for i, c := range classes {
		names[i] = c.Name()
	}
	return names
}

// Tool handlers. Model and metric failures are reported as tool errors so
// the client sees the message; only rendering failures are protocol errors.

func (s *Server) handleComputeDIT(ctx context.Context, req *mcp.CallToolRequest, input ClassInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}
	c, err := reg.Get(input.Class)
	if err != nil {
		return toolError(err.Error())
	}
	chain, err := hierarchy.AncestorChain(c)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewDITSection(c.Name(), classNames(chain)), getFormat(input.ModelInput))
}

func (s *Server) handleComputeNOC(ctx context.Context, req *mcp.CallToolRequest, input ClassInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}
	if _, err := metrics.ComputeNOC(reg, input.Class); err != nil {
		return toolError(err.Error())
	}
	children := classNames(reg.Children(input.Class))
	return toolResult(output.NewNOCSection(input.Class, children), getFormat(input.ModelInput))
}

func (s *Server) handleComputeMOOD(ctx context.Context, req *mcp.CallToolRequest, input ClassInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}
	m, err := metrics.ComputeMOOD(reg, input.Class)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewMOODTable(input.Class, m), getFormat(input.ModelInput))
}

func (s *Server) handleComputePOFClass(ctx context.Context, req *mcp.CallToolRequest, input ClassInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}
	pof, err := metrics.ComputePOFForClass(reg, input.Class)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewPOFClassSection(input.Class, pof), getFormat(input.ModelInput))
}

func (s *Server) handleComputePOFRegistry(ctx context.Context, req *mcp.CallToolRequest, input ModelInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}
	pof, err := metrics.ComputePOFForRegistry(reg)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(output.NewPOFRegistrySection(pof), getFormat(input))
}

func (s *Server) handleAnalyzeHierarchy(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	reg, err := s.loadRegistry(ctx, input.Model)
	if err != nil {
		return toolError(err.Error())
	}

	thresholds := s.thresholds
	if input.MaxDIT > 0 {
		thresholds.MaxDIT = input.MaxDIT
	}
	if input.MaxNOC > 0 {
		thresholds.MaxNOC = input.MaxNOC
	}

	analysis, err := metrics.New(metrics.WithThresholds(thresholds)).Analyze(ctx, reg)
	if err != nil {
		return toolError(err.Error())
	}
	analysis.Sort(input.Sort)

	return toolResult(output.NewAnalysisReport(analysis, input.Top), getFormat(input.ModelInput))
}
