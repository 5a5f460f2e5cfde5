package mcpserver

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/*.md
var promptFiles embed.FS

// promptDef is one embedded workflow prompt.
type promptDef struct {
	Name        string
	Description string
	Body        string
}

type promptFrontmatter struct {
	Description string `yaml:"description"`
}

// loadPrompts reads every prompts/*.md file in name order. The file name
// without extension becomes the prompt name.
func loadPrompts() ([]promptDef, error) {
	entries, err := promptFiles.ReadDir("prompts")
	if err != nil {
		return nil, err
	}

	var defs []promptDef
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		content, err := promptFiles.ReadFile(path.Join("prompts", entry.Name()))
		if err != nil {
			return nil, err
		}
		description, body, err := parseFrontmatter(content)
		if err != nil {
			return nil, fmt.Errorf("prompt %s: %w", entry.Name(), err)
		}
		defs = append(defs, promptDef{
			Name:        strings.TrimSuffix(entry.Name(), ".md"),
			Description: description,
			Body:        body,
		})
	}
	return defs, nil
}

func (s *Server) registerPrompts() {
	defs, err := loadPrompts()
	if err != nil {
		// embedded at build time; only a malformed file gets here
		return
	}
	for _, def := range defs {
		s.server.AddPrompt(&mcp.Prompt{
			Name:        def.Name,
			Description: def.Description,
		}, promptHandler(def))
	}
}

// parseFrontmatter splits an optional "---" delimited YAML header from the
// prompt body.
func parseFrontmatter(content []byte) (description, body string, err error) {
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return "", string(content), nil
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return "", string(content), nil
	}

	var fm promptFrontmatter
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return "", "", err
	}
	return fm.Description, strings.TrimPrefix(string(rest[end+5:]), "\n"), nil
}

func promptHandler(def promptDef) mcp.PromptHandler {
	return func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return &mcp.GetPromptResult{
			Description: def.Description,
			Messages: []*mcp.PromptMessage{
				{
					Role:    "user",
					Content: &mcp.TextContent{Text: def.Body},
				},
			},
		}, nil
	}
}
