package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Language represents a supported source language.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangTSX        Language = "tsx"
	LangPython     Language = "python"
	LangJava       Language = "java"
	LangUnknown    Language = "unknown"
)

// Languages lists every language the extractor understands.
func Languages() []Language {
	return []Language{LangJavaScript, LangTypeScript, LangTSX, LangPython, LangJava}
}

// DetectLanguage determines the language from a file path.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".mjs", ".cjs":
		return LangJavaScript
	case ".jsx", ".tsx":
		return LangTSX // TSX grammar also covers JSX
	case ".ts", ".mts", ".cts":
		return LangTypeScript
	case ".py", ".pyi":
		return LangPython
	case ".java":
		return LangJava
	default:
		return LangUnknown
	}
}

func treeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	case LangPython:
		return python.GetLanguage(), nil
	case LangJava:
		return java.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
}

// parser wraps a tree-sitter parser. It is not safe for concurrent use;
// each worker owns one.
type parser struct {
	ts *sitter.Parser
}

func newParser() *parser {
	return &parser{ts: sitter.NewParser()}
}

func (p *parser) parse(ctx context.Context, source []byte, lang Language) (*sitter.Tree, error) {
	tsLang, err := treeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}
	p.ts.SetLanguage(tsLang)
	tree, err := p.ts.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}
	return tree, nil
}

func (p *parser) close() {
	p.ts.Close()
}

// typedVisitor receives the node type cached once per node to avoid
// repeated CGO calls.
type typedVisitor func(node *sitter.Node, nodeType string) bool

// walkTyped visits node and its descendants depth first. Returning false
// from the visitor skips the node's children.
func walkTyped(node *sitter.Node, visit typedVisitor) {
	if node == nil {
		return
	}
	if !visit(node, node.Type()) {
		return
	}
	for i := range int(node.ChildCount()) {
		walkTyped(node.Child(i), visit)
	}
}

// nodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// hasToken reports whether node has a direct child of one of the given types.
// Keywords such as "static" or "get" are anonymous children.
func hasToken(node *sitter.Node, types ...string) bool {
	for i := range int(node.ChildCount()) {
		t := node.Child(i).Type()
		for _, want := range types {
			if t == want {
				return true
			}
		}
	}
	return false
}

// typeName reduces a type expression to a bare class name:
// "pkg.Base<T>" becomes "Base". Expressions that are not plain names,
// such as mixin calls, return "".
func typeName(expr string) string {
	if i := strings.IndexAny(expr, "<["); i >= 0 {
		expr = expr[:i]
	}
	expr = strings.TrimSpace(expr)
	if i := strings.LastIndex(expr, "."); i >= 0 {
		expr = expr[i+1:]
	}
	if !isIdentifier(expr) {
		return ""
	}
	return expr
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		case r > 127:
		default:
			return false
		}
	}
	return true
}
