// Package extract builds hierarchy declarations from source code. It parses
// JavaScript, TypeScript, Python and Java files with tree-sitter and records
// each class's name, single parent, instance methods and attributes.
package extract

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panbanda/mood/pkg/hierarchy"
	"github.com/sourcegraph/conc/pool"
	slogctx "github.com/veqryn/slog-context"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for worker count.
// Parsing mixes file I/O with CGO work, so more workers than cores pays off.
const DefaultWorkerMultiplier = 2

// ClassInfo is a class found in a source file.
type ClassInfo struct {
	hierarchy.Declaration
	Path     string   `json:"path"`
	Language Language `json:"language"`
	Line     int      `json:"line"`
}

// rawClass is a class as seen by a language extractor, before the parent
// name is reduced and checked against the rest of the corpus.
type rawClass struct {
	name       string
	parent     string
	methods    []string
	attributes []string
	line       int
}

// ProcessingError represents an error that occurred while processing a file.
type ProcessingError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ProcessingError) Unwrap() error { return e.Err }

// Result is the outcome of extracting a set of files.
type Result struct {
	Classes []ClassInfo `json:"classes"`
	// Warnings describe classes that were skipped or had their parent dropped.
	Warnings []string `json:"warnings,omitempty"`
	// Errors lists files that could not be read or parsed.
	Errors []ProcessingError `json:"errors,omitempty"`
	// Files is the number of files that were parsed.
	Files int `json:"files"`
}

// Declarations returns the extracted classes as registry declarations.
func (r *Result) Declarations() []hierarchy.Declaration {
	decls := make([]hierarchy.Declaration, 0, len(r.Classes))
	for _, c := range r.Classes {
		decls = append(decls, c.Declaration)
	}
	return decls
}

// Registry builds a registry from the extracted classes.
func (r *Result) Registry() (*hierarchy.Registry, error) {
	return hierarchy.Build(r.Declarations())
}

// Extractor turns source files into class declarations.
type Extractor struct {
	maxWorkers   int
	maxFileSize  int64
	includeTests bool
	languages    map[Language]bool
	onProgress   func()
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithMaxWorkers bounds the number of files parsed concurrently.
func WithMaxWorkers(n int) Option {
	return func(e *Extractor) {
		e.maxWorkers = n
	}
}

// WithMaxFileSize skips files larger than maxSize bytes (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(e *Extractor) {
		e.maxFileSize = maxSize
	}
}

// WithIncludeTests includes test files. By default they are skipped.
func WithIncludeTests(include bool) Option {
	return func(e *Extractor) {
		e.includeTests = include
	}
}

// WithLanguages restricts extraction to the given languages.
func WithLanguages(langs ...Language) Option {
	return func(e *Extractor) {
		if len(langs) == 0 {
			return
		}
		e.languages = make(map[Language]bool, len(langs))
		for _, l := range langs {
			e.languages[l] = true
		}
	}
}

// WithProgress registers a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(e *Extractor) {
		e.onProgress = fn
	}
}

// New creates a new extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxWorkers <= 0 {
		e.maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}
	if e.languages == nil {
		e.languages = make(map[Language]bool)
		for _, l := range Languages() {
			e.languages[l] = true
		}
	}
	return e
}

// Supports reports whether path would be parsed by this extractor.
func (e *Extractor) Supports(path string) bool {
	lang := DetectLanguage(path)
	if lang == LangUnknown || !e.languages[lang] {
		return false
	}
	return e.includeTests || !isTestFile(path)
}

// Extract parses files concurrently and merges their classes. Files are
// merged in path order: when a class name appears more than once the first
// occurrence wins. A parent that is not among the extracted classes is
// dropped, making the class a root, since a registry only links to
// registered classes. Both cases are reported as warnings.
func (e *Extractor) Extract(ctx context.Context, files []string) (*Result, error) {
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if e.Supports(f) {
			paths = append(paths, f)
		}
	}
	slices.Sort(paths)
	paths = slices.Compact(paths)

	perFile := make([][]ClassInfo, len(paths))
	var (
		mu   sync.Mutex
		errs []ProcessingError
	)

	p := pool.New().WithContext(ctx).WithMaxGoroutines(e.maxWorkers)
	for i, path := range paths {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			defer func() {
				if e.onProgress != nil {
					e.onProgress()
				}
			}()

			classes, err := e.extractFile(ctx, path)
			if err != nil {
				mu.Lock()
				errs = append(errs, ProcessingError{Path: path, Err: err})
				mu.Unlock()
				return nil
			}
			perFile[i] = classes
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(errs, func(a, b ProcessingError) int { return strings.Compare(a.Path, b.Path) })
	result := merge(ctx, perFile)
	result.Errors = errs
	result.Files = len(paths) - len(errs)
	return result, nil
}

func (e *Extractor) extractFile(ctx context.Context, path string) ([]ClassInfo, error) {
	if e.maxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.Size() > e.maxFileSize {
			slogctx.Debug(ctx, "skipping large file", "path", path, "size", info.Size())
			return nil, nil
		}
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ExtractSource(ctx, path, source)
}

// ExtractSource parses one file's contents. The language is taken from
// path. Parent names are returned as written, reduced to a bare class name.
func ExtractSource(ctx context.Context, path string, source []byte) ([]ClassInfo, error) {
	lang := DetectLanguage(path)
	if lang == LangUnknown {
		return nil, fmt.Errorf("unsupported language for file: %s", path)
	}

	psr := newParser()
	defer psr.close()

	tree, err := psr.parse(ctx, source, lang)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	var raw []rawClass
	switch lang {
	case LangJavaScript, LangTypeScript, LangTSX:
		raw = extractECMAScript(tree.RootNode(), source)
	case LangPython:
		raw = extractPython(tree.RootNode(), source)
	case LangJava:
		raw = extractJava(tree.RootNode(), source)
	}

	classes := make([]ClassInfo, 0, len(raw))
	for _, rc := range raw {
		parent := ""
		if rc.parent != "" {
			parent = typeName(rc.parent)
			if parent == "" {
				slogctx.Debug(ctx, "ignoring non-class parent expression",
					"class", rc.name, "expr", rc.parent, "path", path)
			}
		}
		classes = append(classes, ClassInfo{
			Declaration: hierarchy.Declaration{
				Name:       rc.name,
				Extends:    parent,
				Methods:    rc.methods,
				Attributes: rc.attributes,
			},
			Path:     path,
			Language: lang,
			Line:     rc.line,
		})
	}
	return classes, nil
}

// merge applies the first-wins and unknown-parent rules to per-file
// results already ordered by path.
func merge(ctx context.Context, perFile [][]ClassInfo) *Result {
	result := &Result{}
	firstSeen := make(map[string]ClassInfo)

	for _, classes := range perFile {
		for _, c := range classes {
			if prev, dup := firstSeen[c.Name]; dup {
				msg := fmt.Sprintf("duplicate class %s at %s:%d (keeping %s:%d)",
					c.Name, c.Path, c.Line, prev.Path, prev.Line)
				result.Warnings = append(result.Warnings, msg)
				slogctx.Warn(ctx, "skipping duplicate class",
					"class", c.Name, "path", c.Path, "first", prev.Path)
				continue
			}
			firstSeen[c.Name] = c
			result.Classes = append(result.Classes, c)
		}
	}

	for i := range result.Classes {
		c := &result.Classes[i]
		if c.Extends == "" {
			continue
		}
		if _, ok := firstSeen[c.Extends]; !ok {
			msg := fmt.Sprintf("class %s extends unknown class %s; treating it as a root", c.Name, c.Extends)
			result.Warnings = append(result.Warnings, msg)
			slogctx.Warn(ctx, "dropping unresolved parent",
				"class", c.Name, "parent", c.Extends, "path", c.Path)
			c.Extends = ""
		}
	}
	return result
}

func isTestFile(path string) bool {
	return strings.HasSuffix(path, "_test.py") ||
		strings.HasPrefix(lastSegment(path), "test_") ||
		strings.HasSuffix(path, "Test.java") ||
		strings.Contains(path, ".test.") ||
		strings.Contains(path, ".spec.") ||
		strings.Contains(path, "/test/") ||
		strings.Contains(path, "/tests/") ||
		strings.Contains(path, "/__tests__/")
}

func lastSegment(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
