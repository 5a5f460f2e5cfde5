package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/mood/pkg/config"
	"github.com/panbanda/mood/pkg/extract"
)

// Scanner finds extractable source files under a set of paths.
type Scanner struct {
	config *config.Config

	// matcher holds config patterns, matched relative to the scan root.
	matcher gitignore.Matcher
	// gitMatcher holds .gitignore patterns, matched relative to gitRoot.
	gitMatcher gitignore.Matcher
	gitRoot    string
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		gitDir := filepath.Join(dir, ".git")
		if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadExcludePatterns builds the matchers for one scan root. Excluded
// directory names and file patterns from config use gitignore syntax.
func (s *Scanner) loadExcludePatterns(absRoot string) {
	var patterns []gitignore.Pattern
	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(strings.TrimSuffix(dir, "/")+"/", nil))
	}
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}
	s.matcher = nil
	if len(patterns) > 0 {
		s.matcher = gitignore.NewMatcher(patterns)
	}

	s.gitMatcher, s.gitRoot = nil, ""
	if !s.config.Exclude.Gitignore {
		return
	}
	gitRoot := findGitRoot(absRoot)
	if gitRoot == "" {
		return
	}
	// ReadPatterns recursively reads every .gitignore below the git root.
	gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil)
	if err != nil || len(gitPatterns) == 0 {
		return
	}
	s.gitMatcher = gitignore.NewMatcher(gitPatterns)
	s.gitRoot = gitRoot
}

// isExcluded checks an absolute path against config and .gitignore patterns.
func (s *Scanner) isExcluded(absRoot, absPath string, isDir bool) bool {
	if s.matcher != nil {
		if rel, err := filepath.Rel(absRoot, absPath); err == nil && rel != "." {
			if s.matcher.Match(splitPath(rel), isDir) {
				return true
			}
		}
	}
	if s.gitMatcher != nil {
		if rel, err := filepath.Rel(s.gitRoot, absPath); err == nil && rel != "." {
			if s.gitMatcher.Match(splitPath(rel), isDir) {
				return true
			}
		}
	}
	return false
}

func splitPath(rel string) []string {
	return strings.Split(filepath.ToSlash(rel), "/")
}

// ScanDir recursively scans a directory for source files the extractor
// understands. Paths are returned as walked from root, sorted.
// Symlinks that escape root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadExcludePatterns(absRoot)

	var files []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		absPath := filepath.Join(absRoot, rel)

		if d.IsDir() {
			if path != root && s.isExcluded(absRoot, absPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcluded(absRoot, absPath, false) {
			return nil
		}
		if extract.DetectLanguage(path) != extract.LangUnknown {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be extracted.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if s.config.ShouldExclude(path) {
		return false, nil
	}
	return extract.DetectLanguage(path) != extract.LangUnknown, nil
}

// ScanPaths expands a mix of files and directories into a sorted,
// de-duplicated file list. Explicitly named files are kept even if they
// match an exclude pattern, as long as their language is supported.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		var found []string
		if info.IsDir() {
			found, err = s.ScanDir(p)
			if err != nil {
				return nil, err
			}
		} else if extract.DetectLanguage(p) != extract.LangUnknown {
			found = []string{p}
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
