package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for mood.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// Thresholds for flagging classes
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// Source extraction settings
	Extract ExtractConfig `koanf:"extract"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls the hierarchy analyzer.
type AnalysisConfig struct {
	MaxWorkers int    `koanf:"max_workers"` // 0 = NumCPU
	Sort       string `koanf:"sort"`        // name, dit, noc, mif, pof
}

// ThresholdConfig defines metric thresholds. Zero disables a threshold.
type ThresholdConfig struct {
	MaxDIT int `koanf:"max_dit"`
	MaxNOC int `koanf:"max_noc"`
}

// ExtractConfig controls which source files feed the extractor.
type ExtractConfig struct {
	Languages    []string `koanf:"languages"`
	IncludeTests bool     `koanf:"include_tests"`
	MaxFileSize  int64    `koanf:"max_file_size"` // bytes, 0 = no limit
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"`
	Dirs      []string `koanf:"dirs"`
	Gitignore bool     `koanf:"gitignore"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			MaxWorkers: 0,
			Sort:       "name",
		},
		Thresholds: ThresholdConfig{
			MaxDIT: 5,
			MaxNOC: 6,
		},
		Extract: ExtractConfig{
			Languages:    []string{"javascript", "typescript", "tsx", "python", "java"},
			IncludeTests: false,
			MaxFileSize:  1 << 20,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
				"*.bundle.js",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".mood",
				"dist",
				"build",
				"target",
				"__pycache__",
				".venv",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".mood/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load reads configuration from a file, layered over the defaults.
// The parser is chosen by extension; unknown extensions are read as TOML.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// configNames are searched, in order, in each of searchDirs.
var configNames = []string{
	"mood.toml",
	"mood.yaml",
	"mood.yml",
	"mood.json",
	".mood.toml",
	".mood.yaml",
	".mood.yml",
	".mood.json",
}

var searchDirs = []string{".", ".mood"}

// FindConfigFile returns the first config file found in the search
// locations, or "" if there is none.
func FindConfigFile() string {
	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the first config file found, falling back to
// defaults if none exists or it cannot be loaded.
func LoadOrDefault() *Config {
	if path := FindConfigFile(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

// LoadResult is a loaded config and the file it came from.
type LoadResult struct {
	Config *Config
	// Source is the file that was loaded; empty when defaults were used.
	Source string
}

type loadOptions struct {
	path string
}

// LoadOption configures LoadConfig.
type LoadOption func(*loadOptions)

// WithPath loads the given file instead of searching for one.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) {
		o.path = path
	}
}

// LoadConfig loads an explicit config file, or searches the default
// locations. Unlike LoadOrDefault, errors in a found file are returned.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	path := o.path
	if path == "" {
		path = FindConfigFile()
	}
	if path == "" {
		return &LoadResult{Config: DefaultConfig()}, nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &LoadResult{Config: cfg, Source: path}, nil
}

var (
	validFormats = []string{"text", "json", "markdown", "toon"}
	validSorts   = []string{"name", "dit", "noc", "mif", "pof"}
)

// Validate reports values that are out of range.
func (c *Config) Validate() error {
	var problems []string
	if c.Thresholds.MaxDIT < 0 {
		problems = append(problems, "thresholds.max_dit must be >= 0")
	}
	if c.Thresholds.MaxNOC < 0 {
		problems = append(problems, "thresholds.max_noc must be >= 0")
	}
	if c.Analysis.MaxWorkers < 0 {
		problems = append(problems, "analysis.max_workers must be >= 0")
	}
	if c.Cache.TTL < 0 {
		problems = append(problems, "cache.ttl must be >= 0")
	}
	if c.Output.Format != "" && !contains(validFormats, c.Output.Format) {
		problems = append(problems, fmt.Sprintf("output.format %q is not one of %s",
			c.Output.Format, strings.Join(validFormats, ", ")))
	}
	if c.Analysis.Sort != "" && !contains(validSorts, c.Analysis.Sort) {
		problems = append(problems, fmt.Sprintf("analysis.sort %q is not one of %s",
			c.Analysis.Sort, strings.Join(validSorts, ", ")))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ShouldExclude reports whether path matches an excluded directory or
// file pattern.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
