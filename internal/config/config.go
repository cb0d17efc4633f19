// Package config loads and validates the YAML site configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir names the per-user configuration directory.
const AppDir = "go-md2site"

// Field limits.
const (
	MaxPathLength = 4096
	MaxNameLength = 64
	MaxAddrLength = 255
	MaxWorkers    = 32
)

// Accepted enumerated values. Empty strings mean "use the default".
var (
	Engines   = []string{"native", "goldmark"}
	LogLevels = []string{"debug", "info", "warn", "error"}
)

// Config holds all configuration for a site build.
type Config struct {
	Content  ContentConfig  `yaml:"content" json:"content"`
	Static   StaticConfig   `yaml:"static" json:"static"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	Template TemplateConfig `yaml:"template" json:"template"`
	Style    StyleConfig    `yaml:"style" json:"style"`
	Assets   AssetsConfig   `yaml:"assets" json:"assets"`
	Render   RenderConfig   `yaml:"render" json:"render"`
	Build    BuildConfig    `yaml:"build" json:"build"`
	Serve    ServeConfig    `yaml:"serve" json:"serve"`
	Log      LogConfig      `yaml:"log" json:"log"`
}

// ContentConfig locates the markdown sources.
type ContentConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// StaticConfig locates files copied verbatim into the output.
type StaticConfig struct {
	Dir string `yaml:"dir" json:"dir"`
}

// OutputConfig defines where and how pages are written.
type OutputConfig struct {
	Dir  string `yaml:"dir" json:"dir"`   // Deleted and recreated on every build
	Gzip bool   `yaml:"gzip" json:"gzip"` // Also write .html.gz siblings
}

// TemplateConfig selects the page template.
type TemplateConfig struct {
	Name string `yaml:"name" json:"name"` // Built-in or {assets}/templates/{name}.html
}

// StyleConfig selects the stylesheet inlined into pages.
type StyleConfig struct {
	Name string `yaml:"name" json:"name"` // Empty = no CSS
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath" json:"basePath"` // Empty = embedded assets only
}

// RenderConfig selects the markdown engine.
type RenderConfig struct {
	Engine       string `yaml:"engine" json:"engine"`             // "native" or "goldmark"
	RewriteLinks bool   `yaml:"rewriteLinks" json:"rewriteLinks"` // foo.md -> foo.html
}

// BuildConfig tunes page generation.
type BuildConfig struct {
	Workers int `yaml:"workers" json:"workers"` // 0 = auto
}

// ServeConfig configures the development server.
type ServeConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Content:  ContentConfig{Dir: "content"},
		Static:   StaticConfig{Dir: "static"},
		Output:   OutputConfig{Dir: "public"},
		Template: TemplateConfig{Name: "default"},
		Style:    StyleConfig{Name: "default"},
		Render:   RenderConfig{Engine: "native"},
		Serve:    ServeConfig{Addr: "localhost:8080"},
		Log:      LogConfig{Level: "info"},
	}
}

// Validate checks enumerations, ranges and field lengths. Called by
// LoadConfig, and again by the CLI after flags and environment are merged.
func (c *Config) Validate() error {
	paths := []struct {
		field, value string
	}{
		{"content.dir", c.Content.Dir},
		{"static.dir", c.Static.Dir},
		{"output.dir", c.Output.Dir},
		{"assets.basePath", c.Assets.BasePath},
	}
	for _, p := range paths {
		if err := validateFieldLength(p.field, p.value, MaxPathLength); err != nil {
			return err
		}
	}

	if err := validateFieldLength("template.name", c.Template.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("style.name", c.Style.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("serve.addr", c.Serve.Addr, MaxAddrLength); err != nil {
		return err
	}

	if err := validateOneOf("render.engine", c.Render.Engine, Engines); err != nil {
		return err
	}
	if err := validateOneOf("log.level", strings.ToLower(c.Log.Level), LogLevels); err != nil {
		return err
	}

	if c.Build.Workers < 0 || c.Build.Workers > MaxWorkers {
		return fmt.Errorf("%w: build.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Build.Workers)
	}

	sources := []struct{ field, dir string }{
		{"content.dir", c.Content.Dir},
		{"static.dir", c.Static.Dir},
	}
	for _, src := range sources {
		overlap, err := fileutil.Overlaps(c.Output.Dir, src.dir)
		if err != nil {
			return fmt.Errorf("%w: output.dir: %w", ErrInvalidValue, err)
		}
		if overlap {
			return fmt.Errorf("%w: output.dir %q overlaps %s %q", ErrInvalidValue, c.Output.Dir, src.field, src.dir)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateOneOf(fieldName, value string, valid []string) error {
	if value == "" || slices.Contains(valid, value) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (valid: %s)", ErrInvalidValue, fieldName, value, strings.Join(valid, ", "))
}

// LoadConfig loads configuration from a file path or config name, on top
// of DefaultConfig. A value containing a path separator is a file path;
// anything else is a name searched in standard locations. A missing file is
// an error (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, string, error) {
	if nameOrPath == "" {
		return nil, "", ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, "", err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, "", fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return cfg, configPath, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// SearchPaths lists the files tried for a config name, in order: the
// current directory, then $XDG_CONFIG_HOME/go-md2site/, each with .yaml
// before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
