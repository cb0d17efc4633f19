package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/logger"
)

// envPrefix namespaces md2site environment variables.
const envPrefix = "MD2SITE_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath   string // MD2SITE_CONFIG: config file name or path
	ContentDir   string // MD2SITE_CONTENT_DIR
	StaticDir    string // MD2SITE_STATIC_DIR
	OutputDir    string // MD2SITE_OUTPUT_DIR
	Template     string // MD2SITE_TEMPLATE
	Style        string // MD2SITE_STYLE
	AssetPath    string // MD2SITE_ASSET_PATH
	Engine       string // MD2SITE_ENGINE
	Addr         string // MD2SITE_ADDR
	LogLevel     string // MD2SITE_LOG_LEVEL
	Workers      int    // MD2SITE_WORKERS
	Gzip         *bool  // MD2SITE_GZIP
	RewriteLinks *bool  // MD2SITE_REWRITE_LINKS
}

// knownEnvVars lists valid MD2SITE_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2SITE_CONFIG":        true,
	"MD2SITE_CONTENT_DIR":   true,
	"MD2SITE_STATIC_DIR":    true,
	"MD2SITE_OUTPUT_DIR":    true,
	"MD2SITE_TEMPLATE":      true,
	"MD2SITE_STYLE":         true,
	"MD2SITE_ASSET_PATH":    true,
	"MD2SITE_ENGINE":        true,
	"MD2SITE_ADDR":          true,
	"MD2SITE_LOG_LEVEL":     true,
	"MD2SITE_WORKERS":       true,
	"MD2SITE_GZIP":          true,
	"MD2SITE_REWRITE_LINKS": true,
}

// loadEnvConfig reads configuration from environment variables.
// Unparsable numbers and booleans are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MD2SITE_CONFIG"),
		ContentDir: os.Getenv("MD2SITE_CONTENT_DIR"),
		StaticDir:  os.Getenv("MD2SITE_STATIC_DIR"),
		OutputDir:  os.Getenv("MD2SITE_OUTPUT_DIR"),
		Template:   os.Getenv("MD2SITE_TEMPLATE"),
		Style:      os.Getenv("MD2SITE_STYLE"),
		AssetPath:  os.Getenv("MD2SITE_ASSET_PATH"),
		Engine:     os.Getenv("MD2SITE_ENGINE"),
		Addr:       os.Getenv("MD2SITE_ADDR"),
		LogLevel:   os.Getenv("MD2SITE_LOG_LEVEL"),
	}

	if workers := os.Getenv("MD2SITE_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}
	cfg.Gzip = envBool("MD2SITE_GZIP")
	cfg.RewriteLinks = envBool("MD2SITE_REWRITE_LINKS")

	return cfg
}

func envBool(name string) *bool {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// warnUnknownEnvVars logs warnings for unrecognized MD2SITE_* variables.
func warnUnknownEnvVars(log *logger.Logger) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			log.Warn("unknown environment variable (typo?)", "name", name)
		}
	}
}

// applyEnvConfig overrides config values with the environment variables
// that are set. Flags are merged afterwards, giving
// flags > environment > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	setString(&cfg.Content.Dir, env.ContentDir)
	setString(&cfg.Static.Dir, env.StaticDir)
	setString(&cfg.Output.Dir, env.OutputDir)
	setString(&cfg.Template.Name, env.Template)
	setString(&cfg.Style.Name, env.Style)
	setString(&cfg.Assets.BasePath, env.AssetPath)
	setString(&cfg.Render.Engine, env.Engine)
	setString(&cfg.Serve.Addr, env.Addr)
	setString(&cfg.Log.Level, env.LogLevel)

	if env.Workers > 0 {
		cfg.Build.Workers = env.Workers
	}
	if env.Gzip != nil {
		cfg.Output.Gzip = *env.Gzip
	}
	if env.RewriteLinks != nil {
		cfg.Render.RewriteLinks = *env.RewriteLinks
	}
}

// setString overwrites *dst when v is non-empty.
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
