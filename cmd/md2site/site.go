package main

import (
	"errors"
	"fmt"

	"go.uber.org/automaxprocs/maxprocs"

	md2site "github.com/alnah/go-md2site"
	"github.com/alnah/go-md2site/internal/config"
	"github.com/alnah/go-md2site/internal/hints"
	"github.com/alnah/go-md2site/internal/logger"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrContentDir     = errors.New("content directory not found")
	ErrOutputDir      = errors.New("failed to prepare output directory")
	ErrPagesFailed    = errors.New("pages failed")
	ErrListen         = errors.New("failed to listen")
)

// defaultConfigName is looked up when neither --config nor MD2SITE_CONFIG
// is given. Its absence is not an error.
const defaultConfigName = "md2site"

// sourceDefaults reports a configuration built without a file.
const sourceDefaults = "defaults"

// loadSiteConfig resolves the site configuration:
// flags > environment > config file > defaults.
// It returns the config and where it was loaded from.
func loadSiteConfig(common commonFlags, site *siteFlags, env *Environment) (*config.Config, string, error) {
	warnUnknownEnvVars(env.Logger)
	envCfg := loadEnvConfig()

	name := common.config
	if name == "" {
		name = envCfg.ConfigPath
	}

	cfg, source, err := loadConfigFile(name)
	if err != nil {
		return nil, "", err
	}

	applyEnvConfig(envCfg, cfg)
	if site != nil {
		mergeFlags(site, cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, source, nil
}

// loadConfigFile loads name, or the default config file when name is
// empty, falling back to defaults only in the latter case.
func loadConfigFile(name string) (*config.Config, string, error) {
	if name == "" {
		cfg, path, err := config.LoadConfig(defaultConfigName)
		if errors.Is(err, config.ErrConfigNotFound) {
			return config.DefaultConfig(), sourceDefaults, nil
		}
		if err != nil {
			return nil, "", fmt.Errorf("loading config: %w", err)
		}
		return cfg, path, nil
	}

	cfg, path, err := config.LoadConfig(name)
	if err != nil {
		hint := ""
		if errors.Is(err, config.ErrConfigNotFound) {
			hint = hints.ForConfigNotFound(config.SearchPaths(name))
		}
		return nil, "", fmt.Errorf("loading config: %w%s", err, hint)
	}
	return cfg, path, nil
}

// mergeFlags applies CLI flags to config. Flags win over everything else.
func mergeFlags(f *siteFlags, cfg *config.Config) {
	setString(&cfg.Output.Dir, f.output)
	setString(&cfg.Content.Dir, f.content)
	setString(&cfg.Static.Dir, f.static)
	setString(&cfg.Template.Name, f.template)
	setString(&cfg.Style.Name, f.style)
	setString(&cfg.Assets.BasePath, f.assetPath)
	setString(&cfg.Render.Engine, f.engine)

	if f.workers > 0 {
		cfg.Build.Workers = f.workers
	}
	if f.rewriteLinksSet {
		cfg.Render.RewriteLinks = f.rewriteLinks
	}
	if f.gzipSet {
		cfg.Output.Gzip = f.gzip
	}
}

// configureLogging sets the log level (--verbose and --quiet win over
// log.level) and GOMAXPROCS, whose messages are logged at debug level.
func configureLogging(common commonFlags, cfg *config.Config, log *logger.Logger) {
	switch {
	case common.verbose:
		log.SetLevel(logger.LevelDebug)
	case common.quiet:
		log.SetLevel(logger.LevelError)
	default:
		log.SetLevel(cfg.Log.Level)
	}

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(log.Printf))
}

// generatorOptions maps site configuration to generator options.
func generatorOptions(cfg *config.Config) []md2site.Option {
	style := cfg.Style.Name
	if style == "" {
		style = md2site.NoStyle
	}
	return []md2site.Option{
		md2site.WithEngine(cfg.Render.Engine),
		md2site.WithTemplate(cfg.Template.Name),
		md2site.WithStyle(style),
		md2site.WithAssetPath(cfg.Assets.BasePath),
		md2site.WithRewriteLinks(cfg.Render.RewriteLinks),
	}
}

// assetHint returns a hint for asset and template errors.
func assetHint(err error) string {
	switch {
	case errors.Is(err, md2site.ErrStyleNotFound):
		return hints.ForStyleNotFound(md2site.StyleNames())
	case errors.Is(err, md2site.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(md2site.TemplateNames())
	case errors.Is(err, md2site.ErrTemplateMissingContent):
		return hints.ForTemplateMissingContent()
	}
	return ""
}

// pageHint returns a hint for a page render error.
func pageHint(err error) string {
	var ue *md2site.UnbalancedError
	switch {
	case errors.As(err, &ue):
		return hints.ForUnbalancedDelimiter(ue.Delimiter)
	case errors.Is(err, md2site.ErrNoTitle):
		return hints.ForNoTitle()
	case errors.Is(err, md2site.ErrEmptyDocument), errors.Is(err, md2site.ErrEmptyMarkdown):
		return hints.ForEmptyDocument()
	}
	return ""
}
