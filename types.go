package md2site

import "github.com/alnah/go-md2site/internal/pipeline"

// Rendering engines accepted by WithEngine.
const (
	EngineNative   = pipeline.EngineNative
	EngineGoldmark = pipeline.EngineGoldmark
)

// Input contains the data for generating one page.
type Input struct {
	Markdown string // Required: page source
	Title    string // Optional: overrides the first "# " heading
	CSS      string // Optional: appended after the generator style
}

// Page is a generated page.
type Page struct {
	Title   string // Title substituted into the template
	Content string // Rendered body, before templating
	HTML    []byte // Complete page
}

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	engine        string
	templateInput string
	styleInput    string
	assetPath     string
	rewriteLinks  bool

	resolvedStyle string
}

// WithEngine selects the Markdown engine: EngineNative (default) or
// EngineGoldmark. Unknown names fail in NewGenerator with ErrUnknownEngine.
func WithEngine(engine string) Option {
	return func(g *Generator) {
		g.cfg.engine = engine
	}
}

// WithTemplate sets the page template. The input is one of:
//   - a template name, resolved through the asset loader ("default", "bare")
//   - a file path (contains a path separator)
//   - template content (contains "{{")
func WithTemplate(nameOrPathOrContent string) Option {
	return func(g *Generator) {
		g.cfg.templateInput = nameOrPathOrContent
	}
}

// WithStyle sets the CSS injected into every page. The input is one of:
//   - a style name, resolved through the asset loader ("default", "dark")
//   - a file path (contains a path separator)
//   - CSS content (contains "{")
//   - NoStyle, to inject nothing
func WithStyle(nameOrPathOrCSS string) Option {
	return func(g *Generator) {
		g.cfg.styleInput = nameOrPathOrCSS
	}
}

// WithAssetPath looks up style and template names in basePath first,
// falling back to the built-in assets.
func WithAssetPath(basePath string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = basePath
	}
}

// WithAssetLoader sets a custom loader for style and template names.
// It takes precedence over WithAssetPath.
func WithAssetLoader(loader AssetLoader) Option {
	return func(g *Generator) {
		g.publicAssetLoader = loader
	}
}

// WithRewriteLinks rewrites relative links to .md files so they point to
// the generated .html pages. Text in the page body comes back HTML-escaped
// when enabled.
func WithRewriteLinks(enabled bool) Option {
	return func(g *Generator) {
		g.cfg.rewriteLinks = enabled
	}
}
