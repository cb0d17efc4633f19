package md2site

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-md2site/internal/assets"
	"github.com/alnah/go-md2site/internal/fileutil"
	"github.com/alnah/go-md2site/internal/markdown"
	"github.com/alnah/go-md2site/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.NormalizingPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.NativeConverter)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.TemplateInjector     = (*pipeline.TemplateInjection)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ AssetLoader                   = (*assetLoaderAdapter)(nil)
)

// templateMarker identifies inline template content passed to WithTemplate.
const templateMarker = "{{"

// Generator runs the page pipeline. Create with NewGenerator. A Generator
// is safe for concurrent use.
type Generator struct {
	cfg               generatorConfig
	assetLoader       assets.AssetLoader
	publicAssetLoader AssetLoader
	preprocessor      pipeline.MarkdownPreprocessor
	htmlConverter     pipeline.HTMLConverter
	templateInjector  pipeline.TemplateInjector
	cssInjector       pipeline.CSSInjector
}

// publicToInternalAdapter wraps public AssetLoader to internal assets.AssetLoader.
type publicToInternalAdapter struct {
	pub AssetLoader
}

func (a *publicToInternalAdapter) LoadStyle(name string) (string, error) {
	return a.pub.LoadStyle(name)
}

func (a *publicToInternalAdapter) LoadTemplate(name string) (string, error) {
	return a.pub.LoadTemplate(name)
}

// NewGenerator creates a Generator with the default template and style and
// the native engine. Returns an error if the engine is unknown, an asset
// cannot be loaded, or the template lacks {{ Content }}.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			engine:        EngineNative,
			templateInput: DefaultTemplate,
			styleInput:    DefaultStyle,
		},
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.NormalizingPreprocessor{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(g.cfg.assetPath)
		if err != nil {
			return nil, convertAssetError(err)
		}
		g.assetLoader = resolver
	}
	if g.publicAssetLoader != nil {
		g.assetLoader = &publicToInternalAdapter{pub: g.publicAssetLoader}
	}

	conv, err := pipeline.NewHTMLConverter(g.cfg.engine)
	if err != nil {
		return nil, err
	}
	g.htmlConverter = conv

	if err := g.resolveStyle(); err != nil {
		return nil, err
	}

	tmpl, err := g.resolveTemplate()
	if err != nil {
		return nil, err
	}
	g.templateInjector, err = pipeline.NewTemplateInjection(tmpl)
	if err != nil {
		return nil, fmt.Errorf("template %q: %w", g.templateName(), err)
	}

	return g, nil
}

// Engine returns the selected Markdown engine.
func (g *Generator) Engine() string {
	return g.cfg.engine
}

// Generate runs the pipeline for one page.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (g *Generator) Generate(ctx context.Context, input Input) (page *Page, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	md := g.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	title := input.Title
	if title == "" {
		title, err = markdown.ExtractTitle(md)
		if err != nil {
			return nil, fmt.Errorf("extracting title: %w", err)
		}
	}

	content, err := g.htmlConverter.ToHTML(ctx, md)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	if g.cfg.rewriteLinks {
		content, err = pipeline.RewriteMarkdownLinks(content)
		if err != nil {
			return nil, fmt.Errorf("rewriting links: %w", err)
		}
	}

	htmlContent, err := g.templateInjector.InjectPage(ctx, title, content)
	if err != nil {
		return nil, fmt.Errorf("applying template: %w", err)
	}

	cssContent := g.cfg.resolvedStyle
	if input.CSS != "" {
		if cssContent != "" {
			cssContent += "\n"
		}
		cssContent += input.CSS
	}
	htmlContent = g.cssInjector.InjectCSS(ctx, htmlContent, cssContent)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return &Page{
		Title:   title,
		Content: content,
		HTML:    []byte(htmlContent),
	}, nil
}

// resolveStyle resolves the style input (name, path, or CSS content) to CSS content.
func (g *Generator) resolveStyle() error {
	input := g.cfg.styleInput
	if input == "" || input == NoStyle {
		return nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return fmt.Errorf("loading style file %q: %w", input, err)
		}
		g.cfg.resolvedStyle = string(content)
		return nil
	}

	if fileutil.IsCSS(input) {
		g.cfg.resolvedStyle = input
		return nil
	}

	css, err := g.assetLoader.LoadStyle(input)
	if err != nil {
		return fmt.Errorf("loading style %q: %w", input, convertNameError(err, ErrStyleNotFound))
	}
	g.cfg.resolvedStyle = css
	return nil
}

// resolveTemplate resolves the template input (name, path, or content) to
// template HTML.
func (g *Generator) resolveTemplate() (string, error) {
	input := g.cfg.templateInput
	if input == "" {
		input = DefaultTemplate
	}

	if strings.Contains(input, templateMarker) {
		return input, nil
	}

	if fileutil.IsFilePath(input) {
		content, err := os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return "", fmt.Errorf("loading template file %q: %w", input, err)
		}
		return string(content), nil
	}

	tmpl, err := g.assetLoader.LoadTemplate(input)
	if err != nil {
		return "", fmt.Errorf("loading template %q: %w", input, convertNameError(err, ErrTemplateNotFound))
	}
	return tmpl, nil
}

// templateName describes the template input for error messages.
func (g *Generator) templateName() string {
	if strings.Contains(g.cfg.templateInput, templateMarker) {
		return "inline"
	}
	return g.cfg.templateInput
}
