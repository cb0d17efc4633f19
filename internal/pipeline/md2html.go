package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/alnah/go-md2site/internal/markdown"
)

// Rendering engines.
const (
	EngineNative   = "native"
	EngineGoldmark = "goldmark"
)

// Sentinel errors.
var (
	ErrHTMLConversion = errors.New("HTML conversion failed")
	ErrUnknownEngine  = errors.New("unknown rendering engine")
)

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// NewHTMLConverter returns the converter for engine. An empty name selects
// the native engine.
func NewHTMLConverter(engine string) (HTMLConverter, error) {
	switch engine {
	case "", EngineNative:
		return &NativeConverter{}, nil
	case EngineGoldmark:
		return NewGoldmarkConverter(), nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownEngine, engine, EngineNative, EngineGoldmark)
	}
}

// NativeConverter renders the supported markdown subset into a single div.
// Output is not escaped. Core errors are returned wrapped, so callers can
// match them with errors.Is.
type NativeConverter struct{}

// ToHTML converts content with the native block and inline parsers.
func (c *NativeConverter) ToHTML(ctx context.Context, content string) (string, error) {
	return runConversion(ctx, func() (string, error) {
		out, err := markdown.ToHTML(content)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrHTMLConversion, err)
		}
		return out, nil
	})
}

// GoldmarkConverter converts CommonMark with GFM extensions using goldmark.
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and syntax highlighting.
func NewGoldmarkConverter() *GoldmarkConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,      // Tables, strikethrough, autolinks, task lists
			extension.Footnote, // [^1] footnotes
			highlighting.NewHighlighting(
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true), // CSS classes, styled by the page stylesheet
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &GoldmarkConverter{md: md}
}

// ToHTML converts Markdown content to an HTML fragment.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	return runConversion(ctx, func() (string, error) {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("%w: %v", ErrHTMLConversion, err)
		}
		return buf.String(), nil
	})
}

// runConversion runs convert in a goroutine so that a cancelled context
// returns immediately. Neither engine accepts a context natively.
func runConversion(ctx context.Context, convert func() (string, error)) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		html, err := convert()
		done <- result{html: html, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
