package pipeline

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

// Page template placeholders, replaced verbatim.
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// ErrTemplateMissingContent indicates a page template with nowhere to put
// the rendered page body.
var ErrTemplateMissingContent = errors.New("page template has no " + ContentPlaceholder + " placeholder")

// TemplateInjector places a page title and body into a page template.
type TemplateInjector interface {
	InjectPage(ctx context.Context, title, content string) (string, error)
}

// TemplateInjection substitutes the placeholders of one page template.
type TemplateInjection struct {
	tmpl string
}

// NewTemplateInjection checks tmpl for the content placeholder. The title
// placeholder is optional.
func NewTemplateInjection(tmpl string) (*TemplateInjection, error) {
	if !strings.Contains(tmpl, ContentPlaceholder) {
		return nil, ErrTemplateMissingContent
	}
	return &TemplateInjection{tmpl: tmpl}, nil
}

// InjectPage replaces every placeholder occurrence in a single pass, so a
// title that itself contains "{{ Content }}" is not expanded.
func (t *TemplateInjection) InjectPage(ctx context.Context, title, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r := strings.NewReplacer(TitlePlaceholder, title, ContentPlaceholder, content)
	return r.Replace(t.tmpl), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block before </head>, else right after the
// opening <body> tag, else at the start of the document.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	pos := styleInsertPos(htmlContent)
	return htmlContent[:pos] + styleBlock + htmlContent[pos:]
}

// Tag matches run on the original bytes so offsets stay valid for titles
// whose case folding changes length.
var (
	headClose = regexp.MustCompile(`(?i)</head>`)
	bodyOpen  = regexp.MustCompile(`(?i)<body[^>]*>`)
)

func styleInsertPos(htmlContent string) int {
	if loc := headClose.FindStringIndex(htmlContent); loc != nil {
		return loc[0]
	}
	if loc := bodyOpen.FindStringIndex(htmlContent); loc != nil {
		return loc[1]
	}
	return 0
}

// sanitizeCSS escapes "</" so stylesheet content cannot close the style
// element early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
