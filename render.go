package md2site

import "github.com/alnah/go-md2site/internal/markdown"

// RenderMarkdownToHTML converts md with the native engine. The result is a
// single <div> holding one element per block, with no whitespace between
// elements. It fails with ErrEmptyDocument when no block produces output,
// and with ErrUnbalancedDelimiter, ErrEmptyValue or ErrEmptyChildren for
// malformed blocks.
func RenderMarkdownToHTML(md string) (string, error) {
	return markdown.ToHTML(md)
}

// ExtractTitle returns the trimmed text after the first line starting with
// "# ", or ErrNoTitle.
func ExtractTitle(md string) (string, error) {
	return markdown.ExtractTitle(md)
}
