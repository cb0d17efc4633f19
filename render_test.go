package md2site

import (
	"errors"
	"testing"
)

func TestRenderMarkdownToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "heading and paragraph",
			md:   "# Heading\n\nParagraph text.",
			want: "<div><h1>Heading</h1><p>Paragraph text.</p></div>",
		},
		{
			name: "image in paragraph",
			md:   "![image](https://x.test)",
			want: `<div><p><img src="https://x.test" alt="image"></p></div>`,
		},
		{
			name: "code block",
			md:   "```\nprint(1)\n```",
			want: "<div><pre><code>\nprint(1)\n</code></pre></div>",
		},
		{
			name: "list items parsed separately",
			md:   "* **a**\n* b",
			want: "<div><ul><li><b>a</b></li><li>b</li></ul></div>",
		},
		{
			name: "quote joined before parsing",
			md:   "> **bold across\n> lines**",
			want: "<div><blockquote><b>bold across\nlines</b></blockquote></div>",
		},
		{
			name: "ordered list",
			md:   "1. one\n2. two",
			want: "<div><ol><li>one</li><li>two</li></ol></div>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RenderMarkdownToHTML(tt.md)
			if err != nil {
				t.Fatalf("RenderMarkdownToHTML() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderMarkdownToHTML() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestRenderMarkdownToHTML_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		md      string
		wantErr error
	}{
		{"empty", "", ErrEmptyDocument},
		{"unbalanced bold", "some **bold", ErrUnbalancedDelimiter},
		{"empty list item", "- a\n-", ErrEmptyChildren},
		{"empty code block", "``````", ErrEmptyValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := RenderMarkdownToHTML(tt.md)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RenderMarkdownToHTML() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRenderMarkdownToHTML_UnbalancedDetails(t *testing.T) {
	t.Parallel()

	_, err := RenderMarkdownToHTML("fine\n\nthis has `code")

	var ue *UnbalancedError
	if !errors.As(err, &ue) {
		t.Fatalf("error %v is not an *UnbalancedError", err)
	}
	if ue.Delimiter != "`" {
		t.Errorf("Delimiter = %q, want %q", ue.Delimiter, "`")
	}
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	got, err := ExtractTitle("# This is a heading\n\n        # This is also a heading")
	if err != nil {
		t.Fatalf("ExtractTitle() unexpected error: %v", err)
	}
	if got != "This is a heading" {
		t.Errorf("ExtractTitle() = %q, want %q", got, "This is a heading")
	}

	if _, err := ExtractTitle("## only a subheading"); !errors.Is(err, ErrNoTitle) {
		t.Errorf("ExtractTitle() error = %v, want %v", err, ErrNoTitle)
	}
}
