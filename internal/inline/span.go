// Package inline tokenizes a line of markdown into typed text spans: plain,
// bold, italic, code, link and image.
//
// Parsing is a fixed sequence of flat passes. Each pass only splits spans that
// are still plain, so emphasis never nests and markup inside an already typed
// span is left as literal text.
package inline

import "fmt"

// Kind identifies the semantic type of a span.
type Kind int

// Span kinds.
const (
	Plain Kind = iota
	Bold
	Italic
	Code
	Link
	Image
)

var kindNames = [...]string{
	Plain:  "plain",
	Bold:   "bold",
	Italic: "italic",
	Code:   "code",
	Link:   "link",
	Image:  "image",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// HasURL reports whether spans of this kind carry a URL.
func (k Kind) HasURL() bool {
	return k == Link || k == Image
}

// Span is a run of text tagged with a kind. URL is set only for Link and
// Image spans, where Text holds the anchor or alt text.
type Span struct {
	Text string
	Kind Kind
	URL  string
}

// Text returns a plain span.
func Text(s string) Span {
	return Span{Text: s, Kind: Plain}
}

// Styled returns a span of a kind that carries no URL.
func Styled(s string, kind Kind) Span {
	return Span{Text: s, Kind: kind}
}

// Linked returns a Link or Image span.
func Linked(s string, kind Kind, url string) Span {
	return Span{Text: s, Kind: kind, URL: url}
}

// String formats the span for debugging, e.g. "bold(inline bold)".
func (s Span) String() string {
	if s.Kind.HasURL() {
		return fmt.Sprintf("%s(%s, %s)", s.Kind, s.Text, s.URL)
	}
	return fmt.Sprintf("%s(%s)", s.Kind, s.Text)
}
