// Package markdown assembles classified blocks into an HTML node tree and
// extracts page titles.
package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-md2site/internal/block"
	"github.com/alnah/go-md2site/internal/htmlnode"
	"github.com/alnah/go-md2site/internal/inline"
)

// Sentinel errors.
var (
	ErrEmptyDocument   = errors.New("document has no renderable blocks")
	ErrNoTitle         = errors.New("no title found")
	ErrUnknownSpanKind = errors.New("unknown span kind")
)

// RootTag wraps every rendered document.
const RootTag = "div"

const titlePrefix = "# "

// ToHTML renders md and serializes the resulting tree.
func ToHTML(md string) (string, error) {
	root, err := Render(md)
	if err != nil {
		return "", err
	}
	return htmlnode.Render(root)
}

// Render builds the document tree for md: one node per block, in order,
// under a div. Blocks that produce no children are skipped.
func Render(md string) (*htmlnode.Parent, error) {
	blocks := block.Parse(md)
	nodes := make([]htmlnode.Node, 0, len(blocks))
	for i, b := range blocks {
		n, err := BlockToNode(b)
		if err != nil {
			return nil, fmt.Errorf("block %d (%s): %w", i+1, b.Type, err)
		}
		if n != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return nil, ErrEmptyDocument
	}
	return htmlnode.NewParent(RootTag, nodes), nil
}

// BlockToNode converts one classified block. It returns nil when the block
// yields no children.
func BlockToNode(b block.Block) (*htmlnode.Parent, error) {
	var (
		tag      string
		children []htmlnode.Node
		err      error
	)

	switch b.Type {
	case block.Heading:
		tag = fmt.Sprintf("h%d", b.Level)
		children, err = textToChildren(dropPrefix(b.Text, b.Level+1))
	case block.Code:
		return codeNode(b.Text), nil
	case block.Quote:
		tag = "blockquote"
		children, err = textToChildren(quoteText(b.Text))
	case block.UnorderedList:
		tag = "ul"
		children, err = listItems(b.Text, bulletContent)
	case block.OrderedList:
		tag = "ol"
		children, err = listItems(b.Text, orderedContent)
	default:
		tag = "p"
		children, err = textToChildren(b.Text)
	}

	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}
	return htmlnode.NewParent(tag, children), nil
}

// codeNode keeps everything between the fences verbatim. Inline markup is
// not parsed.
func codeNode(text string) *htmlnode.Parent {
	content := ""
	if n := len(block.Fence); len(text) >= 2*n {
		content = text[n : len(text)-n]
	}
	code := htmlnode.NewLeaf("code", content)
	return htmlnode.NewParent("pre", []htmlnode.Node{code})
}

func quoteText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = dropPrefix(line, 2)
	}
	return strings.Join(lines, "\n")
}

func bulletContent(line string) string {
	return dropPrefix(line, 2)
}

func orderedContent(line string) string {
	_, content, _ := strings.Cut(line, " ")
	return content
}

// listItems parses each line as its own inline scope. An item with no
// content becomes an empty li, which fails at render time.
func listItems(text string, content func(string) string) ([]htmlnode.Node, error) {
	lines := strings.Split(text, "\n")
	items := make([]htmlnode.Node, 0, len(lines))
	for i, line := range lines {
		children, err := textToChildren(content(line))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		items = append(items, htmlnode.NewParent("li", children))
	}
	return items, nil
}

func dropPrefix(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	return s[n:]
}

func textToChildren(text string) ([]htmlnode.Node, error) {
	spans, err := inline.Parse(text)
	if err != nil {
		return nil, err
	}
	nodes := make([]htmlnode.Node, 0, len(spans))
	for _, s := range spans {
		n, err := SpanToNode(s)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// SpanToNode maps a span to its leaf element.
func SpanToNode(s inline.Span) (htmlnode.Node, error) {
	switch s.Kind {
	case inline.Plain:
		return htmlnode.Text(s.Text), nil
	case inline.Bold:
		return htmlnode.NewLeaf("b", s.Text), nil
	case inline.Italic:
		return htmlnode.NewLeaf("i", s.Text), nil
	case inline.Code:
		return htmlnode.NewLeaf("code", s.Text), nil
	case inline.Link:
		return htmlnode.NewLeaf("a", s.Text, htmlnode.Attr{Key: "href", Value: s.URL}), nil
	case inline.Image:
		return htmlnode.NewLeaf("img", s.URL, htmlnode.Attr{Key: "alt", Value: s.Text}), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpanKind, s.Kind)
	}
}

// ExtractTitle returns the trimmed text of the first line starting with
// "# ", which may be empty. It fails only when no such line exists.
func ExtractTitle(md string) (string, error) {
	for line := range strings.SplitSeq(md, "\n") {
		if rest, ok := strings.CutPrefix(line, titlePrefix); ok {
			return strings.TrimSpace(rest), nil
		}
	}
	return "", ErrNoTitle
}
