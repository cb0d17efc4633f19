package pipeline

import (
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// markdownExts are the link targets rewritten to their generated page.
var markdownExts = []string{".md", ".markdown"}

// RewriteMarkdownLinks points relative links at markdown sources to the
// generated .html pages: a[href="guide/intro.md#setup"] becomes
// "guide/intro.html#setup". Query strings and fragments are kept.
//
// Not rewritten:
//   - URLs with a scheme and protocol-relative URLs
//   - pure fragments
//   - links that do not end in a markdown extension
//
// The HTML is reparsed and rendered again, so text content comes back
// escaped. Callers opt in for that reason.
func RewriteMarkdownLinks(htmlContent string) (string, error) {
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	if !rewriteLinks(doc) {
		return htmlContent, nil
	}
	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.ToLower(strings.TrimSpace(content))

	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, true, nil
}

// renderHTML renders the document back to string. Fragments render their
// children only, without an <html><body> wrapper.
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if !isFragment {
		if err := html.Render(&buf, doc); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteLinks walks the tree and reports whether any href changed.
func rewriteLinks(n *html.Node) bool {
	changed := false
	if n.Type == html.ElementNode && n.DataAtom == atom.A {
		for i, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			if target, ok := PageLink(attr.Val); ok {
				n.Attr[i].Val = target
				changed = true
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if rewriteLinks(c) {
			changed = true
		}
	}
	return changed
}

// PageLink maps a relative markdown link to its .html page. It reports
// false when href should be left alone.
func PageLink(href string) (string, bool) {
	if !isRelativeLink(href) {
		return "", false
	}

	target, suffix := href, ""
	if i := strings.IndexAny(href, "?#"); i != -1 {
		target, suffix = href[:i], href[i:]
	}

	ext := path.Ext(target)
	for _, md := range markdownExts {
		if strings.EqualFold(ext, md) {
			return strings.TrimSuffix(target, ext) + ".html" + suffix, true
		}
	}
	return "", false
}

// isRelativeLink reports whether href is a site-relative path.
func isRelativeLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "//") {
		return false
	}
	if i := strings.Index(href, ":"); i != -1 {
		// A colon before any slash marks a scheme (http:, mailto:, data:).
		if j := strings.Index(href, "/"); j == -1 || i < j {
			return false
		}
	}
	return true
}
