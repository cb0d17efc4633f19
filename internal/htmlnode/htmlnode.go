// Package htmlnode models rendered HTML as a small tree of element and text
// nodes, and serializes that tree to a string.
//
// A tree is built bottom-up, rendered once, then discarded. Nodes are never
// mutated after construction and never shared between parents.
package htmlnode

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for serialization.
var (
	ErrEmptyValue    = errors.New("leaf node must have a value")
	ErrMissingTag    = errors.New("parent node must have a tag")
	ErrEmptyChildren = errors.New("parent node must have children")
	ErrNilNode       = errors.New("nil node")
)

// imgTag is the only leaf rendered without a closing tag.
const imgTag = "img"

// Attr is a single HTML attribute. Attributes are kept in slices so that
// they render in insertion order.
type Attr struct {
	Key   string
	Value string
}

// Node is either a *Leaf or a *Parent.
type Node interface {
	node()
}

// Leaf holds a value and no children. An empty Tag renders Value as raw text.
// For "img" leaves, Value holds the image URL.
type Leaf struct {
	Tag   string
	Value string
	Attrs []Attr
}

// Parent holds an ordered, non-empty list of child nodes.
type Parent struct {
	Tag      string
	Children []Node
	Attrs    []Attr
}

func (*Leaf) node()   {}
func (*Parent) node() {}

// Compile-time checks that both variants satisfy Node.
var (
	_ Node = (*Leaf)(nil)
	_ Node = (*Parent)(nil)
)

// Text returns an untagged leaf holding raw text.
func Text(value string) *Leaf {
	return &Leaf{Value: value}
}

// NewLeaf returns a tagged leaf.
func NewLeaf(tag, value string, attrs ...Attr) *Leaf {
	return &Leaf{Tag: tag, Value: value, Attrs: attrs}
}

// NewParent returns a parent node owning children.
func NewParent(tag string, children []Node, attrs ...Attr) *Parent {
	return &Parent{Tag: tag, Children: children, Attrs: attrs}
}

// Render serializes n and everything below it.
func Render(n Node) (string, error) {
	var b strings.Builder
	if err := write(&b, n); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderAttrs renders attributes as ` key="value"` pairs in order.
// Values are written verbatim.
func RenderAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	writeAttrs(&b, attrs)
	return b.String()
}

func write(b *strings.Builder, n Node) error {
	switch n := n.(type) {
	case *Leaf:
		if n == nil {
			return ErrNilNode
		}
		return writeLeaf(b, n)
	case *Parent:
		if n == nil {
			return ErrNilNode
		}
		return writeParent(b, n)
	default:
		return ErrNilNode
	}
}

func writeLeaf(b *strings.Builder, l *Leaf) error {
	if l.Value == "" {
		if l.Tag == "" {
			return ErrEmptyValue
		}
		return fmt.Errorf("%w: <%s>", ErrEmptyValue, l.Tag)
	}

	switch l.Tag {
	case "":
		b.WriteString(l.Value)
	case imgTag:
		b.WriteString(`<img src="`)
		b.WriteString(l.Value)
		b.WriteByte('"')
		writeAttrs(b, l.Attrs)
		b.WriteByte('>')
	default:
		openTag(b, l.Tag, l.Attrs)
		b.WriteString(l.Value)
		closeTag(b, l.Tag)
	}
	return nil
}

func writeParent(b *strings.Builder, p *Parent) error {
	if p.Tag == "" {
		return ErrMissingTag
	}
	if len(p.Children) == 0 {
		return fmt.Errorf("%w: <%s>", ErrEmptyChildren, p.Tag)
	}

	openTag(b, p.Tag, p.Attrs)
	for _, child := range p.Children {
		if err := write(b, child); err != nil {
			return err
		}
	}
	closeTag(b, p.Tag)
	return nil
}

func openTag(b *strings.Builder, tag string, attrs []Attr) {
	b.WriteByte('<')
	b.WriteString(tag)
	writeAttrs(b, attrs)
	b.WriteByte('>')
}

func closeTag(b *strings.Builder, tag string) {
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteByte('>')
}

func writeAttrs(b *strings.Builder, attrs []Attr) {
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(a.Value)
		b.WriteByte('"')
	}
}
