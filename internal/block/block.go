// Package block splits a markdown document into blank-line separated blocks
// and classifies each one by a fixed grammar.
//
// Segmentation is deliberately naive: a fenced code block that contains a
// blank line is split at that line like any other text.
package block

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the structural kind of a block.
type Type int

// Block types.
const (
	Paragraph Type = iota
	Heading
	Code
	Quote
	UnorderedList
	OrderedList
)

var typeNames = [...]string{
	Paragraph:     "paragraph",
	Heading:       "heading",
	Code:          "code",
	Quote:         "quote",
	UnorderedList: "unordered_list",
	OrderedList:   "ordered_list",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Fence opens and closes a code block.
const Fence = "```"

// MaxHeadingLevel is the deepest heading the grammar recognizes.
const MaxHeadingLevel = 6

// blockSeparator is a single blank line. Longer runs leave empty or
// newline-only chunks that trimming removes.
const blockSeparator = "\n\n"

// Block is a trimmed chunk of the document and its classification.
// Level is the heading depth (1-6) for Heading blocks and zero otherwise.
type Block struct {
	Text  string
	Type  Type
	Level int
}

// Parse segments doc and classifies every block, preserving order.
func Parse(doc string) []Block {
	chunks := Segment(doc)
	blocks := make([]Block, 0, len(chunks))
	for _, text := range chunks {
		typ, level := Classify(text)
		blocks = append(blocks, Block{Text: text, Type: typ, Level: level})
	}
	return blocks
}

// Segment splits doc on blank lines, trims surrounding whitespace from each
// chunk and drops chunks that end up empty.
func Segment(doc string) []string {
	parts := strings.Split(doc, blockSeparator)
	chunks := make([]string, 0, len(parts))
	for _, part := range parts {
		if chunk := strings.TrimSpace(part); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// Classify returns the type of a trimmed block and, for headings, the level.
// Rules are tried in order and the first match wins.
func Classify(text string) (Type, int) {
	if level := HeadingLevel(text); level > 0 {
		return Heading, level
	}
	if IsCode(text) {
		return Code, 0
	}

	lines := strings.Split(text, "\n")
	switch {
	case allLines(lines, isQuoteToken):
		return Quote, 0
	case allLines(lines, isBulletToken):
		return UnorderedList, 0
	case allLines(lines, isOrderedToken):
		return OrderedList, 0
	}
	return Paragraph, 0
}

// HeadingLevel returns the number of leading '#' when text is a single line
// starting with one to six of them followed by a space, and zero otherwise.
// A multi-line block is never a heading.
func HeadingLevel(text string) int {
	if strings.Contains(text, "\n") {
		return 0
	}
	n := 0
	for n < len(text) && text[n] == '#' {
		n++
	}
	if n == 0 || n > MaxHeadingLevel {
		return 0
	}
	if n >= len(text) || text[n] != ' ' {
		return 0
	}
	return n
}

// IsCode reports whether text both starts and ends with a fence.
func IsCode(text string) bool {
	return strings.HasPrefix(text, Fence) && strings.HasSuffix(text, Fence)
}

// FirstToken returns the text before the first space of line, or the whole
// line when it has no space.
func FirstToken(line string) string {
	token, _, _ := strings.Cut(line, " ")
	return token
}

func allLines(lines []string, match func(token string, index int) bool) bool {
	for i, line := range lines {
		if !match(FirstToken(line), i) {
			return false
		}
	}
	return true
}

func isQuoteToken(token string, _ int) bool {
	return token == ">"
}

func isBulletToken(token string, _ int) bool {
	return token == "*" || token == "-"
}

func isOrderedToken(token string, index int) bool {
	return token == strconv.Itoa(index+1)+"."
}
