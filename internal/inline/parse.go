package inline

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnbalancedDelimiter indicates an emphasis or code delimiter without a
// closing partner in the same span.
var ErrUnbalancedDelimiter = errors.New("unbalanced delimiter")

// UnbalancedError reports the delimiter and the byte offset of the unclosed
// opener within the span text it was found in.
type UnbalancedError struct {
	Delimiter string
	Offset    int
	Text      string
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%s: no closing %q for opener at offset %d in %q",
		ErrUnbalancedDelimiter, e.Delimiter, e.Offset, e.Text)
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalancedDelimiter
}

// Delimiter passes run in this order. Bold must precede italic so that "**"
// is not read as two italic markers.
var delimiterPasses = []struct {
	delim string
	kind  Kind
}{
	{"**", Bold},
	{"*", Italic},
	{"`", Code},
}

// Parse converts text into spans. Empty text yields no spans.
func Parse(text string) ([]Span, error) {
	if text == "" {
		return nil, nil
	}

	spans := []Span{Text(text)}
	for _, p := range delimiterPasses {
		var err error
		spans, err = SplitDelimiter(spans, p.delim, p.kind)
		if err != nil {
			return nil, err
		}
	}
	spans = SplitImages(spans)
	spans = SplitLinks(spans)
	return spans, nil
}

// SplitDelimiter splits every plain span on delim. Text between a pair of
// delimiters becomes a span of kind; text outside stays plain. Empty parts
// are dropped, as are incoming spans with neither text nor URL. Spans that
// are not plain pass through untouched.
func SplitDelimiter(spans []Span, delim string, kind Kind) ([]Span, error) {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Text == "" && s.URL == "" {
			continue
		}
		if s.Kind != Plain || delim == "" || !strings.Contains(s.Text, delim) {
			out = append(out, s)
			continue
		}
		split, err := splitOnDelimiter(s.Text, delim, kind)
		if err != nil {
			return nil, err
		}
		out = append(out, split...)
	}
	return out, nil
}

// splitOnDelimiter scans text left to right, toggling between plain and
// kind at each non-overlapping occurrence of delim.
func splitOnDelimiter(text, delim string, kind Kind) ([]Span, error) {
	var (
		out    []Span
		rest   = text
		offset = 0
		inside = false
		openAt = -1
	)

	for {
		i := strings.Index(rest, delim)
		if i < 0 {
			break
		}
		if inside {
			out = appendPart(out, rest[:i], kind)
		} else {
			out = appendPart(out, rest[:i], Plain)
			openAt = offset + i
		}
		inside = !inside
		offset += i + len(delim)
		rest = rest[i+len(delim):]
	}

	if inside {
		return nil, &UnbalancedError{Delimiter: delim, Offset: openAt, Text: text}
	}
	return appendPart(out, rest, Plain), nil
}

func appendPart(out []Span, part string, kind Kind) []Span {
	if part == "" {
		return out
	}
	return append(out, Styled(part, kind))
}

// Ref is a markdown reference: the bracketed text and the parenthesized URL.
type Ref struct {
	Text string
	URL  string
}

var (
	imagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(([^\)]*)\)`)
	linkPattern  = regexp.MustCompile(`\[([^\]]*)\]\(([^\)]*)\)`)
)

// refMatch locates a reference inside the text it was found in.
type refMatch struct {
	start, end int
	ref        Ref
}

// ExtractImages returns every ![alt](url) in text, in order.
func ExtractImages(text string) []Ref {
	return refsOf(findImages(text))
}

// ExtractLinks returns every [text](url) in text that is not an image.
func ExtractLinks(text string) []Ref {
	return refsOf(findLinks(text))
}

func refsOf(matches []refMatch) []Ref {
	refs := make([]Ref, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m.ref)
	}
	return refs
}

func findImages(text string) []refMatch {
	locs := imagePattern.FindAllStringSubmatchIndex(text, -1)
	matches := make([]refMatch, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, newRefMatch(text, 0, loc))
	}
	return matches
}

// findLinks emulates a (?<!!) lookbehind, which RE2 lacks: a candidate that
// follows '!' is rejected and the search resumes one byte after its start.
func findLinks(text string) []refMatch {
	var matches []refMatch
	for pos := 0; pos < len(text); {
		loc := linkPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start := pos + loc[0]
		if start > 0 && text[start-1] == '!' {
			pos = start + 1
			continue
		}
		matches = append(matches, newRefMatch(text, pos, loc))
		pos += loc[1]
	}
	return matches
}

func newRefMatch(text string, base int, loc []int) refMatch {
	return refMatch{
		start: base + loc[0],
		end:   base + loc[1],
		ref: Ref{
			Text: text[base+loc[2] : base+loc[3]],
			URL:  text[base+loc[4] : base+loc[5]],
		},
	}
}

// SplitImages replaces ![alt](url) in plain spans with Image spans. Plain
// spans left empty are dropped.
func SplitImages(spans []Span) []Span {
	return splitRefs(spans, findImages, Image)
}

// SplitLinks replaces [text](url) in plain spans with Link spans.
func SplitLinks(spans []Span) []Span {
	return splitRefs(spans, findLinks, Link)
}

func splitRefs(spans []Span, find func(string) []refMatch, kind Kind) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Kind != Plain {
			out = append(out, s)
			continue
		}
		matches := find(s.Text)
		last := 0
		for _, m := range matches {
			out = appendPart(out, s.Text[last:m.start], Plain)
			out = append(out, Linked(m.ref.Text, kind, m.ref.URL))
			last = m.end
		}
		out = appendPart(out, s.Text[last:], Plain)
	}
	return out
}
