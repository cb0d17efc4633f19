package block

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "empty document",
			doc:  "",
			want: []string{},
		},
		{
			name: "whitespace only",
			doc:  "\n\n   \n\n\t\n",
			want: []string{},
		},
		{
			name: "heading paragraph and list",
			doc: "# This is a heading\n\n" +
				"This is a paragraph of text. It has some **bold** and *italic* words inside of it.\n\n" +
				"* This is the first list item in a list block\n* This is a list item\n* This is another list item",
			want: []string{
				"# This is a heading",
				"This is a paragraph of text. It has some **bold** and *italic* words inside of it.",
				"* This is the first list item in a list block\n* This is a list item\n* This is another list item",
			},
		},
		{
			name: "extra blank lines and trailing spaces",
			doc: "# This is a heading\n\n" +
				"This is a paragraph of text.\n\n\n" +
				"* This is the first list item in a list block   \n* This is a list item\n* This is another list item     \n\n\n",
			want: []string{
				"# This is a heading",
				"This is a paragraph of text.",
				"* This is the first list item in a list block   \n* This is a list item\n* This is another list item",
			},
		},
		{
			name: "blank line inside a fence splits the block",
			doc:  "```\nfirst\n\nsecond\n```",
			want: []string{"```\nfirst", "second\n```"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if diff := cmp.Diff(tt.want, Segment(tt.doc)); diff != "" {
				t.Errorf("Segment() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		text      string
		wantType  Type
		wantLevel int
	}{
		{"h1", "# This is a heading", Heading, 1},
		{"h3", "### Third level", Heading, 3},
		{"h6", "###### Sixth level", Heading, 6},
		{"seven hashes is a paragraph", "####### Too deep", Paragraph, 0},
		{"hash without space is a paragraph", "#hashtag", Paragraph, 0},
		{"bare hash is a paragraph", "#", Paragraph, 0},
		{"multi-line block starting with hash is a paragraph", "# Title\nsecond line", Paragraph, 0},
		{"hash list lines are a paragraph", "# a\n# b", Paragraph, 0},
		{"code fence with language", "```python\nprint(\"Hello, World!\")\n```", Code, 0},
		{"code fence", "```\nx\n```", Code, 0},
		{"unterminated fence is a paragraph", "```\nx", Paragraph, 0},
		{"quote", "> This is a quote", Quote, 0},
		{"multi-line quote", "> line 1\n> line 2", Quote, 0},
		{"bare quote marker line", "> line 1\n>", Quote, 0},
		{"quote without space is a paragraph", ">no space", Paragraph, 0},
		{"mixed quote is a paragraph", "> line 1\nline 2", Paragraph, 0},
		{"star list", "* first\n* second\n* third", UnorderedList, 0},
		{"dash list", "- first\n- second\n- third", UnorderedList, 0},
		{"mixed markers list", "* first\n- second", UnorderedList, 0},
		{"ordered list", "1. first\n2. second\n3. third", OrderedList, 0},
		{"ordered list must start at one", "2. first\n3. second", Paragraph, 0},
		{"ordered list must be sequential", "1. first\n3. second", Paragraph, 0},
		{"ten items", "1. a\n2. b\n3. c\n4. d\n5. e\n6. f\n7. g\n8. h\n9. i\n10. j", OrderedList, 0},
		{"paragraph", "This is a paragraph of text. Blah blah blah.", Paragraph, 0},
		{"heading wins over everything", "# ```", Heading, 1},
		{"code wins over quote", "```\n> x\n```", Code, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotType, gotLevel := Classify(tt.text)
			if gotType != tt.wantType {
				t.Errorf("Classify(%q) type = %v, want %v", tt.text, gotType, tt.wantType)
			}
			if gotLevel != tt.wantLevel {
				t.Errorf("Classify(%q) level = %d, want %d", tt.text, gotLevel, tt.wantLevel)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	got := Parse("# Heading\n\nParagraph text.")
	want := []Block{
		{Text: "# Heading", Type: Heading, Level: 1},
		{Text: "Paragraph text.", Type: Paragraph},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want string
	}{
		{"> quote", ">"},
		{"12. item", "12."},
		{"nospace", "nospace"},
		{"", ""},
		{" leading", ""},
	}

	for _, tt := range tests {
		if got := FirstToken(tt.line); got != tt.want {
			t.Errorf("FirstToken(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestType_String(t *testing.T) {
	t.Parallel()

	if got := UnorderedList.String(); got != "unordered_list" {
		t.Errorf("String() = %q, want %q", got, "unordered_list")
	}
	if got := Type(99).String(); got != "Type(99)" {
		t.Errorf("String() = %q, want %q", got, "Type(99)")
	}
}
