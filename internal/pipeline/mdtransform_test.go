package pipeline

import (
	"context"
	"testing"
)

func TestPreprocessMarkdown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "unchanged",
			input: "# Title\n\nBody",
			want:  "# Title\n\nBody",
		},
		{
			name:  "CRLF to LF",
			input: "# Title\r\n\r\nBody\r\n",
			want:  "# Title\n\nBody\n",
		},
		{
			name:  "lone CR to LF",
			input: "a\rb",
			want:  "a\nb",
		},
		{
			name:  "blank line runs collapse",
			input: "a\n\n\n\n\nb",
			want:  "a\n\nb",
		},
		{
			name:  "decomposed accents compose to NFC",
			input: "Cafe\u0301",
			want:  "Caf\u00e9",
		},
	}

	p := &NormalizingPreprocessor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := p.PreprocessMarkdown(context.Background(), tt.input)
			if got != tt.want {
				t.Errorf("PreprocessMarkdown(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPreprocessMarkdown_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	input := "a\r\nb"
	p := &NormalizingPreprocessor{}
	if got := p.PreprocessMarkdown(ctx, input); got != input {
		t.Errorf("PreprocessMarkdown() = %q, want input unchanged %q", got, input)
	}
}
