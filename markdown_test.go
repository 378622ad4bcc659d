package relay

import "testing"

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Just text.", "Just text."},
		{"bold and italic", "**bold** and *italic* and __under__", "bold and italic and under"},
		{"headings", "# Title\n## Sub", "Title\nSub"},
		{"inline code", "run `go test` now", "run go test now"},
		{"fenced code removed", "before\n```go\nfmt.Println()\n```\nafter", "before\n\nafter"},
		{"lists", "- one\n* two\n+ three\n1. four", "one\ntwo\nthree\nfour"},
		{"quotes", "> quoted", "quoted"},
		{"horizontal rule", "above\n---\nbelow", "above\n\nbelow"},
		{"collapses blank runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"trims lines", "  padded  \n\tline", "padded\nline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkdown(tt.in); got != tt.want {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
