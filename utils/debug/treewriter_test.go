package debug

import (
	"testing"
)

func TestTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Error("Expected empty string from new TreeWriter")
	}

	tw.Line(0, "rule %d", 1)
	tw.TextBlock(1, "selector", ".App .Component")
	tw.TextBlock(2, "block", "{\n\tcolor: red;\n}")
	tw.TextBlock(1, "empty", "")

	want := "rule 1\n" +
		"  selector: \".App .Component\"\n" +
		"    block: \"{\\n\\tcolor: red;\\n}\"\n" +
		"  empty: \"\"\n"
	if got := tw.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestTreeWriter_LineFormatting(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "test", nil, "test\n"},
		{"depth 3", 3, "deep", nil, "      deep\n"},
		{"arguments", 1, "%s=%t", []any{"sealed", true}, "  sealed=true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}
