package debug

import (
	"testing"
)

func TestTreeWriter_Empty(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Errorf("String() = %q, want empty", tw.String())
	}
}

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "page", nil, "page\n"},
		{"depth 1", 1, "line", nil, "  line\n"},
		{"depth 2", 2, "char", nil, "    char\n"},
		{"negative depth", -1, "x", nil, "x\n"},
		{"with formatting", 1, "lines: %d", []any{42}, "  lines: 42\n"},
		{"multiple args", 0, "%s at %d", []any{"ch2", 5}, "ch2 at 5\n"},
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

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "Title", "", "Title: \n"},
		{"plain", 1, "Line[0]", "alpha beta", "  Line[0]: \"alpha beta\"\n"},
		{"escapes", 0, "Line[1]", "a\tb\n", "Line[1]: \"a\\tb\\n\"\n"},
		{"unicode", 0, "Line[2]", "ёлка", "Line[2]: \"ёлка\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Attrs(t *testing.T) {
	tw := NewTreeWriter()
	tw.Attrs(1, "RenderLine", "start", "0:5", "width", 10)
	tw.Attrs(0, "odd", "key")
	want := "  RenderLine start=0:5 width=10\nodd key=\n"
	if got := tw.String(); got != want {
		t.Errorf("Attrs() = %q, want %q", got, want)
	}
}

func TestTreeWriter_Rule(t *testing.T) {
	tests := []struct {
		width int
		label string
		want  string
	}{
		{10, "", "----------\n"},
		{11, "1", "---- 1 ----\n"},
		{12, "12", "---- 12 ----\n"},
		{2, "long", " long \n"},
	}
	for _, tt := range tests {
		tw := NewTreeWriter()
		tw.Rule(tt.width, tt.label)
		if got := tw.String(); got != tt.want {
			t.Errorf("Rule(%d, %q) = %q, want %q", tt.width, tt.label, got, tt.want)
		}
	}
}
