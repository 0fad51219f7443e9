package book

import (
	"errors"
	"testing"
)

func TestLine_Append(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   string
	}{
		{"plain", []string{"hello"}, "hello"},
		{"leading whitespace suppressed", []string{"   hello"}, "hello"},
		{"internal whitespace kept", []string{"a   b"}, "a   b"},
		{"carriage return dropped", []string{"a\r\nb"}, "a\nb"},
		{"whitespace after newline suppressed", []string{"a\n   b"}, "a\nb"},
		{"nul dropped", []string{"a\x00b"}, "ab"},
		{"empty is noop", []string{"x", "", "y"}, "xy"},
		{"trailing space then chunk", []string{"x ", " y"}, "x  y"},
		{"only whitespace", []string{" ", "\t"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &Line{}
			for _, c := range tt.chunks {
				l.Append(c)
			}
			if got := l.String(); got != tt.want {
				t.Errorf("Append() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLine_AppendRaw(t *testing.T) {
	l := &Line{}
	l.AppendRaw("  code\r")
	if got := l.String(); got != "  code" {
		t.Errorf("AppendRaw() = %q", got)
	}
}

func TestLine_Basics(t *testing.T) {
	l := NewLine("привет")
	if l.Len() != 6 {
		t.Errorf("Len() = %d, want 6 characters", l.Len())
	}
	if l.At(1) != 'р' {
		t.Errorf("At(1) = %q", l.At(1))
	}
	if l.IsBlank() {
		t.Error("non empty line reported blank")
	}
	blank := &Line{}
	blank.AppendRaw(" \t ")
	if !blank.IsBlank() {
		t.Error("whitespace line is not blank")
	}
}

func TestLine_AnnotateOutOfRange(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic for out of range annotation")
		}
	}()
	NewLine("abc").Annotate(Bordered(), 1, 4)
}

func TestLine_StyleOverride(t *testing.T) {
	red := Color{R: 0xff}
	blue := Color{B: 0xff}

	l := NewLine("0123456789")
	l.Annotate(Foreground(red), 0, 6)
	l.Annotate(Foreground(blue), 4, 10)
	l.Annotate(FontWeight(true), 2, 8)

	tests := []struct {
		offset int
		color  Color
		bold   bool
	}{
		{0, red, false},
		{3, red, true},
		{4, blue, true},
		{5, blue, true},
		{8, blue, false},
	}
	for _, tt := range tests {
		rs := l.StyleAt(tt.offset, DefaultPalette)
		if rs.Color != tt.color {
			t.Errorf("StyleAt(%d).Color = %s, want %s", tt.offset, rs.Color, tt.color)
		}
		if rs.Bold != tt.bold {
			t.Errorf("StyleAt(%d).Bold = %t, want %t", tt.offset, rs.Bold, tt.bold)
		}
	}
}

func TestLine_StyleDefaults(t *testing.T) {
	pal := Palette{Foreground: Color{1, 2, 3}, Background: Color{4, 5, 6}, Family: FamilySans}
	rs := NewLine("x").StyleAt(0, pal)
	if rs.Color != pal.Foreground || rs.Background != pal.Background || rs.Family != FamilySans {
		t.Errorf("palette not applied: %+v", rs)
	}
	if rs.Level != NormalLevel || rs.Scale() != 1 {
		t.Errorf("default level = %d scale = %f", rs.Level, rs.Scale())
	}
	if rs.Highlighted {
		t.Error("palette background reported as highlighted")
	}
}

func TestLine_FindLink(t *testing.T) {
	l := NewLine("see chapter two and three")
	l.Annotate(Link("#two"), 4, 15)
	l.Annotate(Link("#three"), 20, 25)

	if s, ok := l.FindLink(5); !ok || s.Style.Target != "#two" {
		t.Errorf("FindLink(5) = %+v, %t", s, ok)
	}
	if _, ok := l.FindLink(16); ok {
		t.Error("FindLink(16) found link between links")
	}
	links := l.Links()
	if len(links) != 2 || links[0].Start != 4 || links[1].Start != 20 {
		t.Errorf("Links() = %+v", links)
	}
}

func TestLine_Search(t *testing.T) {
	l := NewLine("Ёлка и ёлка, и ещё ёлка")
	p, err := NewPattern("ёлка", true)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name        string
		start, stop int
		reverse     bool
		s, e        int
		ok          bool
	}{
		{"first", 0, l.Len(), false, 0, 4, true},
		{"after first", 1, l.Len(), false, 7, 11, true},
		{"last", 0, l.Len(), true, 19, 23, true},
		{"reverse bounded", 0, 19, true, 7, 11, true},
		{"window too small", 8, 11, false, 0, 0, false},
		{"empty window", 5, 5, false, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e, ok := l.Search(p, tt.start, tt.stop, tt.reverse)
			if ok != tt.ok || s != tt.s || e != tt.e {
				t.Errorf("Search() = %d, %d, %t; want %d, %d, %t", s, e, ok, tt.s, tt.e, tt.ok)
			}
		})
	}
}

func TestLine_SearchIgnoresEmptyMatches(t *testing.T) {
	p, err := NewPattern("x*", false)
	if err != nil {
		t.Fatal(err)
	}
	s, e, ok := NewLine("abxxc").Search(p, 0, 5, false)
	if !ok || s != 2 || e != 4 {
		t.Errorf("Search() = %d, %d, %t", s, e, ok)
	}
}

func TestNewPattern_Error(t *testing.T) {
	_, err := NewPattern("a(b", false)
	var pe *PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("NewPattern() error = %v, want PatternError", err)
	}
	if pe.Expr != "a(b" {
		t.Errorf("PatternError.Expr = %q", pe.Expr)
	}
}

func TestPosition_Compare(t *testing.T) {
	a := Position{Line: 1, Offset: 5}
	b := Position{Line: 2, Offset: 0}
	if !a.Before(b) || b.Before(a) || a.Compare(a) != 0 {
		t.Error("position ordering is broken")
	}
}

func TestLevelScale(t *testing.T) {
	want := []float64{3.0 / 5.0, 8.0 / 9.0, 1, 6.0 / 5.0, 3.0 / 2.0, 2, 3}
	for i, w := range want {
		if got := LevelScale(i + 1); got != w {
			t.Errorf("LevelScale(%d) = %f, want %f", i+1, got, w)
		}
	}
	if HeadingLevel(1) != 7 || HeadingLevel(6) != 2 {
		t.Errorf("HeadingLevel(1) = %d, HeadingLevel(6) = %d", HeadingLevel(1), HeadingLevel(6))
	}
	if LevelScale(42) != 3 {
		t.Error("level is not clamped")
	}
}

func TestParseHex(t *testing.T) {
	if c, ok := ParseHex("#f80"); !ok || c != (Color{0xff, 0x88, 0}) {
		t.Errorf("ParseHex(#f80) = %v, %t", c, ok)
	}
	if c, ok := ParseHex("#102030"); !ok || c.Hex() != "#102030" {
		t.Errorf("ParseHex(#102030) = %v, %t", c, ok)
	}
	if _, ok := ParseHex("102030"); ok {
		t.Error("ParseHex accepted value without #")
	}
}
