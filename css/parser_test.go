package css_test

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"ebr/book"
	"ebr/css"
)

func TestParser_ElementSelector(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { text-indent: 1em; }`))
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}

	rule := sheet.Rules[0]
	if rule.Selector.Element != "p" {
		t.Errorf("expected element 'p', got '%s'", rule.Selector.Element)
	}
	val, ok := rule.GetProperty("text-indent")
	if !ok {
		t.Fatal("expected text-indent property")
	}
	if val.Value != 1 || val.Unit != "em" {
		t.Errorf("expected 1em, got %v%s", val.Value, val.Unit)
	}
}

func TestParser_CompoundSelectors(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	sheet := p.Parse([]byte(`p.note { color: red } #title { font-weight: bold } div#main.wide { border: 1px solid }`))
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}

	tests := []struct {
		element, id, class string
	}{
		{"p", "", "note"},
		{"", "title", ""},
		{"div", "main", "wide"},
	}
	for i, tt := range tests {
		sel := sheet.Rules[i].Selector
		if sel.Element != tt.element || sel.ID != tt.id || sel.Class != tt.class {
			t.Errorf("rule %d selector = %+v, want element=%q id=%q class=%q", i, sel, tt.element, tt.id, tt.class)
		}
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`h1, h2, .title { font-weight: bold; }`))
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules, got %d", len(sheet.Rules))
	}
	for _, r := range sheet.Rules {
		if _, ok := r.GetProperty("font-weight"); !ok {
			t.Errorf("rule %q has no font-weight", r.Selector.Raw)
		}
	}
}

func TestParser_UnsupportedSelectors(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`a:hover { color: red } p > span { color: blue } [lang] { color: green } p { color: black }`))
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	if len(sheet.Warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", sheet.Warnings)
	}
}

func TestParser_Important(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`p { color: red !important; font-style: italic ! important; font-weight: bold }`))
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	r := sheet.Rules[0]
	for _, name := range []string{"color", "font-style"} {
		v, _ := r.GetProperty(name)
		if !v.Important {
			t.Errorf("%s is not important", name)
		}
	}
	if v, _ := r.GetProperty("color"); v.Keyword != "red" {
		t.Errorf("color keyword = %q", v.Keyword)
	}
	if v, _ := r.GetProperty("font-weight"); v.Important {
		t.Error("font-weight is important")
	}
}

func TestParser_MediaBlocks(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`
p { color: black }
@media print { p { color: gray } }
@media screen { p { font-weight: bold } }
@media not print { em { font-style: normal } }
@media screen and (min-width: 600px) { h1 { color: blue } }
`))
	var sels []string
	for _, r := range sheet.Rules {
		sels = append(sels, r.Selector.Raw)
	}
	if len(sheet.Rules) != 3 {
		t.Fatalf("expected 3 rules (p, p, em), got %v", sels)
	}
	if sheet.Rules[2].Selector.Element != "em" {
		t.Errorf("source order is not preserved: %v", sels)
	}
}

func TestParser_SkipsOtherAtRules(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	sheet := p.Parse([]byte(`@import url("base.css"); @font-face { font-family: X; src: url(x.ttf) } @page { margin: 0 } p { color: red }`))
	if len(sheet.Rules) != 1 {
		t.Fatalf("expected 1 rule, got %d", len(sheet.Rules))
	}
	if len(sheet.Imports) != 1 || sheet.Imports[0] != "base.css" {
		t.Errorf("imports = %v", sheet.Imports)
	}
}

func TestParser_ParseInline(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	props := p.ParseInline(`color: #f00; Font-Weight: bold !important; margin: 0 auto`)
	if v := props["color"]; v.Keyword != "#f00" {
		t.Errorf("color = %+v", v)
	}
	if v := props["font-weight"]; v.Keyword != "bold" || !v.Important {
		t.Errorf("font-weight = %+v", v)
	}
	if v := props["margin"]; v.Raw != "0 auto" {
		t.Errorf("margin = %+v", v)
	}
	if len(p.ParseInline("   ")) != 0 {
		t.Error("empty style produced declarations")
	}
}

func TestSelector_Matches(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte(`.note em { color: red } div p { color: blue } em { color: green } #x { color: white }`))

	path := []css.Node{
		{Element: "body"},
		{Element: "div", Classes: []string{"note", "wide"}},
		{Element: "p"},
		{Element: "em", ID: "x"},
	}
	matched := sheet.Match(path)
	if len(matched) != 3 {
		t.Fatalf("expected 3 matching rules, got %d", len(matched))
	}
	if matched[0].Selector.Raw != ".note em" || matched[1].Selector.Raw != "em" || matched[2].Selector.Raw != "#x" {
		t.Errorf("matched rules are not in source order: %+v", matched)
	}

	if got := sheet.Match(path[:3]); len(got) != 1 || got[0].Selector.Raw != "div p" {
		t.Errorf("p matched %+v", got)
	}
}

func TestCascade(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	sheet := p.Parse([]byte(`
p { color: red !important; font-weight: bold }
p { color: blue; font-weight: normal; font-style: italic !important }
`))
	inline := p.ParseInline(`color: green; font-style: normal`)

	props := css.Cascade(sheet.Match([]css.Node{{Element: "p"}}), inline)

	if v := props["color"]; v.Keyword != "red" {
		t.Errorf("important rule lost to normal declaration: color = %q", v.Keyword)
	}
	if v := props["font-weight"]; v.Keyword != "normal" {
		t.Errorf("later rule did not win: font-weight = %q", v.Keyword)
	}
	if v := props["font-style"]; v.Keyword != "italic" {
		t.Errorf("inline normal overrode important: font-style = %q", v.Keyword)
	}

	props = css.Cascade(nil, p.ParseInline(`color: green`))
	if v := props["color"]; v.Keyword != "green" {
		t.Errorf("inline color = %q", v.Keyword)
	}
}

func TestMediaQuery_Evaluate(t *testing.T) {
	tests := []struct {
		name string
		mq   css.MediaQuery
		want bool
	}{
		{"screen", css.MediaQuery{Type: "screen"}, true},
		{"all", css.MediaQuery{Type: "all"}, true},
		{"print", css.MediaQuery{Type: "print"}, false},
		{"not print", css.MediaQuery{Type: "print", Negated: true}, true},
		{"screen and feature", css.MediaQuery{Type: "screen", Features: []css.MediaFeature{{Name: "color"}}}, false},
		{"screen and not feature", css.MediaQuery{Type: "screen", Features: []css.MediaFeature{{Name: "color", Negated: true}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mq.Evaluate(); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValue_IsNumeric(t *testing.T) {
	tests := []struct {
		val  css.Value
		want bool
	}{
		{css.Value{Raw: "0"}, true},
		{css.Value{Raw: "1.5em", Value: 1.5, Unit: "em"}, true},
		{css.Value{Raw: "bold", Keyword: "bold"}, false},
	}
	for _, tt := range tests {
		if got := tt.val.IsNumeric(); got != tt.want {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.val.Raw, got, tt.want)
		}
	}
}

func TestValue_Color(t *testing.T) {
	tests := []struct {
		raw  string
		want book.Color
		ok   bool
	}{
		{"#ff0000", book.Color{R: 255}, true},
		{"#0f0", book.Color{G: 255}, true},
		{"rgb(0, 0, 255)", book.Color{B: 255}, true},
		{"rgba(100%, 0%, 0%, 0.5)", book.Color{R: 255}, true},
		{"navy", book.Color{B: 128}, true},
		{"DarkGreen", book.Color{G: 100}, true},
		{"transparent", book.Color{}, false},
		{"rgb(1, 2)", book.Color{}, false},
	}
	p := css.NewParser(zap.NewNop())
	for _, tt := range tests {
		v := p.ParseInline("color: " + tt.raw)["color"]
		got, ok := v.Color()
		if ok != tt.ok || got != tt.want {
			t.Errorf("Color(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValue_FontLevel(t *testing.T) {
	tests := []struct {
		raw    string
		parent int
		want   int
		ok     bool
	}{
		{"xx-large", 3, 6, true},
		{"small", 5, 2, true},
		{"larger", 3, 4, true},
		{"smaller", 1, 1, true},
		{"2em", 3, 6, true},
		{"150%", 3, 5, true},
		{"1em", 7, 7, true},
		{"12px", 3, 0, false},
	}
	p := css.NewParser(zap.NewNop())
	for _, tt := range tests {
		v := p.ParseInline("font-size: " + tt.raw)["font-size"]
		got, ok := v.FontLevel(tt.parent)
		if ok != tt.ok || got != tt.want {
			t.Errorf("FontLevel(%q, %d) = %d, %v; want %d, %v", tt.raw, tt.parent, got, ok, tt.want, tt.ok)
		}
	}
}

func TestValue_Interpretation(t *testing.T) {
	p := css.NewParser(zap.NewNop())
	props := p.ParseInline(`font-weight: 700; font-style: oblique; text-decoration: underline line-through;
		font-family: "Courier New", monospace; border: 1px solid black; background: #eee url(bg.png)`)

	if b, ok := props["font-weight"].Bold(); !ok || !b {
		t.Error("700 is not bold")
	}
	if i, ok := props["font-style"].Italic(); !ok || !i {
		t.Error("oblique is not italic")
	}
	d, ok := props["text-decoration"].Decoration()
	if !ok || !d.Has(book.DecorUnderline) || !d.Has(book.DecorLineThrough) || d.Has(book.DecorOverline) {
		t.Errorf("decoration = %v", d)
	}
	if f, ok := props["font-family"].Family(); !ok || f != book.FamilyMonospace {
		t.Errorf("family = %v", f)
	}
	if !props["border"].HasBorder() {
		t.Error("border not detected")
	}
	if (css.Value{Raw: "none", Keyword: "none"}).HasBorder() {
		t.Error("border: none detected as border")
	}
	if c, ok := props["background"].Background(); !ok || c != (book.Color{R: 0xee, G: 0xee, B: 0xee}) {
		t.Errorf("background = %v, %v", c, ok)
	}
}
