package ingest

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"ebr/book"
	"ebr/css"
)

func convert(t *testing.T, markup string, opts Options) *book.Document {
	t.Helper()
	return NewConverter(zaptest.NewLogger(t)).Convert([]byte(markup), opts)
}

func lines(doc *book.Document) []string {
	out := make([]string, doc.Len())
	for i := range doc.Len() {
		out[i] = doc.Line(i).String()
	}
	return out
}

func checkLines(t *testing.T, doc *book.Document, want ...string) {
	t.Helper()
	got := lines(doc)
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestConvert_Structure(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   []string
	}{
		{"paragraphs", `<p>one</p><p>two</p>`, []string{"one", "", "two"}},
		{"empty paragraphs collapse", `<p>a</p><p></p><p> </p><p></p><p>b</p>`, []string{"a", "", "b"}},
		{"line break", `<p>one<br>two</p>`, []string{"one", "two"}},
		{"many breaks capped", `a<br><br><br><br><br>b`, []string{"a", "", "", "b"}},
		{"whitespace collapsed", "<p>  hello \n  <b> world </b>  </p>", []string{"hello world"}},
		{"preformatted", "<pre>  x = 1\n    y</pre>", []string{"  x = 1", "    y"}},
		{"nested blocks", `<div><blockquote><p>q</p></blockquote></div><p>t</p>`, []string{"q", "", "t"}},
		{"unordered list", `<ul><li>a</li><li>b</li></ul>`, []string{"• a", "", "• b"}},
		{"ordered list", `<ol start="3"><li>a</li><li>b</li></ol>`, []string{"3. a", "", "4. b"}},
		{"table", `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td></tr></table>`, []string{"a\tb", "", "c"}},
		{"table cell spaces", `<table><tr><td>a</td><td> b </td></tr></table>`, []string{"a\tb"}},
		{"display none", `<p>a<span style="display:none">hidden</span></p><div class="x">b</div>`, []string{"a", "", "b"}},
		{"script skipped", `<script>var x;</script><p>a</p>`, []string{"a"}},
		{"empty", `<html><body></body></html>`, []string{book.NoContent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkLines(t, convert(t, tt.markup, Options{}), tt.want...)
		})
	}
}

func TestConvert_Title(t *testing.T) {
	doc := convert(t, `<html><head><title> The
	Book </title></head><body><p>text</p></body></html>`, Options{})
	if doc.Title() != "The Book" {
		t.Errorf("Title() = %q", doc.Title())
	}
	checkLines(t, doc, "text")
}

func TestConvert_Headings(t *testing.T) {
	doc := convert(t, `<h1>Big</h1><h6>Small</h6><p>normal</p>`, Options{})
	checkLines(t, doc, "Big", "", "Small", "", "normal")

	big := doc.Line(0).StyleAt(0, book.DefaultPalette)
	if big.Level != 7 || big.Scale() != 3 || !big.Bold {
		t.Errorf("h1 resolved to %+v", big)
	}
	small := doc.Line(2).StyleAt(0, book.DefaultPalette)
	if small.Level != 2 || !small.Bold {
		t.Errorf("h6 resolved to %+v", small)
	}
	if rs := doc.Line(4).StyleAt(0, book.DefaultPalette); rs.Level != book.NormalLevel || rs.Bold {
		t.Errorf("paragraph resolved to %+v", rs)
	}
}

func TestConvert_InlineStyles(t *testing.T) {
	doc := convert(t, `<p>a <b>b</b> <i>c</i> <u>d</u> <del>e</del> <code>f</code></p>`, Options{})
	checkLines(t, doc, "a b c d e f")

	l := doc.Line(0)
	at := func(i int) book.ResolvedStyle { return l.StyleAt(i, book.DefaultPalette) }
	if !at(2).Bold || at(0).Bold {
		t.Error("bold misplaced")
	}
	if !at(4).Italic {
		t.Error("italic missing")
	}
	if !at(6).Decoration.Has(book.DecorUnderline) {
		t.Error("underline missing")
	}
	if !at(8).Decoration.Has(book.DecorLineThrough) {
		t.Error("line-through missing")
	}
	if at(10).Family != book.FamilyMonospace {
		t.Error("monospace missing")
	}
}

func TestConvert_Cascade(t *testing.T) {
	markup := `<html><head><style>
p { color: red }
.x { color: blue }
em { color: green !important }
</style></head><body>
<p class="x" style="font-weight: bold">one <span style="color: #ffff00">two</span> <em style="color: black">three</em></p>
</body></html>`
	doc := convert(t, markup, Options{})
	checkLines(t, doc, "one two three")

	l := doc.Line(0)
	blue, yellow, green := book.Color{B: 0xff}, book.Color{R: 0xff, G: 0xff}, book.Color{G: 0x80}
	if rs := l.StyleAt(0, book.DefaultPalette); rs.Color != blue || !rs.Bold {
		t.Errorf("class rule or inline style lost: %+v", rs)
	}
	if rs := l.StyleAt(4, book.DefaultPalette); rs.Color != yellow {
		t.Errorf("nested inline color lost: %s", rs.Color)
	}
	if rs := l.StyleAt(8, book.DefaultPalette); rs.Color != green {
		t.Errorf("important rule lost to inline style: %s", rs.Color)
	}
}

func TestConvert_BaseSheetAndLinks(t *testing.T) {
	base := css.NewParser(nil).Parse([]byte(`p { font-style: italic }`))
	var requested string
	opts := Options{
		Base:  "OEBPS/text/ch1.xhtml",
		Sheet: base,
		Resource: func(ref string) ([]byte, error) {
			requested = ref
			if ref == "OEBPS/styles/book.css" {
				return []byte(`p { font-weight: bold }`), nil
			}
			return nil, errors.New("not found")
		},
	}
	doc := convert(t, `<html><head><link rel="stylesheet" href="../styles/book.css"/></head><body>
<p><a href="ch2.xhtml#n1">note</a> <a href="#local">here</a> <a href="https://example.com">web</a></p>
<p><img src="../images/pic.png"/></p></body></html>`, opts)

	if requested != "OEBPS/styles/book.css" {
		t.Errorf("stylesheet requested as %q", requested)
	}
	l := doc.Line(0)
	if rs := l.StyleAt(0, book.DefaultPalette); !rs.Italic || !rs.Bold {
		t.Errorf("base or linked sheet not applied: %+v", rs)
	}

	links := l.Links()
	if len(links) != 3 {
		t.Fatalf("Links() = %+v", links)
	}
	want := []string{"OEBPS/text/ch2.xhtml#n1", "#local", "https://example.com"}
	for i, w := range want {
		if links[i].Style.Target != w {
			t.Errorf("link %d target = %q, want %q", i, links[i].Style.Target, w)
		}
	}
	if links[0].Start != 0 || links[0].End != 4 {
		t.Errorf("link range = [%d, %d)", links[0].Start, links[0].End)
	}

	img := doc.Line(2)
	if img.At(0) != book.ImageChar || img.StyleAt(0, book.DefaultPalette).Image != "OEBPS/images/pic.png" {
		t.Errorf("image not converted: %q %+v", img.String(), img.Spans())
	}
}

func TestConvert_Anchors(t *testing.T) {
	doc := convert(t, `<p>one</p><p>two</p><h2 id="ch2">Chapter</h2><p>x <a name="mid"></a>y</p>`, Options{})
	if p, ok := doc.Anchor("ch2"); !ok || p != (book.Position{Line: 4}) {
		t.Errorf("anchor ch2 = %v, %t", p, ok)
	}
	if p, ok := doc.Anchor("mid"); !ok || p != (book.Position{Line: 6, Offset: 2}) {
		t.Errorf("anchor mid = %v, %t", p, ok)
	}
}

func TestConvert_BlockStyles(t *testing.T) {
	doc := convert(t, `<p>before</p><div style="border: 1px solid; background-color: #eeeeee"><p>a</p><p>b</p></div><p>after <span style="background: yellow">mark</span></p>`, Options{})
	checkLines(t, doc, "before", "", "a", "", "b", "", "after mark")

	blocks := doc.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("Blocks() = %+v", blocks)
	}
	for _, b := range blocks {
		if b.First != 2 || b.Last != 4 {
			t.Errorf("%s block covers %d..%d", b.Kind, b.First, b.Last)
		}
	}
	last := doc.Line(6)
	if rs := last.StyleAt(6, book.DefaultPalette); !rs.Highlighted {
		t.Error("partial background lost")
	}
	if rs := last.StyleAt(0, book.DefaultPalette); rs.Highlighted || rs.Border {
		t.Error("block style leaked to per character style")
	}
}

func TestConvert_FontSize(t *testing.T) {
	doc := convert(t, `<p style="font-size: x-large">big <small style="font-size: smaller">less</small></p><p style="font-size: 12px">px</p>`, Options{})
	l := doc.Line(0)
	if lv := l.StyleAt(0, book.DefaultPalette).Level; lv != 5 {
		t.Errorf("x-large level = %d", lv)
	}
	if lv := l.StyleAt(4, book.DefaultPalette).Level; lv != 4 {
		t.Errorf("smaller level = %d", lv)
	}
	if lv := doc.Line(2).StyleAt(0, book.DefaultPalette).Level; lv != book.NormalLevel {
		t.Errorf("absolute size changed level to %d", lv)
	}
}

func TestResolveRef(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"OEBPS/text/a.xhtml", "b.xhtml", "OEBPS/text/b.xhtml"},
		{"OEBPS/text/a.xhtml", "../img/c.png", "OEBPS/img/c.png"},
		{"OEBPS/text/a.xhtml", "b.xhtml#x", "OEBPS/text/b.xhtml#x"},
		{"OEBPS/text/a.xhtml", "#x", "#x"},
		{"OEBPS/text/a.xhtml", "/root.xhtml", "root.xhtml"},
		{"a.html", "http://x.org/y", "http://x.org/y"},
		{"", "b.html", "b.html"},
	}
	for _, tt := range tests {
		if got := ResolveRef(tt.base, tt.ref); got != tt.want {
			t.Errorf("ResolveRef(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
		}
	}
}
