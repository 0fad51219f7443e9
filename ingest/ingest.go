// Package ingest converts HTML documents into styled book documents.
package ingest

import (
	"bytes"
	"cmp"
	"io"
	"path"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ebr/book"
	"ebr/css"
)

// Options control conversion of a single HTML document.
type Options struct {
	// Path of the document inside of container, relative references are
	// resolved against it.
	Base string
	// Rules applied before document's own stylesheets.
	Sheet *css.Stylesheet
	// Loads linked stylesheets, references are already resolved. Optional.
	Resource func(ref string) ([]byte, error)
}

// Converter turns HTML into book.Document honoring small subset of CSS.
type Converter struct {
	log    *zap.Logger
	parser *css.Parser
}

func NewConverter(log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{log: log.Named("ingest"), parser: css.NewParser(log)}
}

// Convert parses HTML and converts it. Conversion never fails, markup which
// could not be parsed is presented as flat text.
func (c *Converter) Convert(data []byte, opts Options) *book.Document {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		c.log.Warn("Unable to parse HTML, using flat text", zap.String("base", opts.Base), zap.Error(err))
		return flatText(data)
	}
	return c.ConvertTree(root, opts)
}

// ConvertTree converts already parsed HTML tree.
func (c *Converter) ConvertTree(root *html.Node, opts Options) *book.Document {
	w := &walker{
		b:      book.NewBuilder(),
		opts:   opts,
		parser: c.parser,
		log:    c.log,
		sheet:  &css.Stylesheet{},
		levels: []int{book.NormalLevel},
	}
	w.sheet.Append(opts.Sheet)
	w.collectStyles(root)
	w.node(root)
	w.finish()
	return w.b.Build()
}

// flatText extracts text from markup ignoring structure.
func flatText(data []byte) *book.Document {
	b := book.NewBuilder()
	z := html.NewTokenizer(bytes.NewReader(data))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				b.Append(string(z.Raw()))
			}
			return b.Build()
		case html.TextToken:
			b.Append(string(z.Text()))
		}
	}
}

// ResolveRef makes reference found in document at base relative to the
// container root. External and fragment only references are returned as is.
func ResolveRef(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || book.IsExternal(ref) {
		return ref
	}
	file, frag, hasFrag := strings.Cut(ref, "#")
	if !strings.HasPrefix(file, "/") {
		file = path.Join(path.Dir(base), file)
	} else {
		file = strings.TrimPrefix(path.Clean(file), "/")
	}
	if hasFrag {
		return file + "#" + frag
	}
	return file
}

type pendingStyle struct {
	order    int
	style    book.Style
	from, to book.Position
}

type listState struct {
	ordered bool
	n       int
}

type walker struct {
	b      *book.Builder
	opts   Options
	parser *css.Parser
	log    *zap.Logger
	sheet  *css.Stylesheet

	path   []css.Node
	levels []int
	lists  []listState
	pre    int
	opened int
	cells  int
	styles []pendingStyle
}

// finish records styles in document order of elements which produced them,
// so styles of nested elements override ones of their ancestors.
func (w *walker) finish() {
	slices.SortStableFunc(w.styles, func(a, b pendingStyle) int {
		return cmp.Compare(a.order, b.order)
	})
	for _, s := range w.styles {
		w.b.Style(s.style, s.from, s.to)
	}
}

func (w *walker) style(order int, st book.Style, from, to book.Position) {
	w.styles = append(w.styles, pendingStyle{order: order, style: st, from: from, to: to})
}

// collectStyles gathers <style> and <link rel="stylesheet"> content in
// document order.
func (w *walker) collectStyles(n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.DataAtom {
		case atom.Style:
			w.sheet.Append(w.parser.Parse([]byte(textContent(n)), w.opts.Base))
			return
		case atom.Link:
			if strings.EqualFold(attr(n, "rel"), "stylesheet") && w.opts.Resource != nil {
				ref := ResolveRef(w.opts.Base, attr(n, "href"))
				data, err := w.opts.Resource(ref)
				if err != nil {
					w.log.Debug("Unable to load stylesheet", zap.String("href", ref), zap.Error(err))
					return
				}
				w.sheet.Append(w.parser.Parse(data, ref))
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.collectStyles(c)
	}
}

func (w *walker) node(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		w.children(n)
	case html.TextNode:
		w.text(n.Data)
	case html.ElementNode:
		w.element(n)
	}
}

func (w *walker) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.node(c)
	}
}

func (w *walker) text(s string) {
	if w.pre > 0 {
		w.b.AppendRaw(s)
		return
	}
	s = collapseSpaces(s)
	if strings.HasPrefix(s, " ") {
		if r, ok := w.b.LastRune(); !ok || isHTMLSpace(r) {
			s = s[1:]
		}
	}
	w.b.Append(s)
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func collapseSpaces(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	space := false
	for _, r := range s {
		if isHTMLSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		sb.WriteRune(r)
	}
	return sb.String()
}

func (w *walker) element(n *html.Node) {
	name := strings.ToLower(n.Data)

	switch n.DataAtom {
	case atom.Title:
		w.b.SetTitle(collapseSpaces(textContent(n)))
		return
	case atom.Head:
		// only title is interesting in head
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Title {
				w.element(c)
			}
		}
		return
	case atom.Script, atom.Style, atom.Link, atom.Meta, atom.Template, atom.Noscript:
		return
	}

	node := css.Node{Element: name, ID: attr(n, "id")}
	if class := attr(n, "class"); class != "" {
		node.Classes = strings.Fields(class)
	}
	w.path = append(w.path, node)
	defer func() { w.path = w.path[:len(w.path)-1] }()

	props := css.Cascade(w.sheet.Match(w.path), w.parser.ParseInline(attr(n, "style")))
	display := props["display"].Keyword
	if display == "none" {
		return
	}

	block := blockElements[name] || blockElements[n.DataAtom.String()]
	switch display {
	case "block", "list-item", "table", "table-row", "flex", "grid":
		block = true
	case "inline", "inline-block":
		block = false
	}

	w.opened++
	order := w.opened

	if block {
		w.b.ParagraphBreak()
	}
	if node.ID != "" {
		w.b.Anchor(node.ID)
	}
	if n.DataAtom == atom.A {
		w.b.Anchor(attr(n, "name"))
	}

	level := w.levels[len(w.levels)-1]
	if rank := headingRank(n.DataAtom); rank > 0 {
		level = book.HeadingLevel(rank)
	}
	if l, ok := props["font-size"].FontLevel(level); ok {
		level = l
	}
	w.levels = append(w.levels, level)
	defer func() { w.levels = w.levels[:len(w.levels)-1] }()

	pre := n.DataAtom == atom.Pre || strings.HasPrefix(props["white-space"].Keyword, "pre")
	if pre {
		w.pre++
		defer func() { w.pre-- }()
	}

	from := w.b.Pos()
	switch n.DataAtom {
	case atom.Br:
		w.b.LineBreak()
	case atom.Hr:
		w.b.Append("* * *")
	case atom.Img, atom.Image:
		src := attr(n, "src")
		if src == "" {
			src = attr(n, "href")
		}
		w.b.AppendImage(ResolveRef(w.opts.Base, src))
	case atom.Ul, atom.Ol:
		w.lists = append(w.lists, listState{ordered: n.DataAtom == atom.Ol})
		defer func() { w.lists = w.lists[:len(w.lists)-1] }()
		if start, err := strconv.Atoi(attr(n, "start")); err == nil && n.DataAtom == atom.Ol {
			w.lists[len(w.lists)-1].n = start - 1
		}
		w.children(n)
	case atom.Li:
		w.b.Append(w.bullet())
		w.children(n)
	case atom.Tr:
		w.cells = 0
		w.children(n)
	case atom.Td, atom.Th:
		if w.cells > 0 {
			w.b.AppendRaw("\t")
		}
		w.cells++
		w.children(n)
	default:
		w.children(n)
	}
	to := w.b.Pos()

	for _, st := range elementStyles(n, level, w.levels[len(w.levels)-2]) {
		if st.Channel == book.ChannelLink {
			st.Target = ResolveRef(w.opts.Base, st.Target)
		}
		w.style(order, st, from, to)
	}
	for _, st := range propertyStyles(props) {
		w.style(order, st, from, to)
	}

	if block {
		w.b.ParagraphBreak()
	}
}

func (w *walker) bullet() string {
	if len(w.lists) == 0 {
		return "• "
	}
	l := &w.lists[len(w.lists)-1]
	if !l.ordered {
		return "• "
	}
	l.n++
	return strconv.Itoa(l.n) + ". "
}

var blockElements = map[string]bool{
	"p": true, "div": true, "blockquote": true, "section": true, "article": true,
	"header": true, "footer": true, "aside": true, "nav": true, "main": true,
	"figure": true, "figcaption": true, "ul": true, "ol": true, "li": true,
	"dl": true, "dt": true, "dd": true, "table": true, "tr": true, "caption": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"pre": true, "hr": true, "address": true, "center": true,
}

func headingRank(a atom.Atom) int {
	switch a {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

// elementStyles returns presentation implied by element itself.
func elementStyles(n *html.Node, level, parentLevel int) []book.Style {
	var out []book.Style
	if level != parentLevel {
		out = append(out, book.FontLevel(level))
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.B, atom.Strong, atom.Th, atom.Dt:
		out = append(out, book.FontWeight(true))
	case atom.I, atom.Em, atom.Cite, atom.Var, atom.Dfn:
		out = append(out, book.FontItalic(true))
	case atom.U, atom.Ins:
		out = append(out, book.Decorated(book.DecorUnderline))
	case atom.S, atom.Del, atom.Strike:
		out = append(out, book.Decorated(book.DecorLineThrough))
	case atom.Code, atom.Tt, atom.Kbd, atom.Samp, atom.Pre:
		out = append(out, book.FontFamily(book.FamilyMonospace))
	case atom.A:
		if href := attr(n, "href"); href != "" {
			out = append(out, book.Link(href))
		}
	}
	return out
}

// propertyStyles maps supported CSS properties to styles.
func propertyStyles(props css.Declarations) []book.Style {
	var out []book.Style
	if c, ok := props["color"].Color(); ok {
		out = append(out, book.Foreground(c))
	}
	if v, ok := props["background-color"]; ok {
		if c, ok := v.Color(); ok {
			out = append(out, book.Background(c))
		}
	} else if c, ok := props["background"].Background(); ok {
		out = append(out, book.Background(c))
	}
	if b, ok := props["font-weight"].Bold(); ok {
		out = append(out, book.FontWeight(b))
	}
	if i, ok := props["font-style"].Italic(); ok {
		out = append(out, book.FontItalic(i))
	}
	for _, name := range []string{"text-decoration", "text-decoration-line"} {
		if d, ok := props[name].Decoration(); ok {
			out = append(out, book.Decorated(d))
		}
	}
	if f, ok := props["font-family"].Family(); ok {
		out = append(out, book.FontFamily(f))
	}
	for _, name := range []string{"border", "border-style", "border-width"} {
		if v, ok := props[name]; ok && v.HasBorder() {
			out = append(out, book.Bordered())
			break
		}
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
