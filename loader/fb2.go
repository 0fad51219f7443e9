package loader

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"

	"ebr/book"
	"ebr/css"
	"ebr/ingest"
	"ebr/reader"
)

// Named character references old FB2 files use without declaring them.
var fb2Entities = map[string]string{
	"nbsp": "\u00a0", "shy": "\u00ad", "mdash": "—", "ndash": "–",
	"laquo": "«", "raquo": "»", "bdquo": "„", "ldquo": "“",
	"rdquo": "”", "lsquo": "‘", "rsquo": "’", "hellip": "…",
	"copy": "©", "reg": "®", "trade": "™", "middot": "·",
	"bull": "•", "deg": "°", "times": "×", "sect": "§",
	"para": "¶", "euro": "€", "minus": "−",
}

// FB2 elements and their HTML meaning, element name itself is kept so FB2
// stylesheets still apply.
var fb2Atoms = map[string]atom.Atom{
	"section":       atom.Div,
	"annotation":    atom.Div,
	"poem":          atom.Div,
	"stanza":        atom.Div,
	"epigraph":      atom.Blockquote,
	"cite":          atom.Blockquote,
	"p":             atom.P,
	"v":             atom.P,
	"subtitle":      atom.H6,
	"text-author":   atom.P,
	"emphasis":      atom.Em,
	"strong":        atom.Strong,
	"strikethrough": atom.S,
	"sub":           atom.Sub,
	"sup":           atom.Sup,
	"code":          atom.Code,
	"style":         atom.Span,
	"a":             atom.A,
	"image":         atom.Img,
	"empty-line":    atom.Br,
	"table":         atom.Table,
	"tr":            atom.Tr,
	"th":            atom.Th,
	"td":            atom.Td,
}

var headings = []atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

// fictionBook keeps converted chapters and binaries referenced by images.
type fictionBook struct {
	*reader.Memory
	meta     Meta
	binaries map[string][]byte
}

func (f *fictionBook) Resource(_ int, ref string) ([]byte, error) {
	_, id := book.SplitTarget(ref)
	if id == "" {
		id = ref
	}
	if data, ok := f.binaries[id]; ok {
		return data, nil
	}
	return nil, fmt.Errorf("%s: %w", ref, ErrNoResource)
}

type fb2Loader struct {
	log   *zap.Logger
	conv  *ingest.Converter
	sheet *css.Stylesheet
}

func loadFB2(data []byte, log *zap.Logger) (*fictionBook, error) {
	log = log.Named("fb2")

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		Entity:        fb2Entities,
		ValidateInput: false,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to read FB2: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	if root.Tag != "FictionBook" {
		return nil, fmt.Errorf("unexpected root element %q", root.Tag)
	}

	l := &fb2Loader{log: log, conv: ingest.NewConverter(log), sheet: &css.Stylesheet{}}
	fb := &fictionBook{Memory: &reader.Memory{}, binaries: make(map[string][]byte)}

	var (
		bodies []*etree.Element
		cover  string
	)
	parser := css.NewParser(log)
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "stylesheet":
			if t := child.SelectAttrValue("type", "text/css"); t == "text/css" {
				l.sheet.Append(parser.Parse([]byte(child.Text()), "stylesheet"))
			}
		case "description":
			fb.meta, cover = parseDescription(child, log)
		case "body":
			bodies = append(bodies, child)
		case "binary":
			id := child.SelectAttrValue("id", "")
			bin, err := base64.StdEncoding.DecodeString(normalizeBase64(child.Text()))
			if err != nil {
				log.Warn("Unable to decode binary, ignoring", zap.String("id", id), zap.Error(err))
				continue
			}
			fb.binaries[id] = bin
		default:
			log.Warn("Unexpected tag in FictionBook, ignoring", zap.String("parent", root.Tag), zap.String("tag", child.Tag))
		}
	}
	if len(bodies) == 0 {
		return nil, fmt.Errorf("FB2 has no body")
	}

	for i, body := range bodies {
		if i > 0 {
			// notes and other secondary bodies are single chapters
			fb.add(l.chapter(body.SelectAttrValue("name", ""), "", body.ChildElements()))
			continue
		}
		var (
			front    []*etree.Element
			sections int
		)
		for _, child := range body.ChildElements() {
			if child.Tag != "section" {
				if sections == 0 {
					front = append(front, child)
				}
				continue
			}
			if sections == 0 && (len(front) > 0 || cover != "") {
				fb.add(l.chapter(fb.meta.Title, cover, front))
			}
			sections++
			fb.add(l.chapter("", "", []*etree.Element{child}))
		}
		if sections == 0 {
			fb.add(l.chapter(fb.meta.Title, cover, front))
		}
	}
	log.Debug("FB2 loaded", zap.Int("chapters", fb.Len()), zap.Int("binaries", len(fb.binaries)))
	return fb, nil
}

func (f *fictionBook) add(doc *book.Document) {
	f.Docs = append(f.Docs, doc)
}

// chapter converts FB2 elements into HTML tree and styles it.
func (l *fb2Loader) chapter(title, cover string, elements []*etree.Element) *book.Document {
	body := element("body", atom.Body)
	if cover != "" {
		img := element("image", atom.Img)
		img.Attr = append(img.Attr, html.Attribute{Key: "src", Val: cover})
		body.AppendChild(img)
	}
	for _, el := range elements {
		if title == "" && el.Tag == "section" {
			title = sectionTitle(el)
		}
		body.AppendChild(l.convert(el, 0))
	}

	head := element("head", atom.Head)
	if title != "" {
		t := element("title", atom.Title)
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}
	root := element("html", atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(root)
	return l.conv.ConvertTree(doc, ingest.Options{Sheet: l.sheet})
}

func element(tag string, a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
}

// convert maps FB2 element, depth is section nesting level used for titles.
func (l *fb2Loader) convert(el *etree.Element, depth int) *html.Node {
	a, known := fb2Atoms[el.Tag]
	if el.Tag == "title" {
		a, known = headings[min(max(depth, 1), len(headings))-1], true
	}
	if !known {
		l.log.Debug("Unknown FB2 element, keeping content", zap.String("tag", el.Tag))
		a = atom.Span
	}
	n := element(el.Tag, a)

	if id := el.SelectAttrValue("id", ""); id != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: id})
	}
	switch el.Tag {
	case "a":
		n.Attr = append(n.Attr, html.Attribute{Key: "href", Val: attrValue(el, "xlink", "href")})
		if t := el.SelectAttrValue("type", ""); t != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: t})
		}
	case "image":
		n.Attr = append(n.Attr, html.Attribute{Key: "src", Val: attrValue(el, "xlink", "href")})
	case "style":
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: el.SelectAttrValue("name", "")})
	case "td", "th":
		if s := el.SelectAttrValue("style", ""); s != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: s})
		}
	}

	if el.Tag == "section" {
		depth++
	}
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			if t.Data != "" {
				n.AppendChild(&html.Node{Type: html.TextNode, Data: t.Data})
			}
		case *etree.Element:
			n.AppendChild(l.convert(t, depth))
		}
	}
	return n
}

// sectionTitle is plain text of section title, paragraphs separated by
// space.
func sectionTitle(section *etree.Element) string {
	for _, child := range section.ChildElements() {
		if child.Tag != "title" {
			continue
		}
		var parts []string
		for _, p := range child.ChildElements() {
			if s := strings.Join(strings.Fields(textOf(p)), " "); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

func textOf(el *etree.Element) string {
	var sb strings.Builder
	for _, token := range el.Child {
		switch t := token.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			sb.WriteString(textOf(t))
		}
	}
	return sb.String()
}

// parseDescription extracts book metadata and reference to the cover
// image.
func parseDescription(el *etree.Element, log *zap.Logger) (Meta, string) {
	var (
		meta  Meta
		cover string
	)
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "title-info":
			for _, info := range child.ChildElements() {
				switch info.Tag {
				case "book-title":
					meta.Title = strings.TrimSpace(info.Text())
				case "author":
					if name := authorName(info); name != "" {
						meta.Authors = append(meta.Authors, name)
					}
				case "lang":
					meta.Language = parseLanguage(info.Text(), log)
				case "coverpage":
					for _, img := range info.ChildElements() {
						if img.Tag == "image" && cover == "" {
							cover = attrValue(img, "xlink", "href")
						}
					}
				}
			}
		case "document-info":
			for _, info := range child.ChildElements() {
				if info.Tag == "id" {
					meta.ID = strings.TrimSpace(info.Text())
				}
			}
		}
	}
	return meta, cover
}

func authorName(el *etree.Element) string {
	var first, middle, last, nick string
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "first-name":
			first = strings.TrimSpace(child.Text())
		case "middle-name":
			middle = strings.TrimSpace(child.Text())
		case "last-name":
			last = strings.TrimSpace(child.Text())
		case "nickname":
			nick = strings.TrimSpace(child.Text())
		}
	}
	name := strings.Join(strings.Fields(strings.Join([]string{first, middle, last}, " ")), " ")
	if name == "" {
		return nick
	}
	return name
}

// attrValue finds attribute by namespace prefix or by namespace URI suffix,
// FB2 files use different prefixes for xlink.
func attrValue(el *etree.Element, space, key string) string {
	for _, attr := range el.Attr {
		if (attr.Space == space || strings.HasSuffix(attr.NamespaceURI(), "/"+space)) && attr.Key == key {
			return attr.Value
		}
	}
	// prefix is not always declared
	for _, attr := range el.Attr {
		if attr.Key == key {
			return attr.Value
		}
	}
	return ""
}

func normalizeBase64(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if !unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
