package loader

import (
	"archive/zip"
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"ebr/archive"
	"ebr/book"
	"ebr/ingest"
	"ebr/reader"
)

const containerPath = "META-INF/container.xml"

type manifestItem struct {
	href      string
	mediaType string
}

// epub loads spine documents on demand, converted documents are cached.
type epub struct {
	log   *zap.Logger
	conv  *ingest.Converter
	zr    *zip.Reader
	spine []string
	meta  Meta

	mu   sync.Mutex
	docs map[int]*book.Document
}

func readXML(zr *zip.Reader, name string) (*etree.Document, error) {
	data, err := archive.ReadFile(zr, name)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("unable to parse %s: no root element", name)
	}
	return doc, nil
}

// rootFile finds package document location.
func rootFile(zr *zip.Reader) (string, error) {
	doc, err := readXML(zr, containerPath)
	if err != nil {
		return "", fmt.Errorf("not an EPUB: %w", err)
	}
	var walk func(el *etree.Element) string
	walk = func(el *etree.Element) string {
		for _, child := range el.ChildElements() {
			if child.Tag == "rootfile" {
				if p := child.SelectAttrValue("full-path", ""); p != "" {
					return p
				}
			}
			if p := walk(child); p != "" {
				return p
			}
		}
		return ""
	}
	if p := walk(doc.Root()); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("not an EPUB: %s has no rootfile", containerPath)
}

func openEpub(zr *zip.Reader, log *zap.Logger) (*epub, error) {
	log = log.Named("epub")

	opfPath, err := rootFile(zr)
	if err != nil {
		return nil, err
	}
	opf, err := readXML(zr, opfPath)
	if err != nil {
		return nil, err
	}

	e := &epub{
		log:  log,
		conv: ingest.NewConverter(log),
		zr:   zr,
		docs: make(map[int]*book.Document),
	}

	root := opf.Root()
	uid := root.SelectAttrValue("unique-identifier", "")
	manifest := make(map[string]manifestItem)
	for _, section := range root.ChildElements() {
		switch section.Tag {
		case "metadata":
			e.meta = parseOPFMeta(section, uid, log)
		case "manifest":
			for _, item := range section.ChildElements() {
				if item.Tag != "item" {
					continue
				}
				id := item.SelectAttrValue("id", "")
				href := item.SelectAttrValue("href", "")
				if id == "" || href == "" {
					log.Warn("Manifest item without id or href, ignoring", zap.String("id", id), zap.String("href", href))
					continue
				}
				manifest[id] = manifestItem{
					href:      ingest.ResolveRef(opfPath, unescapeHref(href)),
					mediaType: item.SelectAttrValue("media-type", ""),
				}
			}
		case "spine":
			for _, ref := range section.ChildElements() {
				if ref.Tag != "itemref" {
					continue
				}
				idref := ref.SelectAttrValue("idref", "")
				item, ok := manifest[idref]
				if !ok {
					log.Warn("Spine references unknown manifest item, ignoring", zap.String("idref", idref))
					continue
				}
				if item.mediaType != "" && !strings.Contains(item.mediaType, "html") {
					log.Debug("Spine item is not a document, ignoring", zap.String("href", item.href), zap.String("media-type", item.mediaType))
					continue
				}
				e.spine = append(e.spine, item.href)
			}
		}
	}
	if len(e.spine) == 0 {
		return nil, fmt.Errorf("EPUB package %s has empty spine", opfPath)
	}
	log.Debug("EPUB opened", zap.String("package", opfPath), zap.Int("chapters", len(e.spine)), zap.Int("manifest", len(manifest)))
	return e, nil
}

// unescapeHref undoes percent encoding of manifest references, archive entry
// names are stored as is.
func unescapeHref(href string) string {
	if u, err := url.PathUnescape(href); err == nil {
		return u
	}
	return href
}

func parseOPFMeta(el *etree.Element, uid string, log *zap.Logger) Meta {
	var meta Meta
	for _, child := range el.ChildElements() {
		value := strings.TrimSpace(child.Text())
		if value == "" {
			continue
		}
		switch child.Tag {
		case "title":
			if meta.Title == "" {
				meta.Title = value
			}
		case "creator":
			meta.Authors = append(meta.Authors, value)
		case "language":
			if meta.Language.IsRoot() {
				meta.Language = parseLanguage(value, log)
			}
		case "identifier":
			if meta.ID == "" || (uid != "" && child.SelectAttrValue("id", "") == uid) {
				meta.ID = value
			}
		}
	}
	return meta
}

func (e *epub) Len() int {
	return len(e.spine)
}

func (e *epub) Load(i int) (*book.Document, error) {
	if i < 0 || i >= len(e.spine) {
		return nil, reader.ErrChapterBoundary
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if doc, ok := e.docs[i]; ok {
		return doc, nil
	}
	data, err := archive.ReadFile(e.zr, e.spine[i])
	if err != nil {
		return nil, fmt.Errorf("unable to read chapter %d: %w", i, err)
	}
	if data, err = decodeHTML(data, e.log); err != nil {
		return nil, fmt.Errorf("unable to read chapter %d: %w", i, err)
	}
	doc := e.conv.Convert(data, ingest.Options{
		Base: e.spine[i],
		Resource: func(ref string) ([]byte, error) {
			return archive.ReadFile(e.zr, unescapeHref(ref))
		},
	})
	e.docs[i] = doc
	return doc, nil
}

func (e *epub) Locate(target string, from int) (int, bool) {
	file, frag := book.SplitTarget(target)
	if file != "" {
		file = path.Clean(unescapeHref(file))
		for i, name := range e.spine {
			if name == file {
				return i, true
			}
		}
		return (&reader.Memory{Names: e.spine}).Locate(target, from)
	}
	if frag == "" {
		return 0, false
	}
	if doc, err := e.Load(from); err == nil {
		if _, ok := doc.Anchor(frag); ok {
			return from, true
		}
	}
	for i := range e.spine {
		doc, err := e.Load(i)
		if err != nil {
			e.log.Debug("Unable to load chapter while locating link", zap.Int("chapter", i), zap.Error(err))
			continue
		}
		if _, ok := doc.Anchor(frag); ok {
			return i, true
		}
	}
	return 0, false
}

// Resource reads archive entry, references are expected to be resolved
// against archive root already.
func (e *epub) Resource(_ int, ref string) ([]byte, error) {
	ref, _, _ = strings.Cut(ref, "#")
	if ref == "" || book.IsExternal(ref) {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoResource)
	}
	return archive.ReadFile(e.zr, unescapeHref(ref))
}
