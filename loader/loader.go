// Package loader opens book files and presents them as reader containers.
package loader

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"ebr/reader"
)

// Meta describes the book.
type Meta struct {
	Title    string
	Authors  []string
	Language language.Tag
	// Identifier found in book metadata, may be empty.
	ID string
}

// Options control how books are decoded.
type Options struct {
	// Forced character set of plain text files and of non UTF-8 names inside
	// zip archives, nil means detect.
	Encoding encoding.Encoding
}

// Book is an opened book file. Book must be closed when no longer needed.
type Book struct {
	Path   string
	Format Format
	Meta   Meta
	reader.Container

	closers []io.Closer
}

// Close releases underlying files.
func (b *Book) Close() error {
	var err error
	for _, c := range b.closers {
		err = multierr.Append(err, c.Close())
	}
	b.closers = nil
	return err
}

// Open detects format of the file and opens it.
func Open(path string, opts Options, log *zap.Logger) (*Book, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("loader")

	format, err := DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open book: %w", err)
	}
	log.Debug("Opening book", zap.String("path", path), zap.Stringer("format", format))

	b := &Book{Path: path, Format: format}
	switch format {
	case FormatEpub, FormatZip:
		zr, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("unable to open archive: %w", err)
		}
		b.closers = append(b.closers, zr)
		if err := b.openArchive(&zr.Reader, filepath.Base(path), opts, log); err != nil {
			return nil, multierr.Append(err, b.Close())
		}
	case FormatText, FormatHtml, FormatFb2:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read book: %w", err)
		}
		chapters, meta, err := openData(filepath.Base(path), format, data, dirResources(filepath.Dir(path)), opts, log)
		if err != nil {
			return nil, err
		}
		b.Meta, b.Container = meta, reader.Shelf{chapters}
	default:
		return nil, fmt.Errorf("unable to open book %s: unsupported format", path)
	}
	if b.Meta.Title == "" {
		b.Meta.Title = titleFromName(path)
	}
	return b, nil
}

func (b *Book) openArchive(zr *zip.Reader, name string, opts Options, log *zap.Logger) error {
	if b.Format == FormatEpub {
		e, err := openEpub(zr, log)
		if err != nil {
			return err
		}
		b.Meta, b.Container = e.meta, reader.Shelf{e}
		return nil
	}
	lib, err := openLibrary(zr, opts, log)
	if err != nil {
		return err
	}
	if lib.Len() == 1 {
		// archive with single book is that book
		chapters, err := lib.Open(0)
		if err != nil {
			return err
		}
		b.Format, b.Meta, b.Container = lib.entries[0].format, lib.Meta(0), reader.Shelf{chapters}
		return nil
	}
	b.Meta = Meta{Title: titleFromName(name)}
	b.Container = lib
	return nil
}

// openData opens single book held in memory. Resources of text formats are
// read using read, it may be nil.
func openData(name string, format Format, data []byte, read func(string) ([]byte, error), opts Options, log *zap.Logger) (reader.Chapters, Meta, error) {
	switch format {
	case FormatText:
		s, err := loadText(name, data, opts, log)
		if err != nil {
			return nil, Meta{}, err
		}
		return s, Meta{Title: titleFromName(name)}, nil
	case FormatHtml:
		s, err := loadHTML(name, data, read, log)
		if err != nil {
			return nil, Meta{}, err
		}
		return s, Meta{Title: s.Docs[0].Title()}, nil
	case FormatFb2:
		fb, err := loadFB2(data, log)
		if err != nil {
			return nil, Meta{}, err
		}
		return fb, fb.meta, nil
	case FormatEpub:
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, Meta{}, fmt.Errorf("unable to open EPUB: %w", err)
		}
		e, err := openEpub(zr, log)
		if err != nil {
			return nil, Meta{}, err
		}
		return e, e.meta, nil
	}
	return nil, Meta{}, fmt.Errorf("unable to open %s: unsupported format %s", name, format)
}

func titleFromName(name string) string {
	base := filepath.Base(filepath.FromSlash(name))
	for ext := filepath.Ext(base); ext != ""; ext = filepath.Ext(base) {
		if !knownExtension(ext) {
			break
		}
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

func knownExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".txt", ".text", ".html", ".htm", ".xhtml", ".xht", ".epub", ".fb2", ".zip":
		return true
	}
	return false
}

// parseLanguage accepts BCP 47 tags and language names written in the
// language itself.
func parseLanguage(in string, log *zap.Logger) language.Tag {
	lang := strings.TrimSpace(in)
	if lang == "" {
		return language.Und
	}

	tag, err := language.Parse(lang)
	if err == nil {
		return tag
	}

	// last resort - try names directly
	for _, supportedTag := range display.Supported.Tags() {
		if strings.EqualFold(display.Self.Name(supportedTag), lang) {
			return supportedTag
		}
	}
	log.Warn("Unable to parse book language", zap.String("lang", lang))
	return language.Und
}
