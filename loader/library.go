package loader

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"slices"
	"sync"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"ebr/archive"
	"ebr/reader"
)

type libraryEntry struct {
	name   string
	file   *zip.File
	format Format
	meta   Meta
}

// library is a zip archive of books, every supported entry is an inner book.
// Books are opened on first access and kept open.
type library struct {
	log     *zap.Logger
	opts    Options
	zr      *zip.Reader
	entries []libraryEntry

	mu     sync.Mutex
	opened map[int]reader.Chapters
}

func openLibrary(zr *zip.Reader, opts Options, log *zap.Logger) (*library, error) {
	lib := &library{
		log:    log.Named("library"),
		opts:   opts,
		zr:     zr,
		opened: make(map[int]reader.Chapters),
	}

	err := archive.Walk(zr, "", func(f *zip.File) error {
		name := entryName(f, opts.Encoding, lib.log)
		format, err := detectEntry(f, name)
		if err != nil {
			lib.log.Warn("Skipping file in archive", zap.String("path", name), zap.Error(err))
			return nil
		}
		switch format {
		case FormatUnknown, FormatZip:
			lib.log.Debug("Skipping file, not recognized as book", zap.String("path", name), zap.Stringer("format", format))
			return nil
		}
		lib.entries = append(lib.entries, libraryEntry{name: name, file: f, format: format, meta: Meta{Title: titleFromName(name)}})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to read archive: %w", err)
	}
	if len(lib.entries) == 0 {
		return nil, fmt.Errorf("archive has no books")
	}
	slices.SortStableFunc(lib.entries, func(a, b libraryEntry) int {
		switch {
		case natural.Less(a.name, b.name):
			return -1
		case natural.Less(b.name, a.name):
			return 1
		}
		return 0
	})
	lib.log.Debug("Library opened", zap.Int("books", len(lib.entries)))
	return lib, nil
}

// entryName decodes names of entries written without UTF-8 flag when code
// page is forced.
func entryName(f *zip.File, cp encoding.Encoding, log *zap.Logger) string {
	name := f.FileHeader.Name
	if cp == nil || !f.FileHeader.NonUTF8 {
		return name
	}
	n, err := cp.NewDecoder().String(name)
	if err != nil {
		cs, _ := ianaindex.IANA.Name(cp)
		log.Warn("Unable to convert archive name from specified encoding",
			zap.String("charset", cs), zap.String("path", name), zap.Error(err))
		return name
	}
	return n
}

func detectEntry(f *zip.File, name string) (Format, error) {
	r, err := f.Open()
	if err != nil {
		return FormatUnknown, err
	}
	defer r.Close()

	head := make([]byte, sniffSize)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, err
	}
	return Detect(name, head[:n]), nil
}

func (l *library) Len() int {
	return len(l.entries)
}

// Name is the path of inner book inside of archive.
func (l *library) Name(i int) string {
	if i < 0 || i >= len(l.entries) {
		return ""
	}
	return l.entries[i].name
}

// Meta describes inner book, complete only after the book was opened.
func (l *library) Meta(i int) Meta {
	l.mu.Lock()
	defer l.mu.Unlock()

	if i < 0 || i >= len(l.entries) {
		return Meta{}
	}
	return l.entries[i].meta
}

func (l *library) Open(i int) (reader.Chapters, error) {
	if i < 0 || i >= len(l.entries) {
		return nil, reader.ErrChapterBoundary
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.opened[i]; ok {
		return c, nil
	}
	e := &l.entries[i]
	data, err := archive.Read(e.file)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", e.name, err)
	}
	dir := path.Dir(e.file.Name)
	read := func(ref string) ([]byte, error) {
		return archive.ReadFile(l.zr, path.Join(dir, ref))
	}
	chapters, meta, err := openData(e.name, e.format, data, read, l.opts, l.log)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", e.name, err)
	}
	if meta.Title == "" {
		meta.Title = e.meta.Title
	}
	e.meta = meta
	l.opened[i] = chapters
	l.log.Debug("Inner book opened", zap.Int("index", i), zap.String("path", e.name), zap.Stringer("format", e.format))
	return chapters, nil
}
