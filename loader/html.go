package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"ebr/book"
	"ebr/ingest"
	"ebr/reader"
)

var ErrNoResource = errors.New("resource is not available")

// single is a book made of one document.
type single struct {
	*reader.Memory
	read func(ref string) ([]byte, error)
}

func newSingle(name string, doc *book.Document, read func(ref string) ([]byte, error)) *single {
	return &single{
		Memory: &reader.Memory{Names: []string{name}, Docs: []*book.Document{doc}},
		read:   read,
	}
}

func (s *single) Resource(_ int, ref string) ([]byte, error) {
	if s.read == nil {
		return nil, fmt.Errorf("%s: %w", ref, ErrNoResource)
	}
	return s.read(ref)
}

// dirResources reads references relative to directory of the HTML file,
// nothing outside of that directory is accessible.
func dirResources(dir string) func(ref string) ([]byte, error) {
	return func(ref string) ([]byte, error) {
		ref, _, _ = strings.Cut(ref, "#")
		clean := path.Clean("/" + ref)
		if ref == "" || book.IsExternal(ref) {
			return nil, fmt.Errorf("%s: %w", ref, ErrNoResource)
		}
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))))
	}
}

func decodeHTML(data []byte, log *zap.Logger) ([]byte, error) {
	r, err := charset.NewReader(bytes.NewReader(data), "text/html")
	if err != nil {
		return nil, fmt.Errorf("unable to detect HTML charset: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to decode HTML: %w", err)
	}
	log.Debug("HTML decoded", zap.Int("in", len(data)), zap.Int("out", len(out)))
	return out, nil
}

func loadHTML(name string, data []byte, read func(ref string) ([]byte, error), log *zap.Logger) (*single, error) {
	text, err := decodeHTML(data, log)
	if err != nil {
		return nil, err
	}
	base := path.Base(filepath.ToSlash(name))
	doc := ingest.NewConverter(log).Convert(text, ingest.Options{Base: base, Resource: read})
	return newSingle(base, doc, read), nil
}
