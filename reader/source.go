package reader

import (
	"path"
	"strings"

	"ebr/book"
)

// Chapters is a single book split into separately loaded documents.
type Chapters interface {
	Len() int
	Load(i int) (*book.Document, error)
	// Locate finds chapter link target points to, from is the chapter link
	// belongs to.
	Locate(target string, from int) (int, bool)
}

// Container enumerates inner books, for most formats there is only one.
type Container interface {
	Len() int
	Open(i int) (Chapters, error)
}

// Resources is optionally implemented by Chapters able to provide content
// referenced by the chapter (images).
type Resources interface {
	Resource(chapter int, ref string) ([]byte, error)
}

// Memory keeps already built documents. Names (may be empty) are used to
// locate links pointing to other chapters.
type Memory struct {
	Names []string
	Docs  []*book.Document
}

func (m *Memory) Len() int {
	return len(m.Docs)
}

func (m *Memory) Load(i int) (*book.Document, error) {
	if i < 0 || i >= len(m.Docs) {
		return nil, ErrChapterBoundary
	}
	return m.Docs[i], nil
}

func (m *Memory) Locate(target string, from int) (int, bool) {
	file, frag := book.SplitTarget(target)
	if file != "" {
		return matchName(m.Names, file)
	}
	if frag == "" {
		return 0, false
	}
	if from >= 0 && from < len(m.Docs) {
		if _, ok := m.Docs[from].Anchor(frag); ok {
			return from, true
		}
	}
	for i, d := range m.Docs {
		if _, ok := d.Anchor(frag); ok {
			return i, true
		}
	}
	return 0, false
}

// matchName finds chapter whose name is the link file. Link paths may be
// relative, so trailing path elements are compared.
func matchName(names []string, file string) (int, bool) {
	file = path.Clean(strings.TrimPrefix(file, "./"))
	for i, name := range names {
		if name == file {
			return i, true
		}
	}
	for i, name := range names {
		if strings.HasSuffix(name, "/"+file) || strings.HasSuffix(file, "/"+name) || path.Base(name) == path.Base(file) {
			return i, true
		}
	}
	return 0, false
}

// Shelf is a container of already opened books.
type Shelf []Chapters

func (s Shelf) Len() int {
	return len(s)
}

func (s Shelf) Open(i int) (Chapters, error) {
	if i < 0 || i >= len(s) {
		return nil, ErrChapterBoundary
	}
	return s[i], nil
}
