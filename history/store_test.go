package history

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"ebr/book"
	"ebr/reader"
)

func openStore(t *testing.T, maxBooks int) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "sub", "history.db"), maxBooks, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	// deterministic clock, every call is one second later
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func loc(inner, chapter, line, offset int) reader.Location {
	return reader.Location{Inner: inner, Chapter: chapter, Position: book.Position{Line: line, Offset: offset}}
}

func TestStore_SaveLoad(t *testing.T) {
	s := openStore(t, 10)

	if _, found, err := s.Load("missing"); err != nil || found {
		t.Fatalf("Load(missing) = %v, %v", found, err)
	}

	rec := Record{BookID: "a", Path: "/books/a.epub", Title: "A", Location: loc(0, 3, 10, 5)}
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, found, err := s.Load("a")
	if err != nil || !found {
		t.Fatalf("Load(a) = %v, %v", found, err)
	}
	if got.Path != rec.Path || got.Title != rec.Title || got.Location != rec.Location {
		t.Errorf("Load(a) = %+v, want %+v", got, rec)
	}
	if got.Updated.IsZero() {
		t.Error("Updated was not set")
	}

	// update replaces location
	rec.Location = loc(1, 0, 2, 0)
	if err := s.Save(rec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, _, _ = s.Load("a")
	if got.Location != rec.Location {
		t.Errorf("Location = %s, want %s", got.Location, rec.Location)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() = %d records, want 1", len(list))
	}
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t, 3)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if err := s.Save(Record{BookID: id, Path: id}); err != nil {
			t.Fatalf("Save(%s) error = %v", id, err)
		}
	}
	// touching c makes it the most recent one
	if err := s.Save(Record{BookID: "c", Path: "c"}); err != nil {
		t.Fatalf("Save(c) error = %v", err)
	}

	list, err := s.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, r := range list {
		ids = append(ids, r.BookID)
	}
	want := []string{"c", "e", "d"}
	if len(ids) != len(want) {
		t.Fatalf("List() = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("List() = %v, want %v", ids, want)
			break
		}
	}
}

func TestStore_DeleteAndClose(t *testing.T) {
	s := openStore(t, 10)

	if err := s.Save(Record{BookID: "a", Path: "a"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete("unknown"); err != nil {
		t.Errorf("Delete(unknown) error = %v", err)
	}
	if _, found, _ := s.Load("a"); found {
		t.Error("record survived Delete()")
	}
	if err := s.Save(Record{Path: "no id"}); err == nil {
		t.Error("Save() without id succeeded")
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Save(Record{BookID: "a"}); !errors.Is(err, ErrClosed) {
		t.Errorf("Save() after Close() = %v, want ErrClosed", err)
	}
	if _, err := s.List(); !errors.Is(err, ErrClosed) {
		t.Errorf("List() after Close() = %v, want ErrClosed", err)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	s, err := Open(path, 0, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.maxBooks != DefaultMaxBooks {
		t.Errorf("maxBooks = %d, want %d", s.maxBooks, DefaultMaxBooks)
	}
	if err := s.Save(Record{BookID: "x", Path: "x.fb2", Location: loc(0, 1, 2, 3)}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	s, err = Open(path, 0, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Open() again error = %v", err)
	}
	defer s.Close()
	rec, found, err := s.Load("x")
	if err != nil || !found {
		t.Fatalf("Load() = %v, %v", found, err)
	}
	if rec.Location != loc(0, 1, 2, 3) {
		t.Errorf("Location = %s", rec.Location)
	}
}

func TestBookID(t *testing.T) {
	const id = "0b0b7d0c-6c1e-4a36-9d3c-34c5c3bb2b51"

	tests := []struct {
		name       string
		identifier string
		path       string
		want       string
	}{
		{"uuid", id, "a.epub", id},
		{"urn uuid", "urn:uuid:" + id, "a.epub", id},
		{"upper case uuid", "0B0B7D0C-6C1E-4A36-9D3C-34C5C3BB2B51", "a.epub", id},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BookID(tt.identifier, tt.path); got != tt.want {
				t.Errorf("BookID() = %q, want %q", got, tt.want)
			}
		})
	}

	isbn := BookID("978-3-16-148410-0", "a.epub")
	if isbn != BookID(" 978-3-16-148410-0 ", "b.epub") {
		t.Error("identifier based id depends on path")
	}
	if isbn == BookID("978-3-16-148410-1", "a.epub") {
		t.Error("different identifiers produce same id")
	}

	byPath := BookID("", "books/a.txt")
	if byPath != BookID("", "books/./a.txt") {
		t.Error("path based id is not stable")
	}
	if byPath == BookID("", "books/b.txt") {
		t.Error("different paths produce same id")
	}
}
