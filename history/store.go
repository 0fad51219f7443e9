// Package history remembers reading location of every opened book.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"ebr/misc"
	"ebr/reader"
)

// DefaultMaxBooks is used when store is opened with non-positive limit.
const DefaultMaxBooks = 500

var ErrClosed = errors.New("history store is closed")

const schema = `
CREATE TABLE IF NOT EXISTS books (
	id          TEXT PRIMARY KEY,
	path        TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	inner_book  INTEGER NOT NULL DEFAULT 0,
	chapter     INTEGER NOT NULL DEFAULT 0,
	line_no     INTEGER NOT NULL DEFAULT 0,
	char_offset INTEGER NOT NULL DEFAULT 0,
	updated     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS books_updated ON books(updated);
`

const selectColumns = `SELECT id, path, title, inner_book, chapter, line_no, char_offset, updated FROM books`

// Record is the last known location in a book.
type Record struct {
	BookID   string
	Path     string
	Title    string
	Location reader.Location
	Updated  time.Time
}

// Store keeps records in SQLite database. Store is safe for concurrent use.
type Store struct {
	log      *zap.Logger
	maxBooks int
	now      func() time.Time

	mu   sync.Mutex
	conn *sqlite.Conn
}

// DefaultPath is the database location inside of user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("unable to find user cache directory: %w", err)
	}
	return filepath.Join(dir, misc.GetAppName(), "history.db"), nil
}

// Open opens or creates database at path, keeping at most maxBooks records.
func Open(path string, maxBooks int, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if maxBooks <= 0 {
		maxBooks = DefaultMaxBooks
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create history directory: %w", err)
	}

	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("unable to open history database: %w", err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("unable to prepare history database: %w", err)
	}

	s := &Store{
		log:      log.Named("history"),
		maxBooks: maxBooks,
		now:      time.Now,
		conn:     conn,
	}
	s.log.Debug("History opened", zap.String("path", path), zap.Int("max_books", maxBooks))
	return s, nil
}

// Close closes database, store can not be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Save inserts or replaces the record and drops the oldest records above
// the limit.
func (s *Store) Save(rec Record) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrClosed
	}
	if rec.BookID == "" {
		return fmt.Errorf("unable to save history record for %q: empty book id", rec.Path)
	}
	if rec.Updated.IsZero() {
		rec.Updated = s.now()
	}

	defer sqlitex.Save(s.conn)(&err)

	err = sqlitex.Execute(s.conn, `
INSERT INTO books (id, path, title, inner_book, chapter, line_no, char_offset, updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	path = excluded.path,
	title = excluded.title,
	inner_book = excluded.inner_book,
	chapter = excluded.chapter,
	line_no = excluded.line_no,
	char_offset = excluded.char_offset,
	updated = excluded.updated`,
		&sqlitex.ExecOptions{Args: []any{
			rec.BookID, rec.Path, rec.Title,
			rec.Location.Inner, rec.Location.Chapter, rec.Location.Line, rec.Location.Offset,
			rec.Updated.UnixNano(),
		}})
	if err != nil {
		return fmt.Errorf("unable to save history record: %w", err)
	}

	err = sqlitex.Execute(s.conn,
		`DELETE FROM books WHERE id NOT IN (SELECT id FROM books ORDER BY updated DESC, id LIMIT ?)`,
		&sqlitex.ExecOptions{Args: []any{s.maxBooks}})
	if err != nil {
		return fmt.Errorf("unable to prune history: %w", err)
	}
	if n := s.conn.Changes(); n > 0 {
		s.log.Debug("History pruned", zap.Int("removed", n))
	}
	return nil
}

// Load returns record for the book, false if book was never saved.
func (s *Store) Load(id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return Record{}, false, ErrClosed
	}

	var (
		rec   Record
		found bool
	)
	err := sqlitex.Execute(s.conn, selectColumns+` WHERE id = ?`, &sqlitex.ExecOptions{
		Args: []any{id},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			rec, found = scan(stmt), true
			return nil
		},
	})
	if err != nil {
		return Record{}, false, fmt.Errorf("unable to load history record: %w", err)
	}
	return rec, found, nil
}

// List returns all records, most recently updated first.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return nil, ErrClosed
	}

	var out []Record
	err := sqlitex.Execute(s.conn, selectColumns+` ORDER BY updated DESC, id`, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			out = append(out, scan(stmt))
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list history: %w", err)
	}
	return out, nil
}

// Delete forgets the book, unknown ids are ignored.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return ErrClosed
	}
	if err := sqlitex.Execute(s.conn, `DELETE FROM books WHERE id = ?`, &sqlitex.ExecOptions{Args: []any{id}}); err != nil {
		return fmt.Errorf("unable to delete history record: %w", err)
	}
	return nil
}

func scan(stmt *sqlite.Stmt) Record {
	rec := Record{
		BookID:  stmt.ColumnText(0),
		Path:    stmt.ColumnText(1),
		Title:   stmt.ColumnText(2),
		Updated: time.Unix(0, stmt.ColumnInt64(7)),
	}
	rec.Location.Inner = stmt.ColumnInt(3)
	rec.Location.Chapter = stmt.ColumnInt(4)
	rec.Location.Line = stmt.ColumnInt(5)
	rec.Location.Offset = stmt.ColumnInt(6)
	return rec
}

// BookID derives stable identity of the book. Identifiers which are UUIDs
// are used as is, other identifiers and, when book has none, absolute path
// are hashed into name based UUID.
func BookID(identifier, path string) string {
	identifier = strings.TrimSpace(identifier)
	if identifier != "" {
		if id, err := uuid.Parse(identifier); err == nil {
			return id.String()
		}
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(identifier)).String()
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}
