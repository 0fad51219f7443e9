// Package session implements program commands over an opened book.
package session

import (
	"fmt"
	"path/filepath"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ebr/book"
	"ebr/history"
	"ebr/layout"
	"ebr/loader"
	"ebr/reader"
	"ebr/state"
	"ebr/text"
)

// Session is a book opened for reading.
type Session struct {
	Path   string
	BookID string
	Book   *loader.Book
	Ctl    *reader.Controller
	// Restored is set when reading continues from remembered location.
	Restored bool
}

// Open loads book and positions controller either at the location remembered
// in history or at the very beginning.
func Open(path string, vp layout.Viewport, palette book.Palette, restore bool, env *state.LocalEnv) (*Session, error) {
	log := env.Log.Named("session")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve book path: %w", err)
	}
	b, err := loader.Open(abs, loader.Options{Encoding: env.CodePage}, env.Log)
	if err != nil {
		return nil, err
	}

	rc := env.Cfg.Reader
	engine := layout.New(layout.CellMetrics{},
		layout.WithIndent(rc.Indent),
		layout.WithLookback(rc.BreakLookback),
		layout.WithSpacing(rc.LineSpacing),
		layout.WithPalette(palette),
	)
	opts := []reader.Option{
		reader.WithTraceLimit(rc.TraceLimit),
		reader.WithIgnoreCase(rc.Search.IgnoreCase),
	}
	if seg := text.NewSplitter(b.Meta.Language, env.Log); seg != nil {
		opts = append(opts, reader.WithSegmenter(seg))
	}

	s := &Session{
		Path:   abs,
		BookID: history.BookID(b.Meta.ID, abs),
		Book:   b,
		Ctl:    reader.New(b, engine, vp, env.Log, opts...),
	}
	log.Debug("Book opened",
		zap.String("path", abs),
		zap.String("id", s.BookID),
		zap.Stringer("format", b.Format),
		zap.String("title", b.Meta.Title),
		zap.Int("books", b.Len()))

	if err := s.position(restore, env, log); err != nil {
		return nil, multierr.Append(err, b.Close())
	}
	return s, nil
}

func (s *Session) position(restore bool, env *state.LocalEnv, log *zap.Logger) error {
	if restore && env.History != nil {
		rec, found, err := env.History.Load(s.BookID)
		switch {
		case err != nil:
			log.Warn("Unable to read history, starting from the beginning", zap.Error(err))
		case found:
			err := s.Ctl.Seek(rec.Location)
			if err == nil {
				s.Restored = true
				log.Debug("Reading position restored", zap.Stringer("location", rec.Location))
				return nil
			}
			log.Warn("Remembered position is no longer valid, starting from the beginning", zap.Stringer("location", rec.Location), zap.Error(err))
		}
	}
	if err := s.Ctl.Seek(reader.Location{}); err != nil {
		return fmt.Errorf("unable to open the first chapter: %w", err)
	}
	return nil
}

// Close releases the book.
func (s *Session) Close() error {
	return s.Book.Close()
}
