// Package reader implements navigation over paginated books: current
// location, highlight, search, link following and back/forward trace.
package reader

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"ebr/book"
	"ebr/layout"
)

// Controller owns reading state of a single open container. It is not safe
// for concurrent use, all commands are expected to come from UI loop.
type Controller struct {
	log       *zap.Logger
	engine    *layout.Engine
	container Container
	vp        layout.Viewport

	inner    int
	chapters Chapters
	chapter  int
	doc      *book.Document
	pos      book.Position
	page     *layout.Page

	state   State
	hl      *Highlight
	trace   *Trace
	pattern *book.Pattern

	// selection in progress
	anchor  book.Position
	dragged bool

	ignoreCase bool
	segmenter  Segmenter
}

type Option func(*Controller)

func WithTraceLimit(n int) Option {
	return func(c *Controller) { c.trace = NewTrace(n) }
}

// WithIgnoreCase makes search patterns case insensitive.
func WithIgnoreCase(ignore bool) Option {
	return func(c *Controller) { c.ignoreCase = ignore }
}

func WithSegmenter(s Segmenter) Option {
	return func(c *Controller) { c.segmenter = s }
}

func New(container Container, engine *layout.Engine, vp layout.Viewport, log *zap.Logger, opts ...Option) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		log:       log.Named("reader"),
		engine:    engine,
		container: container,
		vp:        vp,
		trace:     NewTrace(DefaultTraceLimit),
		segmenter: wholeLine{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seek opens location and remembers it in the trace. Position is clamped
// and aligned to the start of its wrapped line.
func (c *Controller) Seek(loc Location) error {
	if err := c.seek(loc); err != nil {
		return err
	}
	c.PushTrace()
	return nil
}

func (c *Controller) seek(loc Location) error {
	c.state = StatePaginating
	defer c.idle()

	if err := c.load(loc.Inner, loc.Chapter, false); err != nil {
		return err
	}
	c.pos = c.engine.Align(c.doc, loc.Position, c.vp.Width)
	c.redraw()
	return nil
}

// load makes requested chapter current, either chapter index or the last
// chapter (fromEnd) of inner book is loaded. Nothing changes on error.
func (c *Controller) load(inner, chapter int, fromEnd bool) error {
	chapters, reopened := c.chapters, false
	if chapters == nil || inner != c.inner {
		if inner < 0 || inner >= c.container.Len() {
			return ErrChapterBoundary
		}
		ch, err := c.container.Open(inner)
		if err != nil {
			return fmt.Errorf("unable to open book %d: %w", inner, err)
		}
		chapters, reopened = ch, true
	}
	if fromEnd {
		chapter = chapters.Len() - 1
	}
	if chapter < 0 || chapter >= chapters.Len() {
		return ErrChapterBoundary
	}
	if !reopened && chapter == c.chapter && c.doc != nil {
		return nil
	}

	doc, err := chapters.Load(chapter)
	if err != nil {
		return fmt.Errorf("unable to load chapter %d: %w", chapter, err)
	}
	c.inner, c.chapters, c.chapter, c.doc = inner, chapters, chapter, doc
	c.pos, c.hl = book.Position{}, nil
	c.log.Debug("Chapter loaded", zap.Int("inner", inner), zap.Int("chapter", chapter), zap.Int("lines", doc.Len()))
	return nil
}

func (c *Controller) redraw() {
	c.page = c.engine.Page(c.doc, c.pos, c.vp)
}

func (c *Controller) idle() {
	c.state = StateIdle
}

func (c *Controller) ready() error {
	if c.doc == nil {
		return ErrNotOpen
	}
	return nil
}

// Page returns current page.
func (c *Controller) Page() *layout.Page {
	return c.page
}

func (c *Controller) Document() *book.Document {
	return c.doc
}

func (c *Controller) Location() Location {
	return Location{Inner: c.inner, Chapter: c.chapter, Position: c.pos}
}

func (c *Controller) State() State {
	return c.state
}

// Highlight returns active highlight or nil.
func (c *Controller) Highlight() *Highlight {
	return c.hl
}

func (c *Controller) Trace() *Trace {
	return c.trace
}

func (c *Controller) Viewport() layout.Viewport {
	return c.vp
}

// Chapters returns number of chapters in the current inner book.
func (c *Controller) Chapters() int {
	if c.chapters == nil {
		return 0
	}
	return c.chapters.Len()
}

// Books returns number of inner books.
func (c *Controller) Books() int {
	return c.container.Len()
}

// Source returns current inner book.
func (c *Controller) Source() Chapters {
	return c.chapters
}

// Percent is reading progress through the current inner book.
func (c *Controller) Percent() int {
	if c.doc == nil || c.chapters.Len() == 0 {
		return 0
	}
	frac := float64(c.pos.Line) / float64(c.doc.Len())
	if c.page != nil && c.page.Next == nil {
		frac = 1
	}
	return int((float64(c.chapter) + frac) / float64(c.chapters.Len()) * 100)
}

// Resize changes viewport keeping current position on the top of the page.
func (c *Controller) Resize(vp layout.Viewport) {
	c.vp = vp
	if c.doc == nil {
		return
	}
	c.pos = c.engine.Align(c.doc, c.pos, vp.Width)
	c.redraw()
}

// NextPage moves to the following page, chapter or inner book. At the very
// end nothing happens.
func (c *Controller) NextPage() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.state = StatePaginating
	defer c.idle()

	if c.page.Next != nil {
		c.pos = *c.page.Next
		c.redraw()
		return nil
	}
	err := c.load(c.inner, c.chapter+1, false)
	if errors.Is(err, ErrChapterBoundary) {
		err = c.load(c.inner+1, 0, false)
	}
	switch {
	case errors.Is(err, ErrChapterBoundary):
		return nil
	case err != nil:
		return err
	}
	c.redraw()
	return nil
}

// PrevPage moves to the preceding page, to the end of previous chapter or
// to the end of previous inner book. At the very beginning nothing happens.
func (c *Controller) PrevPage() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.state = StatePaginating
	defer c.idle()

	if c.pos != (book.Position{}) {
		c.pos = c.engine.PrevPage(c.doc, c.pos, c.vp)
		c.redraw()
		return nil
	}
	err := c.load(c.inner, c.chapter-1, false)
	if errors.Is(err, ErrChapterBoundary) {
		err = c.load(c.inner-1, 0, true)
	}
	switch {
	case errors.Is(err, ErrChapterBoundary):
		return nil
	case err != nil:
		return err
	}
	c.pos = c.engine.LastPage(c.doc, c.vp)
	c.redraw()
	return nil
}

// NextLine scrolls one wrapped line forward inside of the chapter.
func (c *Controller) NextLine() error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.page.Next == nil {
		return nil
	}
	if pos, ok := c.engine.NextLine(c.doc, c.pos, c.vp.Width); ok {
		c.pos = pos
		c.redraw()
	}
	return nil
}

// PrevLine scrolls one wrapped line back inside of the chapter.
func (c *Controller) PrevLine() error {
	if err := c.ready(); err != nil {
		return err
	}
	if pos, ok := c.engine.PrevLine(c.doc, c.pos, c.vp.Width); ok {
		c.pos = pos
		c.redraw()
	}
	return nil
}

// FirstPage goes to the beginning of the chapter.
func (c *Controller) FirstPage() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.pos = book.Position{}
	c.redraw()
	return nil
}

// LastPage goes to the last page of the chapter.
func (c *Controller) LastPage() error {
	if err := c.ready(); err != nil {
		return err
	}
	c.pos = c.engine.LastPage(c.doc, c.vp)
	c.redraw()
	return nil
}

// NextChapter opens the beginning of the following chapter, continuing with
// the next inner book after the last one.
func (c *Controller) NextChapter() error {
	return c.stepChapter(1)
}

// PrevChapter opens the beginning of the preceding chapter.
func (c *Controller) PrevChapter() error {
	return c.stepChapter(-1)
}

func (c *Controller) stepChapter(delta int) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.state = StatePaginating
	defer c.idle()

	from := c.Location()
	err := c.load(c.inner, c.chapter+delta, false)
	if errors.Is(err, ErrChapterBoundary) {
		err = c.load(c.inner+delta, 0, delta < 0)
	}
	if err != nil {
		return err
	}
	c.trace.Push(from)
	c.pos = book.Position{}
	c.redraw()
	c.PushTrace()
	return nil
}

// GotoLine shows document line n (1 based) on the top of the page.
func (c *Controller) GotoLine(n int) error {
	if err := c.ready(); err != nil {
		return err
	}
	if n < 1 || n > c.doc.Len() {
		return &InvalidLineError{Line: n, Max: c.doc.Len()}
	}
	return c.jump(book.Position{Line: n - 1})
}

// GotoPosition shows wrapped line containing position on the top of the
// page.
func (c *Controller) GotoPosition(p book.Position) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.doc.Check(p); err != nil {
		return err
	}
	return c.jump(p)
}

// jump moves inside of the chapter remembering both ends in the trace.
func (c *Controller) jump(p book.Position) error {
	c.state = StatePaginating
	defer c.idle()

	c.PushTrace()
	c.pos = c.engine.Align(c.doc, p, c.vp.Width)
	c.redraw()
	c.PushTrace()
	return nil
}

// PushTrace remembers current location.
func (c *Controller) PushTrace() {
	if c.doc != nil {
		c.trace.Push(c.Location())
	}
}

// GotoTrace moves one step back or forward in trace. Going back from a
// location which is not in the trace records it first, so it could be
// returned to.
func (c *Controller) GotoTrace(backward bool) error {
	if err := c.ready(); err != nil {
		return err
	}
	var (
		loc Location
		ok  bool
	)
	if backward {
		if cur, has := c.trace.Current(); has && cur != c.Location() {
			c.PushTrace()
		}
		loc, ok = c.trace.Back()
	} else {
		loc, ok = c.trace.Forward()
	}
	if !ok {
		return nil
	}
	return c.seek(loc)
}
