package reader

import (
	"go.uber.org/zap"

	"ebr/book"
)

// Search compiles expression and looks for the first match after the current
// highlight or page start. On failure highlight stays as it was.
func (c *Controller) Search(expr string) error {
	if err := c.ready(); err != nil {
		return err
	}
	p, err := book.NewPattern(expr, c.ignoreCase)
	if err != nil {
		return err
	}
	c.pattern = p
	return c.find(true)
}

// SearchAgain repeats the last search in requested direction.
func (c *Controller) SearchAgain(forward bool) error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.pattern == nil {
		return ErrNoPattern
	}
	return c.find(forward)
}

// Pattern returns the last search pattern.
func (c *Controller) Pattern() *book.Pattern {
	return c.pattern
}

func (c *Controller) find(forward bool) error {
	c.state = StateSearching
	defer c.idle()

	from := c.pos
	switch {
	case c.hl != nil && forward:
		from = c.hl.last()
	case c.hl != nil:
		from = c.hl.first()
	case !forward:
		from = c.pageEnd()
	}

	line, start, end, ok := c.scan(from, forward)
	if !ok {
		c.log.Debug("No match", zap.Stringer("pattern", c.pattern), zap.Stringer("from", from))
		return ErrNoMatch
	}
	c.hl = &Highlight{Line: line, Start: start, End: end, Mode: SearchMode{}}
	c.reveal(true)
	return nil
}

// scan looks for the pattern line by line, wrapping around inside of the
// document. Start line is searched again in full after wrapping.
func (c *Controller) scan(from book.Position, forward bool) (int, int, int, bool) {
	n := c.doc.Len()
	for i := 0; i <= n; i++ {
		var line int
		if forward {
			line = (from.Line + i) % n
		} else {
			line = ((from.Line-i)%n + n) % n
		}
		l := c.doc.Line(line)
		start, stop := 0, l.Len()
		if i == 0 {
			if forward {
				start = min(from.Offset, stop)
			} else {
				stop = min(from.Offset, stop)
			}
		}
		if s, e, ok := l.Search(c.pattern, start, stop, !forward); ok {
			return line, s, e, true
		}
	}
	return 0, 0, 0, false
}

// pageEnd is the position right after the last character on the page.
func (c *Controller) pageEnd() book.Position {
	if c.page != nil && c.page.Next != nil {
		return *c.page.Next
	}
	return c.doc.End()
}

// reveal moves page so that highlight is visible.
func (c *Controller) reveal(remember bool) {
	pos, changed := c.engine.SetupHighlight(c.doc, c.pos, c.hl.Line, c.hl.Start, c.hl.End, c.vp)
	if changed {
		if remember {
			c.PushTrace()
		}
		c.pos = pos
		if remember {
			c.PushTrace()
		}
	}
	c.redraw()
}

// ClearHighlight drops active highlight.
func (c *Controller) ClearHighlight() {
	c.hl = nil
	c.state = StateIdle
}

// GotoHit shows search hit found by background scan.
func (c *Controller) GotoHit(h Hit) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.state = StateSearching
	defer c.idle()

	from := c.Location()
	if err := c.load(c.inner, h.Chapter, false); err != nil {
		return err
	}
	p := c.doc.Clamp(h.Position)
	c.trace.Push(from)
	c.hl = &Highlight{Line: p.Line, Start: p.Offset, End: max(p.Offset, min(h.End, c.doc.Line(p.Line).Len())), Mode: SearchMode{}}
	c.pos = c.engine.Align(c.doc, p, c.vp.Width)
	c.redraw()
	c.PushTrace()
	return nil
}
