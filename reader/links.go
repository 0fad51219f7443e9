package reader

import (
	"go.uber.org/zap"

	"ebr/book"
)

// SwitchLink highlights the next (or previous) link after the current link
// highlight or page start (page end when going back). Search wraps around
// the document but never leaves the chapter.
func (c *Controller) SwitchLink(forward bool) error {
	if err := c.ready(); err != nil {
		return err
	}

	var from book.Position
	var after bool // from is the current link, skip it
	if c.hl != nil {
		if _, ok := c.hl.Mode.(LinkMode); ok {
			from, after = c.hl.first(), true
		}
	}
	if !after {
		from = c.pos
		if !forward {
			from = c.pageEnd()
		}
	}

	n := c.doc.Len()
	for i := 0; i <= n; i++ {
		var line int
		if forward {
			line = (from.Line + i) % n
		} else {
			line = ((from.Line-i)%n + n) % n
		}
		links := c.doc.Line(line).Links()
		pick := func(idx int) bool {
			if i > 0 {
				return true
			}
			if forward {
				return links[idx].Start > from.Offset || !after && links[idx].Start == from.Offset
			}
			return links[idx].Start < from.Offset
		}
		if forward {
			for idx := range links {
				if pick(idx) {
					return c.selectLink(line, idx, links[idx])
				}
			}
			continue
		}
		for idx := len(links) - 1; idx >= 0; idx-- {
			if pick(idx) {
				return c.selectLink(line, idx, links[idx])
			}
		}
	}
	return ErrNoLink
}

func (c *Controller) selectLink(line, idx int, span book.Span) error {
	c.hl = &Highlight{Line: line, Start: span.Start, End: span.End, Mode: LinkMode{Index: idx}}
	c.reveal(false)
	return nil
}

// TryGotoLink follows highlighted link.
func (c *Controller) TryGotoLink() error {
	if err := c.ready(); err != nil {
		return err
	}
	if c.hl != nil {
		if lm, ok := c.hl.Mode.(LinkMode); ok {
			return c.GotoLink(c.hl.Line, lm.Index)
		}
	}
	return ErrNoLink
}

// GotoLink follows link number index of the document line.
func (c *Controller) GotoLink(line, index int) error {
	if err := c.ready(); err != nil {
		return err
	}
	if err := c.doc.Check(book.Position{Line: line}); err != nil {
		return err
	}
	links := c.doc.Line(line).Links()
	if index < 0 || index >= len(links) {
		return ErrNoLink
	}
	return c.Follow(links[index].Style.Target)
}

// Follow navigates to link target. Targets in other chapters switch chapter
// first. Targets which could not be resolved, including fragments missing
// from the target chapter, are ignored and nothing changes.
func (c *Controller) Follow(target string) error {
	if err := c.ready(); err != nil {
		return err
	}
	if book.IsExternal(target) {
		return &ExternalLinkError{Target: target}
	}

	chapter, ok := c.locate(target)
	if !ok {
		c.log.Debug("Unresolved link", zap.String("target", target))
		return nil
	}

	doc := c.doc
	if chapter != c.chapter {
		d, err := c.chapters.Load(chapter)
		if err != nil {
			return err
		}
		doc = d
	}
	pos := book.Position{}
	if _, frag := book.SplitTarget(target); frag != "" {
		p, ok := doc.Anchor(frag)
		if !ok {
			c.log.Debug("Unresolved anchor", zap.String("target", target), zap.Int("chapter", chapter))
			return nil
		}
		pos = p
	}

	c.state = StatePaginating
	defer c.idle()

	from := c.Location()
	if err := c.load(c.inner, chapter, false); err != nil {
		return err
	}
	c.trace.Push(from)
	c.hl = nil
	c.pos = c.engine.Align(c.doc, pos, c.vp.Width)
	c.redraw()
	c.PushTrace()
	return nil
}

// locate finds chapter of the link target. Chapter named by the target wins,
// otherwise fragment is looked up in current document anchors first.
func (c *Controller) locate(target string) (int, bool) {
	file, _ := book.SplitTarget(target)
	if file != "" {
		if chapter, ok := c.chapters.Locate(target, c.chapter); ok {
			return chapter, true
		}
	}
	if _, ok := c.doc.Resolve(target); ok {
		return c.chapter, true
	}
	if file != "" {
		return 0, false
	}
	return c.chapters.Locate(target, c.chapter)
}

// LinkAt returns target of the link shown at page point.
func (c *Controller) LinkAt(x, y int) (string, bool) {
	if c.page == nil {
		return "", false
	}
	p, ok := c.page.At(x, y)
	if !ok {
		return "", false
	}
	span, ok := c.doc.Line(p.Line).FindLink(p.Offset)
	if !ok {
		return "", false
	}
	return span.Style.Target, true
}
