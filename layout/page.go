package layout

import (
	"ebr/book"
	"ebr/utils/debug"
)

// Page is a single screen of wrapped lines.
type Page struct {
	Start book.Position
	Lines []RenderLine
	// Next is where the following page starts, nil when document is
	// exhausted.
	Next *book.Position
}

// Height returns accumulated extent of the page lines.
func (p *Page) Height() int {
	h := 0
	for _, rl := range p.Lines {
		h += rl.Extent()
	}
	return h
}

// Contains reports whether position is shown on the page.
func (p *Page) Contains(pos book.Position) bool {
	for _, rl := range p.Lines {
		if rl.Contains(pos) {
			return true
		}
	}
	return false
}

// At maps point on the page back to the document position under it.
func (p *Page) At(x, y int) (book.Position, bool) {
	top := 0
	for _, rl := range p.Lines {
		if y >= top && y < top+rl.Extent() {
			for _, c := range rl.Chars {
				if x >= c.X && x < c.X+c.Width {
					return c.Pos, true
				}
			}
			return book.Position{}, false
		}
		top += rl.Extent()
	}
	return book.Position{}, false
}

// String dumps page geometry.
func (p *Page) String() string {
	tw := debug.NewTreeWriter()
	next := "end"
	if p.Next != nil {
		next = p.Next.String()
	}
	tw.Attrs(0, "Page", "start", p.Start, "next", next, "lines", len(p.Lines), "height", p.Height())
	for _, rl := range p.Lines {
		tw.Attrs(1, "RenderLine", "start", rl.Start, "end", rl.End, "width", rl.Width, "extent", rl.Extent())
		text := make([]rune, 0, len(rl.Chars))
		for _, c := range rl.Chars {
			text = append(text, c.Ch)
		}
		tw.TextBlock(2, "Text", string(text))
	}
	return tw.String()
}

// Page fills viewport with lines starting at pos. At least one line is
// always placed so that tiny viewports still make progress.
func (e *Engine) Page(doc *book.Document, pos book.Position, vp Viewport) *Page {
	pg := &Page{Start: pos}
	if pos.Line >= doc.Len() {
		return pg
	}

	used, offset := 0, pos.Offset
	for line := pos.Line; line < doc.Len(); line, offset = line+1, 0 {
		for _, rl := range e.WrapLine(doc, line, offset, vp.Width) {
			if len(pg.Lines) > 0 && used+rl.Extent() > vp.Height {
				next := rl.Start
				pg.Next = &next
				return pg
			}
			pg.Lines = append(pg.Lines, rl)
			used += rl.Extent()
		}
	}
	return pg
}

// PrevPage returns start of the page which ends right before pos. Position
// with line equal to document length is the end of the document.
func (e *Engine) PrevPage(doc *book.Document, pos book.Position, vp Viewport) book.Position {
	pos = clampEnd(doc, pos)
	start, used, placed := pos, 0, 0

	take := func(rls []RenderLine) bool {
		for i := len(rls) - 1; i >= 0; i-- {
			if placed > 0 && used+rls[i].Extent() > vp.Height {
				return false
			}
			start = rls[i].Start
			used += rls[i].Extent()
			placed++
		}
		return true
	}

	if pos.Line < doc.Len() && pos.Offset > 0 {
		if !take(before(e.WrapLine(doc, pos.Line, 0, vp.Width), pos.Offset)) {
			return start
		}
	}
	for line := pos.Line - 1; line >= 0; line-- {
		if !take(e.WrapLine(doc, line, 0, vp.Width)) {
			break
		}
	}
	return start
}

// LastPage returns start of the page showing end of the document.
func (e *Engine) LastPage(doc *book.Document, vp Viewport) book.Position {
	return e.PrevPage(doc, book.Position{Line: doc.Len()}, vp)
}

// NextLine returns start of the wrapped line following the one starting at
// pos, false at the end of the document.
func (e *Engine) NextLine(doc *book.Document, pos book.Position, width int) (book.Position, bool) {
	if pos.Line >= doc.Len() {
		return pos, false
	}
	if rls := e.WrapLine(doc, pos.Line, pos.Offset, width); len(rls) > 1 {
		return rls[1].Start, true
	}
	if pos.Line+1 < doc.Len() {
		return book.Position{Line: pos.Line + 1}, true
	}
	return pos, false
}

// PrevLine returns start of the wrapped line preceding pos, false at the
// beginning of the document.
func (e *Engine) PrevLine(doc *book.Document, pos book.Position, width int) (book.Position, bool) {
	pos = clampEnd(doc, pos)
	if pos.Line < doc.Len() && pos.Offset > 0 {
		if rls := before(e.WrapLine(doc, pos.Line, 0, width), pos.Offset); len(rls) > 0 {
			return rls[len(rls)-1].Start, true
		}
	}
	if pos.Line == 0 {
		return pos, false
	}
	rls := e.WrapLine(doc, pos.Line-1, 0, width)
	return rls[len(rls)-1].Start, true
}

// Align moves position back to the start of the wrapped line it belongs to.
func (e *Engine) Align(doc *book.Document, pos book.Position, width int) book.Position {
	pos = doc.Clamp(pos)
	if pos.Offset == 0 {
		return pos
	}
	rls := e.WrapLine(doc, pos.Line, 0, width)
	aligned := book.Position{Line: pos.Line}
	for _, rl := range rls {
		if rl.Start.Offset > pos.Offset {
			break
		}
		aligned = rl.Start
	}
	return aligned
}

// SetupHighlight checks whether range [start, end) of the line is visible on
// the page starting at top. When it is not, it returns position of the
// wrapped line containing start, so that page shows highlight on its first
// line.
func (e *Engine) SetupHighlight(doc *book.Document, top book.Position, line, start, end int, vp Viewport) (book.Position, bool) {
	pg := e.Page(doc, top, vp)
	first := book.Position{Line: line, Offset: start}
	last := book.Position{Line: line, Offset: max(start, end-1)}
	if pg.Contains(first) && pg.Contains(last) {
		return top, false
	}
	aligned := e.Align(doc, first, vp.Width)
	return aligned, aligned != top
}

func before(rls []RenderLine, offset int) []RenderLine {
	n := 0
	for n < len(rls) && rls[n].Start.Offset < offset {
		n++
	}
	return rls[:n]
}

func clampEnd(doc *book.Document, pos book.Position) book.Position {
	if pos.Line >= doc.Len() {
		return book.Position{Line: doc.Len()}
	}
	return pos
}
