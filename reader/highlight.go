package reader

import (
	"ebr/book"
)

// Mode tells why range is highlighted. Implemented by SearchMode, LinkMode
// and SelectionMode only.
type Mode interface {
	isMode()
}

// SearchMode marks search match.
type SearchMode struct{}

// LinkMode marks link selected for following, Index is link number among
// links of the highlighted line.
type LinkMode struct {
	Index int
}

// SelectionMode marks user selection which may span several lines, it ends
// at (EndLine, Highlight.End).
type SelectionMode struct {
	Text    string
	EndLine int
}

func (SearchMode) isMode()    {}
func (LinkMode) isMode()      {}
func (SelectionMode) isMode() {}

// Highlight is a range of document text shown in reverse.
type Highlight struct {
	Line  int
	Start int
	End   int
	Mode  Mode
}

func (h *Highlight) endLine() int {
	if sel, ok := h.Mode.(SelectionMode); ok {
		return sel.EndLine
	}
	return h.Line
}

// Covers reports whether character at position is highlighted.
func (h *Highlight) Covers(p book.Position) bool {
	if h == nil {
		return false
	}
	from := book.Position{Line: h.Line, Offset: h.Start}
	to := book.Position{Line: h.endLine(), Offset: h.End}
	return !p.Before(from) && p.Before(to)
}

func (h *Highlight) first() book.Position {
	return book.Position{Line: h.Line, Offset: h.Start}
}

func (h *Highlight) last() book.Position {
	return book.Position{Line: h.endLine(), Offset: h.End}
}
