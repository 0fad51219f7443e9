package reader

import (
	"strings"
	"unicode"

	"ebr/book"
)

// Segmenter splits paragraph text into sentences, returned ranges are
// character offsets [start, end).
type Segmenter interface {
	Sentences(text string) [][2]int
}

// wholeLine treats every line as a single sentence.
type wholeLine struct{}

func (wholeLine) Sentences(text string) [][2]int {
	if n := len([]rune(text)); n > 0 {
		return [][2]int{{0, n}}
	}
	return nil
}

// BeginSelection starts selection at document position.
func (c *Controller) BeginSelection(p book.Position) {
	if c.doc == nil {
		return
	}
	p = c.doc.Clamp(p)
	c.state = StateSelecting
	c.anchor, c.dragged = p, false
	c.hl = &Highlight{Line: p.Line, Start: p.Offset, End: p.Offset, Mode: SelectionMode{EndLine: p.Line}}
}

// ExtendSelection moves the free end of selection, both ends are inclusive.
func (c *Controller) ExtendSelection(p book.Position) {
	if c.state != StateSelecting {
		return
	}
	p = c.doc.Clamp(p)
	from, to := c.anchor, p
	if to.Before(from) {
		from, to = to, from
	}
	to.Offset = min(to.Offset+1, c.doc.Line(to.Line).Len())
	c.dragged = true
	c.hl = &Highlight{Line: from.Line, Start: from.Offset, End: to.Offset, Mode: SelectionMode{EndLine: to.Line}}
}

// EndSelection finishes selection and returns selected text. Empty
// selection is dropped.
func (c *Controller) EndSelection() string {
	if c.state != StateSelecting {
		return ""
	}
	c.state = StateIdle
	text := c.Text(c.hl.first(), c.hl.last())
	if text == "" {
		c.hl = nil
		return ""
	}
	c.hl.Mode = SelectionMode{Text: text, EndLine: c.hl.endLine()}
	return text
}

// Selection returns text of the finished selection.
func (c *Controller) Selection() (string, bool) {
	if c.hl == nil {
		return "", false
	}
	sel, ok := c.hl.Mode.(SelectionMode)
	if !ok || c.state == StateSelecting {
		return "", false
	}
	return sel.Text, true
}

// Text returns document text between positions, lines are separated by
// newline.
func (c *Controller) Text(from, to book.Position) string {
	if c.doc == nil || !from.Before(to) {
		return ""
	}
	from, to = c.doc.Clamp(from), c.doc.Clamp(to)
	var sb strings.Builder
	for line := from.Line; line <= to.Line; line++ {
		rs := c.doc.Line(line).Runes()
		start, stop := 0, len(rs)
		if line == from.Line {
			start = from.Offset
		}
		if line == to.Line {
			stop = to.Offset
		}
		if line > from.Line {
			sb.WriteByte('\n')
		}
		if start < stop {
			sb.WriteString(string(rs[start:stop]))
		}
	}
	return sb.String()
}

// SwitchSentence selects the next (or previous) sentence after the current
// selection or page start (page end when going back). Stops at the chapter
// edges.
func (c *Controller) SwitchSentence(forward bool) error {
	if err := c.ready(); err != nil {
		return err
	}

	var from book.Position
	switch {
	case c.hl != nil && forward:
		from = c.hl.last()
	case c.hl != nil:
		from = c.hl.first()
	case forward:
		from = c.pos
	default:
		from = c.pageEnd()
	}

	step := 1
	if !forward {
		step = -1
	}
	for line := from.Line; line >= 0 && line < c.doc.Len(); line += step {
		text := c.doc.Line(line).String()
		sentences := c.segmenter.Sentences(text)
		if !forward {
			sentences = reversed(sentences)
		}
		for _, s := range sentences {
			if line == from.Line && (forward && s[0] < from.Offset || !forward && s[1] > from.Offset) {
				continue
			}
			if s = trimSentence(text, s); s[0] >= s[1] {
				continue
			}
			c.hl = &Highlight{Line: line, Start: s[0], End: s[1], Mode: SelectionMode{Text: string([]rune(text)[s[0]:s[1]]), EndLine: line}}
			c.reveal(false)
			return nil
		}
	}
	return ErrNoMatch
}

func reversed(in [][2]int) [][2]int {
	out := make([][2]int, len(in))
	for i, s := range in {
		out[len(in)-1-i] = s
	}
	return out
}

// trimSentence drops surrounding whitespace from the range.
func trimSentence(text string, s [2]int) [2]int {
	rs := []rune(text)
	s[0], s[1] = max(0, s[0]), min(len(rs), s[1])
	for s[0] < s[1] && unicode.IsSpace(rs[s[0]]) {
		s[0]++
	}
	for s[1] > s[0] && unicode.IsSpace(rs[s[1]-1]) {
		s[1]--
	}
	return s
}
