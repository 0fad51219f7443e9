package book

import (
	"strings"
)

// MaxBlankLines is the longest run of blank lines kept in a document.
const MaxBlankLines = 2

type pendingStyle struct {
	style    Style
	from, to Position
}

// Builder accumulates text, anchors and styles and produces Document. Styles
// are recorded as position ranges and applied when document is built, so
// ranges may cross lines and block styles could be detected on final text.
type Builder struct {
	title   string
	lines   []*Line
	anchors map[string]Position
	styles  []pendingStyle
}

func NewBuilder() *Builder {
	return &Builder{
		lines:   []*Line{{}},
		anchors: make(map[string]Position),
	}
}

func (b *Builder) cur() *Line {
	return b.lines[len(b.lines)-1]
}

// Pos is the position where next character will be appended.
func (b *Builder) Pos() Position {
	last := len(b.lines) - 1
	return Position{Line: last, Offset: b.lines[last].Len()}
}

// LastRune returns last character of the current line.
func (b *Builder) LastRune() (rune, bool) {
	l := b.cur()
	if l.Len() == 0 {
		return 0, false
	}
	return l.At(l.Len() - 1), true
}

func (b *Builder) SetTitle(title string) {
	b.title = strings.TrimSpace(title)
}

// Append adds flowing text, newlines start new lines.
func (b *Builder) Append(text string) {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			b.LineBreak()
		}
		b.cur().Append(part)
	}
}

// AppendRaw adds preformatted text keeping all whitespace.
func (b *Builder) AppendRaw(text string) {
	for i, part := range strings.Split(text, "\n") {
		if i > 0 {
			b.LineBreak()
		}
		b.cur().AppendRaw(part)
	}
}

// AppendImage puts image placeholder into the flow.
func (b *Builder) AppendImage(src string) {
	from := b.Pos()
	b.cur().AppendRaw(string(ImageChar))
	b.Style(Image(src), from, b.Pos())
}

// LineBreak unconditionally starts new line.
func (b *Builder) LineBreak() {
	b.lines = append(b.lines, &Line{})
}

// ParagraphBreak finishes current line and makes sure there is exactly one
// blank line separating it from what follows. Repeated breaks do not add more
// blank lines, nothing is added at the very beginning of the document.
func (b *Builder) ParagraphBreak() {
	b.cur().trimRight()
	if b.cur().Len() > 0 {
		b.LineBreak()
	}
	if n := len(b.lines); n >= 2 && !b.lines[n-2].IsBlank() {
		b.LineBreak()
	}
}

// Anchor remembers current position under id, first definition wins.
func (b *Builder) Anchor(id string) {
	if id == "" {
		return
	}
	if _, exists := b.anchors[id]; !exists {
		b.anchors[id] = b.Pos()
	}
}

// Style records style for range [from, to).
func (b *Builder) Style(style Style, from, to Position) {
	if !from.Before(to) {
		return
	}
	b.styles = append(b.styles, pendingStyle{style: style, from: from, to: to})
}

// Build produces the document. Runs of blank lines longer than MaxBlankLines
// are collapsed, trailing empty lines are removed and all recorded positions
// are adjusted accordingly. Builder should not be used afterwards.
func (b *Builder) Build() *Document {
	keep := make([]int, len(b.lines))
	lines := make([]*Line, 0, len(b.lines))

	blanks := 0
	for i, l := range b.lines {
		if l.IsBlank() {
			blanks++
		} else {
			blanks = 0
		}
		if blanks > MaxBlankLines {
			keep[i] = -1
			continue
		}
		keep[i] = len(lines)
		lines = append(lines, l)
	}
	for len(lines) > 0 && lines[len(lines)-1].Len() == 0 {
		lines = lines[:len(lines)-1]
	}

	doc := &Document{title: b.title, anchors: make(map[string]Position, len(b.anchors))}
	if len(lines) == 0 {
		doc.lines = []*Line{NewLine(NoContent)}
		for id := range b.anchors {
			doc.anchors[id] = Position{}
		}
		return doc
	}
	doc.lines = lines

	remap := func(p Position) Position {
		for i := p.Line; i < len(keep); i++ {
			if keep[i] < 0 {
				continue
			}
			if keep[i] >= len(lines) {
				break
			}
			if i != p.Line {
				return Position{Line: keep[i]}
			}
			return Position{Line: keep[i], Offset: min(p.Offset, lines[keep[i]].Len())}
		}
		return doc.End()
	}

	for id, p := range b.anchors {
		doc.anchors[id] = remap(p)
	}
	for _, ps := range b.styles {
		doc.applyStyle(ps.style, remap(ps.from), remap(ps.to))
	}
	return doc
}

func (d *Document) applyStyle(style Style, from, to Position) {
	if !from.Before(to) {
		return
	}
	if style.IsBlock() {
		if first, last, ok := d.wholeLines(from, to); ok {
			bs := BlockStyle{Kind: BlockKindBorder, First: first, Last: last}
			if style.Channel == ChannelBackground {
				bs.Kind, bs.Color = BlockKindBackground, style.Color
			}
			d.blocks = append(d.blocks, bs)
			return
		}
	}
	for i := from.Line; i <= to.Line; i++ {
		l := d.lines[i]
		start, end := 0, l.Len()
		if i == from.Line {
			start = min(from.Offset, end)
		}
		if i == to.Line {
			end = min(to.Offset, end)
		}
		if start < end {
			l.Annotate(style, start, end)
		}
	}
}

// wholeLines checks if range covers complete lines ignoring blank lines at its
// edges.
func (d *Document) wholeLines(from, to Position) (int, int, bool) {
	if from.Offset == d.lines[from.Line].Len() && from.Line < to.Line {
		from = Position{Line: from.Line + 1}
	}
	if to.Offset == 0 && to.Line > from.Line {
		to = Position{Line: to.Line - 1, Offset: d.lines[to.Line-1].Len()}
	}
	for to.Line > from.Line && d.lines[to.Line].IsBlank() {
		to = Position{Line: to.Line - 1, Offset: d.lines[to.Line-1].Len()}
	}
	for from.Line < to.Line && d.lines[from.Line].IsBlank() {
		from = Position{Line: from.Line + 1}
	}
	if from.Offset != 0 || to.Offset != d.lines[to.Line].Len() || d.lines[to.Line].Len() == 0 {
		return 0, 0, false
	}
	return from.Line, to.Line, true
}
