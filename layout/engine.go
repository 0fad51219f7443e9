// Package layout wraps document lines to the viewport and paginates
// documents in both directions.
package layout

import (
	"unicode"

	"ebr/book"
)

// DefaultLookback is how far back (in characters) break may move to reach
// whitespace.
const DefaultLookback = 20

// Viewport is the size of the page in metrics units.
type Viewport struct {
	Width  int
	Height int
}

// RenderChar is a placed character. Pos refers back to the document.
type RenderChar struct {
	Ch    rune
	Pos   book.Position
	Style book.ResolvedStyle
	X     int
	Width int
}

// RenderLine is a single wrapped piece of a document line.
type RenderLine struct {
	// Start is the position of the first character, End is where the next
	// piece of the same document line starts (or line length).
	Start         book.Position
	End           int
	Chars         []RenderChar
	Width         int
	Height        int
	Spacing       int
	Border        bool
	Background    book.Color
	HasBackground bool
}

// Extent is vertical space line occupies on the page.
func (rl RenderLine) Extent() int {
	return rl.Height + rl.Spacing
}

// Contains reports whether position belongs to this piece of the line.
func (rl RenderLine) Contains(p book.Position) bool {
	return p.Line == rl.Start.Line && p.Offset >= rl.Start.Offset && (p.Offset < rl.End || len(rl.Chars) == 0)
}

// Engine lays out documents. It has no mutable state and could be shared.
type Engine struct {
	metrics  Metrics
	indent   int
	lookback int
	spacing  int
	palette  book.Palette
}

type Option func(*Engine)

// WithIndent reserves n cells before the first character of a paragraph.
func WithIndent(n int) Option {
	return func(e *Engine) { e.indent = max(0, n) }
}

// WithLookback sets how many characters break may move back to reach
// whitespace.
func WithLookback(n int) Option {
	return func(e *Engine) { e.lookback = max(0, n) }
}

// WithSpacing sets extra space between lines.
func WithSpacing(n int) Option {
	return func(e *Engine) { e.spacing = max(0, n) }
}

func WithPalette(p book.Palette) Option {
	return func(e *Engine) { e.palette = p }
}

func New(m Metrics, opts ...Option) *Engine {
	e := &Engine{
		metrics:  m,
		lookback: DefaultLookback,
		palette:  book.DefaultPalette,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Palette() book.Palette {
	return e.palette
}

// WrapLine lays out document line starting at offset into pieces no wider
// than width. Blank line produces single empty piece, offset past the end of
// non empty line produces nothing.
func (e *Engine) WrapLine(doc *book.Document, line, offset, width int) []RenderLine {
	l := doc.Line(line)
	border, bg, hasBg := doc.LineBlocks(line)
	base := book.ResolvedStyle{Level: book.NormalLevel, Family: e.palette.Family, Color: e.palette.Foreground, Background: e.palette.Background}
	baseHeight := e.metrics.Height(base)

	newLine := func(start int) RenderLine {
		return RenderLine{
			Start:         book.Position{Line: line, Offset: start},
			End:           start,
			Height:        baseHeight,
			Spacing:       e.spacing,
			Border:        border,
			Background:    bg,
			HasBackground: hasBg,
		}
	}

	n := l.Len()
	if n == 0 {
		return []RenderLine{newLine(0)}
	}
	if offset >= n {
		return nil
	}

	var (
		out []RenderLine
		cur = newLine(offset)
		x   = 0
	)
	if offset == 0 && !unicode.IsSpace(l.At(0)) {
		x = e.indent * e.metrics.Advance(' ', base)
	}

	finish := func(next int) {
		cur.End = next
		out = append(out, cur)
	}
	skipSpaces := func(i int) int {
		for i < n && unicode.IsSpace(l.At(i)) {
			i++
		}
		return i
	}

	for i := offset; i < n; {
		r := l.At(i)
		st := l.StyleAt(i, e.palette)
		w := e.metrics.Advance(r, st)

		if x+w > width && len(cur.Chars) > 0 {
			switch k := e.breakOpportunity(cur.Chars); {
			case unicode.IsSpace(r):
				// overflowing whitespace is the break itself
				finish(i)
				i = skipSpaces(i)
			case k > 0:
				cur.Chars, cur.Width = cur.Chars[:k], cur.Chars[k].X
				i = skipSpaces(cur.Chars[k-1].Pos.Offset + 1)
				cur.Height = lineHeight(cur.Chars, baseHeight, e.metrics)
				finish(i)
			default:
				finish(i)
			}
			if i >= n {
				return out
			}
			cur, x = newLine(i), 0
			continue
		}

		cur.Chars = append(cur.Chars, RenderChar{Ch: r, Pos: book.Position{Line: line, Offset: i}, Style: st, X: x, Width: w})
		cur.Height = max(cur.Height, e.metrics.Height(st))
		x += w
		cur.Width = x
		i++
	}
	finish(n)
	return out
}

// breakOpportunity finds whitespace to break at inside of look back window,
// returns index of the character or 0 when there is none. Whitespace which
// is the first character of the line is not a break opportunity.
func (e *Engine) breakOpportunity(chars []RenderChar) int {
	for k := len(chars) - 1; k > 0 && len(chars)-k <= e.lookback; k-- {
		if unicode.IsSpace(chars[k].Ch) {
			return k
		}
	}
	return 0
}

func lineHeight(chars []RenderChar, base int, m Metrics) int {
	h := base
	for _, c := range chars {
		h = max(h, m.Height(c.Style))
	}
	return h
}
