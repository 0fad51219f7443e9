package book

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"
)

// ImageChar is placeholder character images occupy in the text flow.
const ImageChar = '\uFFFC'

// Span is style applied to characters [Start, End) of a line.
type Span struct {
	Style Style
	Start int
	End   int
}

func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Line is a sequence of characters with style annotations. Annotations are
// kept in order of insertion, later ones override earlier ones of the same
// channel.
type Line struct {
	text  []rune
	spans []Span
}

// NewLine creates line from text using Append rules.
func NewLine(text string) *Line {
	l := &Line{}
	l.Append(text)
	return l
}

func (l *Line) Len() int {
	return len(l.text)
}

// IsBlank reports whether line has no visible characters.
func (l *Line) IsBlank() bool {
	for _, r := range l.text {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// At returns character at offset.
func (l *Line) At(offset int) rune {
	return l.text[offset]
}

// Runes gives read only access to line text.
func (l *Line) Runes() []rune {
	return l.text
}

func (l *Line) String() string {
	return string(l.text)
}

// Spans gives read only access to line annotations in order of insertion.
func (l *Line) Spans() []Span {
	return l.spans
}

// Append adds text to the end of the line. Carriage returns and NULs are
// dropped, whitespace at the line start or right after newline is
// suppressed, everything else is kept verbatim.
func (l *Line) Append(text string) {
	for _, r := range text {
		switch {
		case r == '\r' || r == 0:
			continue
		case unicode.IsSpace(r) && l.atStart():
			continue
		}
		l.text = append(l.text, r)
	}
}

// AppendRaw adds text keeping leading whitespace, used for preformatted
// content. Carriage returns and NULs are still dropped.
func (l *Line) AppendRaw(text string) {
	for _, r := range text {
		if r == '\r' || r == 0 {
			continue
		}
		l.text = append(l.text, r)
	}
}

// trimRight removes trailing whitespace, annotations are clamped.
func (l *Line) trimRight() {
	n := len(l.text)
	for n > 0 && unicode.IsSpace(l.text[n-1]) {
		n--
	}
	if n == len(l.text) {
		return
	}
	l.text = l.text[:n]
	spans := l.spans[:0]
	for _, s := range l.spans {
		s.End = min(s.End, n)
		if s.Start < s.End {
			spans = append(spans, s)
		}
	}
	l.spans = spans
}

func (l *Line) atStart() bool {
	return len(l.text) == 0 || l.text[len(l.text)-1] == '\n'
}

// Annotate applies style to [start, end). Range must be within line, callers
// are responsible for clamping.
func (l *Line) Annotate(style Style, start, end int) {
	if start < 0 || start > end || end > len(l.text) {
		panic(fmt.Sprintf("annotate: range [%d, %d) is outside of line with length %d", start, end, len(l.text)))
	}
	if start == end {
		return
	}
	l.spans = append(l.spans, Span{Style: style, Start: start, End: end})
}

// StyleAt resolves all channels for character at offset, channels without
// annotations come from palette.
func (l *Line) StyleAt(offset int, base Palette) ResolvedStyle {
	rs := resolveBase(base)
	for _, s := range l.spans {
		if s.Contains(offset) {
			rs.apply(s.Style)
		}
	}
	return rs
}

// FindLink returns link covering offset, if any.
func (l *Line) FindLink(offset int) (Span, bool) {
	var (
		found Span
		ok    bool
	)
	for _, s := range l.spans {
		if s.Style.Channel == ChannelLink && s.Contains(offset) {
			found, ok = s, true
		}
	}
	return found, ok
}

// Links returns all link annotations ordered by position.
func (l *Line) Links() []Span {
	var links []Span
	for _, s := range l.spans {
		if s.Style.Channel == ChannelLink {
			links = append(links, s)
		}
	}
	slices.SortStableFunc(links, func(a, b Span) int {
		return a.Start - b.Start
	})
	return links
}

// Search looks for pattern inside of character window [start, stop). When
// reverse is set the last match in the window is returned. Returned offsets
// are character offsets, empty matches are ignored.
func (l *Line) Search(p *Pattern, start, stop int, reverse bool) (int, int, bool) {
	start = max(0, start)
	stop = min(len(l.text), stop)
	if start >= stop {
		return 0, 0, false
	}

	window := string(l.text[start:stop])
	matches := p.re.FindAllStringIndex(window, -1)
	if reverse {
		slices.Reverse(matches)
	}
	for _, m := range matches {
		if m[0] == m[1] {
			continue
		}
		s := start + utf8.RuneCountInString(window[:m[0]])
		e := s + utf8.RuneCountInString(window[m[0]:m[1]])
		return s, e, true
	}
	return 0, 0, false
}
