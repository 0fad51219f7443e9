package css

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"ebr/book"
)

// Color interprets value as color: #rgb, #rrggbb, rgb()/rgba() and named
// colors are supported.
func (v Value) Color() (book.Color, bool) {
	s := strings.ToLower(strings.TrimSpace(v.Keyword))
	if s == "" {
		s = strings.ToLower(strings.TrimSpace(v.Raw))
	}
	switch {
	case strings.HasPrefix(s, "#"):
		return book.ParseHex(s)
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGB(s)
	}
	if c, ok := colornames.Map[s]; ok {
		return book.Color{R: c.R, G: c.G, B: c.B}, true
	}
	return book.Color{}, false
}

func parseRGB(s string) (book.Color, bool) {
	_, args, ok := strings.Cut(s, "(")
	if !ok {
		return book.Color{}, false
	}
	args = strings.TrimSuffix(strings.TrimSpace(args), ")")
	parts := strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) < 3 {
		return book.Color{}, false
	}
	var rgb [3]uint8
	for i := range 3 {
		p := parts[i]
		scale := 1.0
		if strings.HasSuffix(p, "%") {
			p, scale = strings.TrimSuffix(p, "%"), 2.55
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return book.Color{}, false
		}
		rgb[i] = uint8(math.Round(max(0, min(255, f*scale))))
	}
	return book.Color{R: rgb[0], G: rgb[1], B: rgb[2]}, true
}

var sizeKeywords = map[string]int{
	"xx-small":  1,
	"x-small":   1,
	"small":     2,
	"medium":    3,
	"large":     4,
	"x-large":   5,
	"xx-large":  6,
	"xxx-large": 7,
}

// FontLevel interprets font-size relative to the parent level. Absolute
// lengths are not meaningful for cell based layout and are ignored.
func (v Value) FontLevel(parent int) (int, bool) {
	if level, ok := sizeKeywords[v.Keyword]; ok {
		return level, true
	}
	switch v.Keyword {
	case "smaller":
		return max(book.MinLevel, parent-1), true
	case "larger":
		return min(book.MaxLevel, parent+1), true
	}

	var factor float64
	switch v.Unit {
	case "em", "rem":
		factor = v.Value
	case "%":
		factor = v.Value / 100
	default:
		return 0, false
	}
	if factor <= 0 {
		return 0, false
	}
	return closestLevel(book.LevelScale(parent) * factor), true
}

func closestLevel(scale float64) int {
	best, diff := book.NormalLevel, math.Inf(1)
	for level := book.MinLevel; level <= book.MaxLevel; level++ {
		if d := math.Abs(book.LevelScale(level) - scale); d < diff {
			best, diff = level, d
		}
	}
	return best
}

// Bold interprets font-weight.
func (v Value) Bold() (bool, bool) {
	switch v.Keyword {
	case "bold", "bolder":
		return true, true
	case "normal", "lighter":
		return false, true
	}
	if v.IsNumeric() && v.Unit == "" {
		return v.Value >= 600, true
	}
	return false, false
}

// Italic interprets font-style.
func (v Value) Italic() (bool, bool) {
	switch v.Keyword {
	case "italic", "oblique":
		return true, true
	case "normal":
		return false, true
	}
	return false, false
}

// Decoration interprets text-decoration and text-decoration-line.
func (v Value) Decoration() (book.Decoration, bool) {
	var d book.Decoration
	for _, kw := range v.Keywords() {
		switch kw {
		case "none":
			return book.DecorNone, true
		case "underline":
			d |= book.DecorUnderline
		case "line-through":
			d |= book.DecorLineThrough
		case "overline":
			d |= book.DecorOverline
		}
	}
	return d, d != book.DecorNone
}

// Family interprets font-family list, first recognized generic family wins.
func (v Value) Family() (book.Family, bool) {
	for _, kw := range v.Keywords() {
		kw = unquote(kw)
		switch {
		case kw == "monospace" || strings.Contains(kw, "mono") || strings.Contains(kw, "courier"):
			return book.FamilyMonospace, true
		case kw == "sans-serif" || strings.Contains(kw, "sans") || kw == "arial" || kw == "helvetica":
			return book.FamilySans, true
		case kw == "serif" || strings.Contains(kw, "times") || strings.Contains(kw, "georgia"):
			return book.FamilySerif, true
		}
	}
	return 0, false
}

// HasBorder interprets border shorthand and border-style.
func (v Value) HasBorder() bool {
	if v.IsNumeric() {
		return v.Value > 0
	}
	for _, kw := range v.Keywords() {
		switch kw {
		case "none", "hidden", "0":
			return false
		}
	}
	return v.Raw != ""
}

// Background extracts color from background shorthand.
func (v Value) Background() (book.Color, bool) {
	if c, ok := v.Color(); ok {
		return c, true
	}
	for _, part := range strings.Fields(v.Keyword) {
		if c, ok := (Value{Keyword: part}).Color(); ok {
			return c, true
		}
	}
	return book.Color{}, false
}
