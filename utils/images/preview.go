package images

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// halfBlock paints upper half of the cell with foreground and lower half
// with background, so every cell shows two vertically stacked pixels.
const halfBlock = "▀"

// Cell is a single terminal cell of the preview.
type Cell struct {
	Top, Bottom color.NRGBA
}

// Preview is an image reduced to terminal cells.
type Preview struct {
	Cells [][]Cell
	// Source image size in pixels.
	Width, Height int
}

// Rows is preview height in cells.
func (p *Preview) Rows() int {
	return len(p.Cells)
}

// Cols is preview width in cells.
func (p *Preview) Cols() int {
	if len(p.Cells) == 0 {
		return 0
	}
	return len(p.Cells[0])
}

// Halfblocks fits img into cols x rows cells. Images are never enlarged,
// transparent areas are shown on white. When gray is set colors are dropped.
func Halfblocks(img image.Image, cols, rows int, gray bool) *Preview {
	b := img.Bounds()
	p := &Preview{Width: b.Dx(), Height: b.Dy()}
	if cols <= 0 || rows <= 0 || b.Empty() {
		return p
	}

	fitted := imaging.Fit(img, cols, rows*2, imaging.Lanczos)
	if gray && !IsGrayscale(fitted) {
		fitted = imaging.Grayscale(fitted)
	}
	w, h := fitted.Bounds().Dx(), fitted.Bounds().Dy()
	// odd height leaves lower half of the last row on background
	canvas := imaging.Overlay(imaging.New(w, h+h%2, color.White), fitted, image.Point{}, 1)

	p.Cells = make([][]Cell, (h+1)/2)
	for r := range p.Cells {
		row := make([]Cell, w)
		for c := range row {
			row[c] = Cell{Top: canvas.NRGBAAt(c, 2*r), Bottom: canvas.NRGBAAt(c, 2*r+1)}
		}
		p.Cells[r] = row
	}
	return p
}

// Render draws preview with lipgloss, colors are degraded to what output
// terminal supports.
func (p *Preview) Render() []string {
	out := make([]string, 0, len(p.Cells))
	for _, row := range p.Cells {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(cell.Top))).
				Background(lipgloss.Color(hexColor(cell.Bottom))).
				Render(halfBlock))
		}
		out = append(out, sb.String())
	}
	return out
}

func hexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Load decodes image data and builds its preview. SVG is rasterized
// directly at preview resolution.
func Load(data []byte, cols, rows int, gray bool) (*Preview, error) {
	if IsSVG(data) {
		img, err := RasterizeSVG(data, cols, rows*2)
		if err != nil {
			return nil, fmt.Errorf("unable to rasterize svg: %w", err)
		}
		return Halfblocks(img, cols, rows, gray), nil
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Halfblocks(img, cols, rows, gray), nil
}
