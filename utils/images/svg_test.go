package images

import (
	"bytes"
	"image/color"
	"testing"
)

func TestRasterizeSVG(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50"/></svg>`)

	tests := []struct {
		name       string
		boxW, boxH int
		wantW      int
		wantH      int
	}{
		{"intrinsic", 0, 0, 100, 50},
		{"by width", 200, 0, 200, 100},
		{"by height", 0, 10, 20, 10},
		{"fit box", 150, 150, 150, 75},
		{"fit narrow box", 10, 100, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := RasterizeSVG(svg, tt.boxW, tt.boxH)
			if err != nil {
				t.Fatalf("RasterizeSVG() error = %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("bounds = %v, want %dx%d", img.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestRasterizeSVG_Fill(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="5" height="10" fill="#000000"/></svg>`)

	img, err := RasterizeSVG(svg, 0, 0)
	if err != nil {
		t.Fatalf("RasterizeSVG() error = %v", err)
	}
	if r, _, _, _ := img.At(1, 5).RGBA(); r != 0 {
		t.Errorf("painted pixel = %v, want black", img.At(1, 5))
	}
	if got := color.NRGBAModel.Convert(img.At(8, 5)); got != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestRasterizeSVG_Clamp(t *testing.T) {
	old := maxRasterDim
	maxRasterDim = 64
	t.Cleanup(func() { maxRasterDim = old })

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100000 50000"></svg>`)
	img, err := RasterizeSVG(svg, 0, 0)
	if err != nil {
		t.Fatalf("RasterizeSVG() error = %v", err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Errorf("bounds = %v, want 64x32", img.Bounds())
	}
}

func TestScaleStrokeWidth(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		factor float64
		want   string
	}{
		{"attribute", `<path stroke-width="2"/>`, 2, `<path stroke-width="4"/>`},
		{"property", `<path style="stroke-width:1.5"/>`, 2, `<path style="stroke-width:3"/>`},
		{"unchanged", `<path stroke-width="2"/>`, 1, `<path stroke-width="2"/>`},
		{"no strokes", `<rect width="2"/>`, 3, `<rect width="2"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaleStrokeWidth([]byte(tt.in), tt.factor)
			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("scaleStrokeWidth() = %s, want %s", got, tt.want)
			}
		})
	}
}
