package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestIsGrayscale(t *testing.T) {
	grayNRGBA := imaging.New(4, 3, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	tinted := imaging.New(4, 3, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	tinted.SetNRGBA(3, 2, color.NRGBA{R: 90, G: 91, B: 90, A: 255})

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 2))
	rgba.Set(1, 1, color.RGBA{R: 255, A: 255})

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 2, 2)), true},
		{"gray16", image.NewGray16(image.Rect(0, 0, 2, 2)), true},
		{"nrgba gray", grayNRGBA, true},
		{"nrgba tinted", tinted, false},
		{"nrgba sub image", tinted.SubImage(image.Rect(0, 0, 2, 2)), true},
		{"rgba red", rgba, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsGrayscale(tt.img); got != tt.want {
				t.Errorf("IsGrayscale() = %v, want %v", got, tt.want)
			}
		})
	}
}
