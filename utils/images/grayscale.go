package images

import (
	"image"
	"image/color"
)

// IsGrayscale reports whether every pixel of img has equal color components.
func IsGrayscale(img image.Image) bool {
	switch im := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.NRGBA:
		// imaging always produces NRGBA, walk pixels directly
		for y := 0; y < im.Rect.Dy(); y++ {
			row := im.Pix[y*im.Stride : y*im.Stride+im.Rect.Dx()*4]
			for i := 0; i < len(row); i += 4 {
				if row[i] != row[i+1] || row[i+1] != row[i+2] {
					return false
				}
			}
		}
		return true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.R != c.G || c.G != c.B {
				return false
			}
		}
	}
	return true
}
