package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"regexp"
	"strconv"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used when SVG has no usable viewBox.
const defaultSVGSize = 1024

// maxRasterDim limits either side of the rasterized image so huge viewBox
// values do not exhaust memory.
var maxRasterDim = 4096

// maxStrokeFactor caps stroke thickening of downscaled drawings.
const maxStrokeFactor = 4.0

var strokeWidthRe = regexp.MustCompile(`(stroke-width\s*[=:]\s*["']?)(\d+(?:\.\d+)?)(["']?)`)

// scaleStrokeWidth multiplies every stroke-width value found in data.
func scaleStrokeWidth(data []byte, factor float64) []byte {
	if factor <= 0 || factor == 1 {
		return data
	}
	return strokeWidthRe.ReplaceAllFunc(data, func(match []byte) []byte {
		sub := strokeWidthRe.FindSubmatch(match)
		value, err := strconv.ParseFloat(string(sub[2]), 64)
		if err != nil {
			return match
		}
		out := append([]byte{}, sub[1]...)
		out = strconv.AppendFloat(out, value*factor, 'f', -1, 64)
		return append(out, sub[3]...)
	})
}

// fitBox returns size of intrinsic w x h scaled to fit into box. Box side
// which is not positive does not constrain result, when both are not
// positive intrinsic size is kept.
func fitBox(w, h, boxW, boxH int) (int, int, float64) {
	scale := 1.0
	switch {
	case boxW > 0 && boxH > 0:
		scale = math.Min(float64(boxW)/float64(w), float64(boxH)/float64(h))
	case boxW > 0:
		scale = float64(boxW) / float64(w)
	case boxH > 0:
		scale = float64(boxH) / float64(h)
	}
	rw := max(int(math.Round(float64(w)*scale)), 1)
	rh := max(int(math.Round(float64(h)*scale)), 1)
	if rw > maxRasterDim || rh > maxRasterDim {
		clamp := math.Min(float64(maxRasterDim)/float64(rw), float64(maxRasterDim)/float64(rh))
		rw = max(int(math.Round(float64(rw)*clamp)), 1)
		rh = max(int(math.Round(float64(rh)*clamp)), 1)
		scale *= clamp
	}
	return rw, rh, scale
}

// RasterizeSVG renders SVG on white background fitting it into boxW x boxH
// with aspect ratio preserved. When drawing is scaled down strokes are made
// proportionally thicker so thin lines stay visible in small previews.
func RasterizeSVG(data []byte, boxW, boxH int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	iw, ih := int(math.Ceil(icon.ViewBox.W)), int(math.Ceil(icon.ViewBox.H))
	if iw <= 0 {
		iw = defaultSVGSize
	}
	if ih <= 0 {
		ih = defaultSVGSize
	}
	w, h, scale := fitBox(iw, ih, boxW, boxH)

	if scale < 1 {
		thick := scaleStrokeWidth(data, math.Min(1/scale, maxStrokeFactor))
		if icon, err = oksvg.ReadIconStream(bytes.NewReader(thick)); err != nil {
			return nil, err
		}
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return dst, nil
}
