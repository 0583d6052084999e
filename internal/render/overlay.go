package render

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// DefaultOverlayAlpha is the heatmap blend weight used when the caller
// does not supply one.
const DefaultOverlayAlpha = 0.5

// Overlay blends a Jet-colorized heatmap over the original image. The
// original is resized to the heatmap's resolution first so the two
// align pixel for pixel. alpha is the heatmap's weight and is clamped
// to [0,1].
func Overlay(original image.Image, heatmap *tensor.Tensor, alpha float64) *image.RGBA {
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	shape := heatmap.Shape()
	h, w := shape[0], shape[1]
	base := resize.Resize(uint(w), uint(h), original, resize.Bilinear)
	heat := Jet.ColorizeMap(heatmap)

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			br, bg, bb, _ := base.At(x, y).RGBA()
			hc := heat.RGBAAt(x, y)
			out.SetRGBA(x, y, blendPixel(
				uint8(br>>8), uint8(bg>>8), uint8(bb>>8), hc, alpha))
		}
	}
	return out
}

func blendPixel(r, g, b uint8, heat color.RGBA, alpha float64) color.RGBA {
	mix := func(base, over uint8) uint8 {
		v := (1-alpha)*float64(base) + alpha*float64(over)
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return color.RGBA{
		R: mix(r, heat.R),
		G: mix(g, heat.G),
		B: mix(b, heat.B),
		A: 255,
	}
}
