// Package render turns captured activations, weights and heatmaps into
// displayable images and charts. Everything here is a pure function of
// its numeric input; nothing holds state and nothing touches the
// network.
package render

import (
	"image"
	"image/color"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// Palette is a 256-entry perceptual color mapping applied to
// single-channel images for display.
type Palette [256]color.RGBA

// Two palettes are used by convention: Viridis for generic feature-map
// display and Jet for saliency heatmaps.
var (
	Viridis = buildViridis()
	Jet     = buildJet()
)

// Apply maps a grayscale image through the palette.
func (p *Palette) Apply(src *image.Gray) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dst.SetRGBA(x, y, p[src.GrayAt(x, y).Y])
		}
	}
	return dst
}

// ColorizeMap maps a 2D tensor with values in [0,1] through the
// palette. Out-of-range values are clamped.
func (p *Palette) ColorizeMap(t *tensor.Tensor) *image.RGBA {
	shape := t.Shape()
	h, w := shape[0], shape[1]
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	data := t.Data()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := data[y*w+x]
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			dst.SetRGBA(x, y, p[int(v*255+0.5)])
		}
	}
	return dst
}

// viridisAnchors are evenly spaced control points of the viridis
// colormap; intermediate entries are linearly interpolated.
var viridisAnchors = [][3]uint8{
	{68, 1, 84},
	{72, 40, 120},
	{62, 74, 137},
	{49, 104, 142},
	{38, 130, 142},
	{31, 158, 137},
	{53, 183, 121},
	{109, 205, 89},
	{180, 222, 44},
	{237, 231, 37},
	{253, 231, 37},
}

func buildViridis() Palette {
	var p Palette
	segments := len(viridisAnchors) - 1
	for i := range p {
		pos := float64(i) / 255 * float64(segments)
		seg := int(pos)
		if seg >= segments {
			seg = segments - 1
		}
		frac := pos - float64(seg)
		a, b := viridisAnchors[seg], viridisAnchors[seg+1]
		p[i] = color.RGBA{
			R: lerp8(a[0], b[0], frac),
			G: lerp8(a[1], b[1], frac),
			B: lerp8(a[2], b[2], frac),
			A: 255,
		}
	}
	return p
}

// buildJet evaluates the analytic jet ramp: each channel is a shifted
// triangle wave over the unit interval.
func buildJet() Palette {
	var p Palette
	for i := range p {
		x := float64(i) / 255
		p[i] = color.RGBA{
			R: jetChannel(1.5 - abs(4*x-3)),
			G: jetChannel(1.5 - abs(4*x-2)),
			B: jetChannel(1.5 - abs(4*x-1)),
			A: 255,
		}
	}
	return p
}

func jetChannel(v float64) uint8 {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

func lerp8(a, b uint8, frac float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*frac + 0.5)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
