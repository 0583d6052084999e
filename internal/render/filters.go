package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

const (
	// DefaultMaxFilters caps how many learned filters a grid shows.
	DefaultMaxFilters = 16

	filterTileSize = 48
)

// FilterGrid tiles the first maxFilters learned kernels of a
// [out_channels, in_channels, kh, kw] weight tensor. Three-channel
// filters (conv1) render as RGB; deeper filters collapse to their
// channel mean and render through the Viridis palette. Each kernel is
// upscaled with nearest-neighbor so the raw weights stay visible as
// blocks.
func FilterGrid(weights *tensor.Tensor, maxFilters int) *image.RGBA {
	shape := weights.Shape()
	outC, inC, kh, kw := shape[0], shape[1], shape[2], shape[3]
	if maxFilters <= 0 {
		maxFilters = DefaultMaxFilters
	}
	shown := outC
	if shown > maxFilters {
		shown = maxFilters
	}

	rows := (shown + gridCols - 1) / gridCols
	gridW := gridCols*filterTileSize + (gridCols+1)*gridPadding
	gridH := rows*filterTileSize + (rows+1)*gridPadding

	grid := image.NewRGBA(image.Rect(0, 0, gridW, gridH))
	draw.Draw(grid, grid.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	data := weights.Data()
	filterLen := inC * kh * kw
	for f := 0; f < shown; f++ {
		filter := data[f*filterLen : (f+1)*filterLen]

		var tile image.Image
		if inC == 3 {
			tile = rgbFilterTile(filter, kh, kw)
		} else {
			tile = meanFilterTile(filter, inC, kh, kw)
		}
		scaled := resize.Resize(filterTileSize, filterTileSize, tile, resize.NearestNeighbor)

		col, row := f%gridCols, f/gridCols
		x0 := gridPadding + col*(filterTileSize+gridPadding)
		y0 := gridPadding + row*(filterTileSize+gridPadding)
		draw.Draw(grid, image.Rect(x0, y0, x0+filterTileSize, y0+filterTileSize),
			scaled, image.Point{}, draw.Src)
	}
	return grid
}

// rgbFilterTile normalizes a 3-channel kernel jointly across channels
// so relative color is preserved, then renders it as an RGB image.
func rgbFilterTile(filter []float32, kh, kw int) *image.RGBA {
	minVal, maxVal := filter[0], filter[0]
	for _, v := range filter {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	span := maxVal - minVal

	plane := kh * kw
	img := image.NewRGBA(image.Rect(0, 0, kw, kh))
	for y := 0; y < kh; y++ {
		for x := 0; x < kw; x++ {
			i := y*kw + x
			img.SetRGBA(x, y, color.RGBA{
				R: normByte(filter[i], minVal, span),
				G: normByte(filter[plane+i], minVal, span),
				B: normByte(filter[2*plane+i], minVal, span),
				A: 255,
			})
		}
	}
	return img
}

// meanFilterTile averages a kernel over its input channels and renders
// the result through the Viridis palette.
func meanFilterTile(filter []float32, inC, kh, kw int) *image.RGBA {
	plane := kh * kw
	mean := make([]float32, plane)
	for c := 0; c < inC; c++ {
		for i := 0; i < plane; i++ {
			mean[i] += filter[c*plane+i]
		}
	}
	for i := range mean {
		mean[i] /= float32(inC)
	}

	t, err := tensor.FromSlice(mean, tensor.Shape{kh, kw})
	if err != nil {
		panic(err) // unreachable: the slice length matches the shape
	}
	return Viridis.Apply(NormalizeToGray(t))
}

func normByte(v, minVal, span float32) uint8 {
	if span <= 0 {
		return 0
	}
	return uint8((v-minVal)/span*255 + 0.5)
}
