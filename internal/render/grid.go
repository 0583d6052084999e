package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

const (
	// DefaultMaxMaps caps how many feature maps a grid shows.
	DefaultMaxMaps = 16

	gridCols    = 4
	gridPadding = 2
)

// FeatureGrid tiles the first maxMaps channels of a [channels, height,
// width] activation into a single grayscale image, gridCols tiles per
// row, separated by white padding. Each tile is min-max normalized on
// its own so weakly activated channels stay visible. Channels beyond
// maxMaps are dropped.
func FeatureGrid(act *tensor.Tensor, maxMaps int) *image.Gray {
	shape := act.Shape()
	channels, h, w := shape[0], shape[1], shape[2]
	if maxMaps <= 0 {
		maxMaps = DefaultMaxMaps
	}
	shown := channels
	if shown > maxMaps {
		shown = maxMaps
	}

	rows := (shown + gridCols - 1) / gridCols
	gridW := gridCols*w + (gridCols+1)*gridPadding
	gridH := rows*h + (rows+1)*gridPadding

	grid := image.NewGray(image.Rect(0, 0, gridW, gridH))
	draw.Draw(grid, grid.Bounds(), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)

	plane := h * w
	data := act.Data()
	for ch := 0; ch < shown; ch++ {
		tile, err := tensor.FromSlice(data[ch*plane:(ch+1)*plane], tensor.Shape{h, w})
		if err != nil {
			continue // unreachable: the slice length matches the shape
		}
		tileImg := NormalizeToGray(tile)

		col, row := ch%gridCols, ch/gridCols
		x0 := gridPadding + col*(w+gridPadding)
		y0 := gridPadding + row*(h+gridPadding)
		draw.Draw(grid, image.Rect(x0, y0, x0+w, y0+h), tileImg, image.Point{}, draw.Src)
	}
	return grid
}
