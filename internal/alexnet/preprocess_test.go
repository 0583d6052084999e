package alexnet

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

func uniformImage(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPreprocess_Shape(t *testing.T) {
	for _, dims := range [][2]int{{224, 224}, {640, 480}, {100, 300}, {300, 100}} {
		img := uniformImage(dims[0], dims[1], color.RGBA{128, 128, 128, 255})
		out := Preprocess(img)
		require.True(t, out.Shape().Equal(tensor.Shape{3, InputSize, InputSize}),
			"input %dx%d produced shape %v", dims[0], dims[1], out.Shape())
	}
}

// TestPreprocess_Normalization: a white image maps every channel to
// (1 - mean) / std.
func TestPreprocess_Normalization(t *testing.T) {
	out := Preprocess(uniformImage(256, 256, color.RGBA{255, 255, 255, 255}))
	data := out.Data()
	plane := InputSize * InputSize

	for ch := 0; ch < 3; ch++ {
		want := (1 - imagenetMean[ch]) / imagenetStd[ch]
		got := data[ch*plane]
		assert.InDelta(t, want, got, 1e-2, "channel %d", ch)
	}
}

func TestPreprocess_BlackImage(t *testing.T) {
	out := Preprocess(uniformImage(256, 256, color.RGBA{0, 0, 0, 255}))
	data := out.Data()
	plane := InputSize * InputSize

	for ch := 0; ch < 3; ch++ {
		want := (0 - imagenetMean[ch]) / imagenetStd[ch]
		assert.InDelta(t, want, data[ch*plane], 1e-2, "channel %d", ch)
	}
}
