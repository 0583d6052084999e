package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

func rampActivation(channels, h, w int) *tensor.Tensor {
	data := make([]float32, channels*h*w)
	for i := range data {
		data[i] = float32(i % 17)
	}
	out, err := tensor.FromSlice(data, tensor.Shape{channels, h, w})
	if err != nil {
		panic(err)
	}
	return out
}

// TestFeatureGrid_CapsChannels: 32 channels and a cap of 16 must
// produce a 4x4 grid of 5x5 tiles with 2px padding.
func TestFeatureGrid_CapsChannels(t *testing.T) {
	grid := FeatureGrid(rampActivation(32, 5, 5), 16)

	wantW := 4*5 + 5*2 // 4 cols of 5px plus 5 padding gaps
	wantH := 4*5 + 5*2
	assert.Equal(t, wantW, grid.Bounds().Dx())
	assert.Equal(t, wantH, grid.Bounds().Dy())
}

func TestFeatureGrid_FewChannels(t *testing.T) {
	grid := FeatureGrid(rampActivation(3, 4, 4), 16)

	// One row of three tiles; width still spans four columns.
	assert.Equal(t, 4*4+5*2, grid.Bounds().Dx())
	assert.Equal(t, 1*4+2*2, grid.Bounds().Dy())

	// Padding stays white.
	assert.Equal(t, uint8(255), grid.GrayAt(0, 0).Y)
}

func TestColorizeMap_Clamps(t *testing.T) {
	m, _ := tensor.FromSlice([]float32{-0.5, 0, 1, 1.5}, tensor.Shape{2, 2})
	img := Jet.ColorizeMap(m)

	// Out-of-range values clamp to the palette endpoints.
	assert.Equal(t, Jet[0], img.RGBAAt(0, 0))
	assert.Equal(t, Jet[255], img.RGBAAt(1, 1))
}

func TestPaletteApply(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 1))
	src.SetGray(0, 0, color.Gray{Y: 0})
	src.SetGray(1, 0, color.Gray{Y: 255})

	out := Viridis.Apply(src)
	assert.Equal(t, Viridis[0], out.RGBAAt(0, 0))
	assert.Equal(t, Viridis[255], out.RGBAAt(1, 0))
}

func TestPalettes_FullyOpaque(t *testing.T) {
	for i := range Viridis {
		require.Equal(t, uint8(255), Viridis[i].A, "viridis %d", i)
		require.Equal(t, uint8(255), Jet[i].A, "jet %d", i)
	}
}

func TestOverlay(t *testing.T) {
	original := image.NewRGBA(image.Rect(0, 0, 50, 50))
	heatmap := tensor.New(tensor.Shape{8, 8})
	heatmap.Data()[0] = 1

	out := Overlay(original, heatmap, 0.5)
	assert.Equal(t, 8, out.Bounds().Dx())
	assert.Equal(t, 8, out.Bounds().Dy())
}

// TestOverlay_FullAlpha: alpha 1 shows the colorized heatmap only.
func TestOverlay_FullAlpha(t *testing.T) {
	original := image.NewRGBA(image.Rect(0, 0, 4, 4))
	heatmap, _ := tensor.FromSlice([]float32{0, 1, 0.5, 0.25}, tensor.Shape{2, 2})

	out := Overlay(original, heatmap, 1)
	heat := Jet.ColorizeMap(heatmap)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			assert.Equal(t, heat.RGBAAt(x, y), out.RGBAAt(x, y))
		}
	}
}

func TestOverlay_AlphaClamped(t *testing.T) {
	original := image.NewRGBA(image.Rect(0, 0, 2, 2))
	heatmap := tensor.New(tensor.Shape{2, 2})

	// alpha outside [0,1] must not blow up the blend.
	out := Overlay(original, heatmap, 5)
	heat := Jet.ColorizeMap(heatmap)
	assert.Equal(t, heat.RGBAAt(0, 0), out.RGBAAt(0, 0))
}
