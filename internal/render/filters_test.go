package render

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

func randomWeights(outC, inC, k int) *tensor.Tensor {
	rng := rand.New(rand.NewSource(7))
	data := make([]float32, outC*inC*k*k)
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}
	out, err := tensor.FromSlice(data, tensor.Shape{outC, inC, k, k})
	if err != nil {
		panic(err)
	}
	return out
}

func TestFilterGrid_RGBFilters(t *testing.T) {
	grid := FilterGrid(randomWeights(8, 3, 11), 16)

	// 8 filters, 4 per row: two rows of 48px tiles with 2px padding.
	assert.Equal(t, 4*48+5*2, grid.Bounds().Dx())
	assert.Equal(t, 2*48+3*2, grid.Bounds().Dy())
}

func TestFilterGrid_DeepFilters(t *testing.T) {
	grid := FilterGrid(randomWeights(32, 64, 3), 16)

	// Capped at 16 filters: 4x4 grid.
	assert.Equal(t, 4*48+5*2, grid.Bounds().Dx())
	assert.Equal(t, 4*48+5*2, grid.Bounds().Dy())
}

func TestRGBFilterTile_ConstantFilter(t *testing.T) {
	// A constant filter has zero span; the tile must render black
	// rather than dividing by zero.
	filter := make([]float32, 3*2*2)
	tile := rgbFilterTile(filter, 2, 2)
	c := tile.RGBAAt(0, 0)
	assert.Equal(t, uint8(0), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(0), c.B)
	assert.Equal(t, uint8(255), c.A)
}
