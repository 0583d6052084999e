package nn

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// ResizeBilinear resamples a 2D map to outH x outW with bilinear
// interpolation, keeping full float precision. Sample positions use the
// half-pixel convention: src = (dst + 0.5) * scale - 0.5, clamped to the
// source extent.
//
// Image-typed resizers quantize through 8-bit channels; heatmaps are
// resized here instead so normalization survives the upsample.
func ResizeBilinear(src *tensor.Tensor, outH, outW int) *tensor.Tensor {
	srcShape := src.Shape()
	if len(srcShape) != 2 {
		panic(fmt.Sprintf("resize: expected 2D map, got %dD", len(srcShape)))
	}
	h, w := srcShape[0], srcShape[1]
	if h == outH && w == outW {
		return src.Clone()
	}

	out := tensor.New(tensor.Shape{outH, outW})
	outData := out.Data()
	srcData := src.Data()

	scaleY := float64(h) / float64(outH)
	scaleX := float64(w) / float64(outW)

	for oy := 0; oy < outH; oy++ {
		sy := (float64(oy)+0.5)*scaleY - 0.5
		if sy < 0 {
			sy = 0
		}
		y0 := int(sy)
		y1 := y0 + 1
		if y1 > h-1 {
			y1 = h - 1
		}
		fy := float32(sy - float64(y0))

		for ox := 0; ox < outW; ox++ {
			sx := (float64(ox)+0.5)*scaleX - 0.5
			if sx < 0 {
				sx = 0
			}
			x0 := int(sx)
			x1 := x0 + 1
			if x1 > w-1 {
				x1 = w - 1
			}
			fx := float32(sx - float64(x0))

			top := srcData[y0*w+x0]*(1-fx) + srcData[y0*w+x1]*fx
			bottom := srcData[y1*w+x0]*(1-fx) + srcData[y1*w+x1]*fx
			outData[oy*outW+ox] = top*(1-fy) + bottom*fy
		}
	}

	return out
}
