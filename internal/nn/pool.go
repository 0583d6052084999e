package nn

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// MaxPool2D performs 2D max pooling over a [C,H,W] tensor.
//
// Output shape: [C, (H-kernel)/stride+1, (W-kernel)/stride+1].
//
// Alongside the pooled tensor it returns, per output element, the flat
// index of the winning input element. The index slice is what routes
// gradients back through the pool during the Grad-CAM backward pass.
func MaxPool2D(input *tensor.Tensor, kernel, stride int) (*tensor.Tensor, []int) {
	inShape := input.Shape()
	if len(inShape) != 3 {
		panic(fmt.Sprintf("maxpool2d: expected 3D input [C,H,W], got %dD", len(inShape)))
	}
	c, h, w := inShape[0], inShape[1], inShape[2]
	if kernel <= 0 || stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel %d / stride %d", kernel, stride))
	}
	if kernel > h || kernel > w {
		panic(fmt.Sprintf("maxpool2d: kernel %d too large for input %dx%d", kernel, h, w))
	}

	hOut := (h-kernel)/stride + 1
	wOut := (w-kernel)/stride + 1

	output := tensor.New(tensor.Shape{c, hOut, wOut})
	outData := output.Data()
	inData := input.Data()
	argmax := make([]int, len(outData))

	for ch := 0; ch < c; ch++ {
		planeOff := ch * h * w
		plane := inData[planeOff : planeOff+h*w]
		for outH := 0; outH < hOut; outH++ {
			hStart := outH * stride
			for outW := 0; outW < wOut; outW++ {
				wStart := outW * stride
				maxIdx := hStart*w + wStart
				maxVal := plane[maxIdx]
				for kh := 0; kh < kernel; kh++ {
					row := (hStart + kh) * w
					for kw := 0; kw < kernel; kw++ {
						idx := row + wStart + kw
						if plane[idx] > maxVal {
							maxVal = plane[idx]
							maxIdx = idx
						}
					}
				}
				outIdx := (ch*hOut+outH)*wOut + outW
				outData[outIdx] = maxVal
				argmax[outIdx] = planeOff + maxIdx
			}
		}
	}

	return output, argmax
}

// MaxPool2DBackward scatters the pooled gradient back to the winning
// input positions recorded by MaxPool2D. Overlapping windows accumulate.
func MaxPool2DBackward(grad *tensor.Tensor, argmax []int, inShape tensor.Shape) *tensor.Tensor {
	if grad.NumElements() != len(argmax) {
		panic(fmt.Sprintf("maxpool2d backward: gradient has %d elements, argmax has %d",
			grad.NumElements(), len(argmax)))
	}
	out := tensor.New(inShape)
	outData := out.Data()
	for i, g := range grad.Data() {
		outData[argmax[i]] += g
	}
	return out
}

// AdaptiveAvgPool2D averages each channel down to a fixed outH x outW
// grid. Window boundaries follow the floor/ceil split used by PyTorch's
// adaptive pooling, so a 6x6 input pooled to 6x6 passes through unchanged.
func AdaptiveAvgPool2D(input *tensor.Tensor, outH, outW int) *tensor.Tensor {
	inShape := input.Shape()
	if len(inShape) != 3 {
		panic(fmt.Sprintf("avgpool2d: expected 3D input [C,H,W], got %dD", len(inShape)))
	}
	c, h, w := inShape[0], inShape[1], inShape[2]

	output := tensor.New(tensor.Shape{c, outH, outW})
	outData := output.Data()
	inData := input.Data()

	for ch := 0; ch < c; ch++ {
		plane := inData[ch*h*w : (ch+1)*h*w]
		for oy := 0; oy < outH; oy++ {
			y0, y1 := oy*h/outH, ((oy+1)*h+outH-1)/outH
			for ox := 0; ox < outW; ox++ {
				x0, x1 := ox*w/outW, ((ox+1)*w+outW-1)/outW
				sum := float32(0)
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						sum += plane[y*w+x]
					}
				}
				outData[(ch*outH+oy)*outW+ox] = sum / float32((y1-y0)*(x1-x0))
			}
		}
	}

	return output
}

// AdaptiveAvgPool2DBackward distributes each output gradient uniformly
// over the input window it averaged.
func AdaptiveAvgPool2DBackward(grad *tensor.Tensor, inShape tensor.Shape) *tensor.Tensor {
	gShape := grad.Shape()
	if len(gShape) != 3 || len(inShape) != 3 {
		panic("avgpool2d backward: expected 3D gradient and input shape")
	}
	c, h, w := inShape[0], inShape[1], inShape[2]
	outH, outW := gShape[1], gShape[2]

	out := tensor.New(inShape)
	outData := out.Data()
	gData := grad.Data()

	for ch := 0; ch < c; ch++ {
		planeOff := ch * h * w
		for oy := 0; oy < outH; oy++ {
			y0, y1 := oy*h/outH, ((oy+1)*h+outH-1)/outH
			for ox := 0; ox < outW; ox++ {
				x0, x1 := ox*w/outW, ((ox+1)*w+outW-1)/outW
				share := gData[(ch*outH+oy)*outW+ox] / float32((y1-y0)*(x1-x0))
				for y := y0; y < y1; y++ {
					for x := x0; x < x1; x++ {
						outData[planeOff+y*w+x] += share
					}
				}
			}
		}
	}

	return out
}
