// Package nn implements the numeric kernels the network evaluation is
// built from: convolution, pooling, fully connected layers, activations
// and the targeted backward passes Grad-CAM needs. All functions are
// pure and operate on single-image tensors (no batch dimension).
package nn

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// Conv2D performs a 2D convolution using the im2col algorithm.
//
// Input shape:  [in_channels, height, width]
// Weight shape: [out_channels, in_channels, kernel_h, kernel_w]
// Bias shape:   [out_channels] (nil for no bias)
// Output shape: [out_channels, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - kernel_h) / stride + 1
//	out_w = (width + 2*padding - kernel_w) / stride + 1
//
// The input patches are unrolled into a column matrix so the convolution
// reduces to a matrix multiply against the flattened kernels.
func Conv2D(input, weight, bias *tensor.Tensor, stride, padding int) *tensor.Tensor {
	inShape := input.Shape()
	wShape := weight.Shape()
	if len(inShape) != 3 {
		panic(fmt.Sprintf("conv2d: input must be 3D [C,H,W], got %dD", len(inShape)))
	}
	if len(wShape) != 4 {
		panic(fmt.Sprintf("conv2d: weight must be 4D [OC,IC,KH,KW], got %dD", len(wShape)))
	}

	cIn, h, w := inShape[0], inShape[1], inShape[2]
	cOut, cInK, kh, kw := wShape[0], wShape[1], wShape[2], wShape[3]
	if cIn != cInK {
		panic(fmt.Sprintf("conv2d: input channels %d != weight channels %d", cIn, cInK))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d", stride))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions %dx%d (check stride/padding)", hOut, wOut))
	}

	colWidth := cIn * kh * kw
	colHeight := hOut * wOut
	colBuf := make([]float32, colHeight*colWidth)
	im2col(colBuf, input.Data(), cIn, h, w, kh, kw, hOut, wOut, stride, padding)

	output := tensor.New(tensor.Shape{cOut, hOut, wOut})
	outData := output.Data()
	wData := weight.Data()

	var biasData []float32
	if bias != nil {
		biasData = bias.Data()
	}

	// weight is already [OC, IC*KH*KW] in row-major layout; each output
	// plane is one row of the kernel matrix times the column matrix.
	for oc := 0; oc < cOut; oc++ {
		kernelRow := wData[oc*colWidth : (oc+1)*colWidth]
		b := float32(0)
		if biasData != nil {
			b = biasData[oc]
		}
		for p := 0; p < colHeight; p++ {
			col := colBuf[p*colWidth : (p+1)*colWidth]
			sum := b
			for k, kv := range kernelRow {
				sum += kv * col[k]
			}
			outData[oc*colHeight+p] = sum
		}
	}

	return output
}

// im2col unrolls input patches into rows of colBuf, one row per output
// position, zero-filling positions that fall into the padding border.
func im2col(colBuf, inData []float32, c, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colWidth := c * kh * kw
	colIdx := 0
	for outH := 0; outH < hOut; outH++ {
		for outW := 0; outW < wOut; outW++ {
			hStart := outH*stride - padding
			wStart := outW*stride - padding
			bufIdx := colIdx * colWidth
			for ch := 0; ch < c; ch++ {
				plane := inData[ch*h*w : (ch+1)*h*w]
				for y := 0; y < kh; y++ {
					inY := hStart + y
					for x := 0; x < kw; x++ {
						inX := wStart + x
						if inY >= 0 && inY < h && inX >= 0 && inX < w {
							colBuf[bufIdx] = plane[inY*w+inX]
						} else {
							colBuf[bufIdx] = 0
						}
						bufIdx++
					}
				}
			}
			colIdx++
		}
	}
}

// ConvOutputSize computes the spatial output size of a convolution.
func ConvOutputSize(inSize, kernel, stride, padding int) int {
	return (inSize+2*padding-kernel)/stride + 1
}
