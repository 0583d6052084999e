package nn

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// Linear computes y = Wx + b for a flat input vector.
//
// Input shape:  [in_features]
// Weight shape: [out_features, in_features]
// Bias shape:   [out_features] (nil for no bias)
// Output shape: [out_features]
func Linear(input, weight, bias *tensor.Tensor) *tensor.Tensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("linear: weight must be 2D [out,in], got %dD", len(wShape)))
	}
	outF, inF := wShape[0], wShape[1]
	if input.NumElements() != inF {
		panic(fmt.Sprintf("linear: input has %d features, weight expects %d", input.NumElements(), inF))
	}

	output := tensor.New(tensor.Shape{outF})
	outData := output.Data()
	inData := input.Data()
	wData := weight.Data()

	for o := 0; o < outF; o++ {
		row := wData[o*inF : (o+1)*inF]
		sum := float32(0)
		for i, v := range inData {
			sum += row[i] * v
		}
		outData[o] = sum
	}

	if bias != nil {
		for o, b := range bias.Data() {
			outData[o] += b
		}
	}

	return output
}

// LinearBackward propagates a gradient through a linear layer back to
// its input: grad_in = Wᵀ · grad_out. The bias does not affect the
// input gradient.
func LinearBackward(weight, gradOut *tensor.Tensor) *tensor.Tensor {
	wShape := weight.Shape()
	outF, inF := wShape[0], wShape[1]
	if gradOut.NumElements() != outF {
		panic(fmt.Sprintf("linear backward: gradient has %d elements, weight expects %d",
			gradOut.NumElements(), outF))
	}

	gradIn := tensor.New(tensor.Shape{inF})
	giData := gradIn.Data()
	goData := gradOut.Data()
	wData := weight.Data()

	for o := 0; o < outF; o++ {
		g := goData[o]
		if g == 0 {
			continue
		}
		row := wData[o*inF : (o+1)*inF]
		for i, wv := range row {
			giData[i] += wv * g
		}
	}

	return gradIn
}
