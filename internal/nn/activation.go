package nn

import (
	"fmt"
	"math"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// ReLU applies f(x) = max(0, x) element-wise, returning a new tensor.
func ReLU(input *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(input.Shape())
	outData := out.Data()
	for i, v := range input.Data() {
		if v > 0 {
			outData[i] = v
		}
	}
	return out
}

// ReLUBackward masks a gradient with the activation pattern of a forward
// ReLU: positions where the pre-activation was not positive pass zero
// gradient. preAct is the tensor the ReLU was applied to.
func ReLUBackward(preAct, grad *tensor.Tensor) *tensor.Tensor {
	if preAct.NumElements() != grad.NumElements() {
		panic(fmt.Sprintf("relu backward: size mismatch %d vs %d",
			preAct.NumElements(), grad.NumElements()))
	}
	out := tensor.New(grad.Shape())
	outData := out.Data()
	gData := grad.Data()
	for i, v := range preAct.Data() {
		if v > 0 {
			outData[i] = gData[i]
		}
	}
	return out
}

// Softmax converts a flat logit vector into a probability distribution.
// The maximum logit is subtracted before exponentiation for numerical
// stability.
func Softmax(logits *tensor.Tensor) *tensor.Tensor {
	out := tensor.New(logits.Shape())
	outData := out.Data()
	inData := logits.Data()

	maxVal := float32(-math.MaxFloat32)
	for _, v := range inData {
		if v > maxVal {
			maxVal = v
		}
	}
	sum := float32(0)
	for i, v := range inData {
		e := float32(math.Exp(float64(v - maxVal)))
		outData[i] = e
		sum += e
	}
	for i := range outData {
		outData[i] /= sum
	}
	return out
}
