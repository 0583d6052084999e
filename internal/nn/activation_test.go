package nn

import (
	"math"
	"testing"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

func TestReLU(t *testing.T) {
	input, _ := tensor.FromSlice([]float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5})
	out := ReLU(input)

	expected := []float32{0, 0, 0, 0.5, 2}
	for i, exp := range expected {
		if got := out.Data()[i]; got != exp {
			t.Errorf("output[%d]: expected %v, got %v", i, exp, got)
		}
	}
	if input.Data()[0] != -2 {
		t.Error("ReLU mutated its input")
	}
}

func TestReLUBackward_MasksGradient(t *testing.T) {
	preAct, _ := tensor.FromSlice([]float32{-1, 0, 1, 2}, tensor.Shape{4})
	grad, _ := tensor.FromSlice([]float32{10, 10, 10, 10}, tensor.Shape{4})

	out := ReLUBackward(preAct, grad)

	expected := []float32{0, 0, 10, 10}
	for i, exp := range expected {
		if got := out.Data()[i]; got != exp {
			t.Errorf("grad[%d]: expected %v, got %v", i, exp, got)
		}
	}
}

func TestSoftmax_SumsToOne(t *testing.T) {
	logits, _ := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{4})
	probs := Softmax(logits)

	sum := float32(0)
	for i, p := range probs.Data() {
		if p <= 0 || p >= 1 {
			t.Errorf("prob[%d] = %v outside (0,1)", i, p)
		}
		sum += p
	}
	if math.Abs(float64(sum)-1) > 1e-5 {
		t.Errorf("probabilities sum to %v, expected 1", sum)
	}

	// Ordering must follow the logits.
	data := probs.Data()
	for i := 1; i < len(data); i++ {
		if data[i] <= data[i-1] {
			t.Errorf("softmax not monotone over increasing logits at %d", i)
		}
	}
}

func TestSoftmax_UniformLogits(t *testing.T) {
	logits, _ := tensor.FromSlice([]float32{5, 5}, tensor.Shape{2})
	probs := Softmax(logits)
	if probs.Data()[0] != 0.5 || probs.Data()[1] != 0.5 {
		t.Errorf("expected [0.5 0.5], got %v", probs.Data())
	}
}

// TestSoftmax_LargeLogits: the max-subtraction must keep huge logits
// from overflowing to Inf/NaN.
func TestSoftmax_LargeLogits(t *testing.T) {
	logits, _ := tensor.FromSlice([]float32{1000, 1001}, tensor.Shape{2})
	probs := Softmax(logits)
	for i, p := range probs.Data() {
		if math.IsNaN(float64(p)) || math.IsInf(float64(p), 0) {
			t.Fatalf("prob[%d] is not finite: %v", i, p)
		}
	}
	if probs.Data()[1] <= probs.Data()[0] {
		t.Error("larger logit did not get larger probability")
	}
}
