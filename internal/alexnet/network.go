// Package alexnet wraps a pretrained AlexNet with intermediate stage
// capture. One Network is loaded at process start and shared; weights
// are immutable after load and every evaluation returns its own
// snapshot, so a single instance is safe for concurrent use.
package alexnet

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/theprincepratap/AlexNet-Visualization/internal/nn"
	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

const (
	// InputSize is the fixed square input resolution after preprocessing.
	InputSize = 224
	// NumClasses is the size of the ImageNet class set.
	NumClasses = 1000

	poolKernel  = 3
	poolStride  = 2
	avgPoolSize = 6
)

// ErrInvalidTargetClass reports a Grad-CAM target class outside the
// class-label range.
var ErrInvalidTargetClass = errors.New("target class out of range")

// convSpec fixes the geometry of one convolutional stage. poolName is
// non-empty when a 3x3/2 max pool follows the stage's ReLU.
type convSpec struct {
	name     string
	inC      int
	outC     int
	kernel   int
	stride   int
	padding  int
	poolName string
}

type fcSpec struct {
	name string
	inF  int
	outF int
}

var convSpecs = [5]convSpec{
	{"conv1", 3, 64, 11, 4, 2, "pool1"},
	{"conv2", 64, 192, 5, 1, 2, "pool2"},
	{"conv3", 192, 384, 3, 1, 1, ""},
	{"conv4", 384, 256, 3, 1, 1, ""},
	{"conv5", 256, 256, 3, 1, 1, "pool5"},
}

var fcSpecs = [3]fcSpec{
	{"fc6", 256 * avgPoolSize * avgPoolSize, 4096},
	{"fc7", 4096, 4096},
	{"fc8", 4096, NumClasses},
}

// LayerWeights holds one layer's trained parameters.
type LayerWeights struct {
	Weight *tensor.Tensor
	Bias   *tensor.Tensor
}

// Weights holds every trained parameter of the network in stage order.
type Weights struct {
	Conv [5]LayerWeights
	FC   [3]LayerWeights
}

type convLayer struct {
	spec convSpec
	LayerWeights
}

type fcLayer struct {
	spec fcSpec
	LayerWeights
}

// Network is the inference wrapper. Construct it once with Load or New
// and pass the handle to whatever needs it.
type Network struct {
	convs  [5]convLayer
	fcs    [3]fcLayer
	labels []string
}

// New builds a network from explicit weights, validating every shape
// against the fixed AlexNet architecture. labels may be shorter than
// NumClasses; missing entries fall back to numbered placeholders.
func New(w *Weights, labels []string) (*Network, error) {
	n := &Network{labels: labels}
	for i, spec := range convSpecs {
		lw := w.Conv[i]
		want := tensor.Shape{spec.outC, spec.inC, spec.kernel, spec.kernel}
		if lw.Weight == nil || !lw.Weight.Shape().Equal(want) {
			return nil, fmt.Errorf("%s: weight shape mismatch, want %v", spec.name, want)
		}
		if lw.Bias != nil && lw.Bias.NumElements() != spec.outC {
			return nil, fmt.Errorf("%s: bias has %d elements, want %d", spec.name, lw.Bias.NumElements(), spec.outC)
		}
		n.convs[i] = convLayer{spec: spec, LayerWeights: lw}
	}
	for i, spec := range fcSpecs {
		lw := w.FC[i]
		want := tensor.Shape{spec.outF, spec.inF}
		if lw.Weight == nil || !lw.Weight.Shape().Equal(want) {
			return nil, fmt.Errorf("%s: weight shape mismatch, want %v", spec.name, want)
		}
		if lw.Bias != nil && lw.Bias.NumElements() != spec.outF {
			return nil, fmt.Errorf("%s: bias has %d elements, want %d", spec.name, lw.Bias.NumElements(), spec.outF)
		}
		n.fcs[i] = fcLayer{spec: spec, LayerWeights: lw}
	}
	return n, nil
}

// Label returns the class label for an index, falling back to a
// numbered placeholder.
func (n *Network) Label(i int) string {
	if i >= 0 && i < len(n.labels) {
		return n.labels[i]
	}
	return fmt.Sprintf("class_%d", i)
}

// FilterWeights returns the raw [out_channels, in_channels, kh, kw]
// weight tensor for a convolutional stage name, or nil for any other
// name. A nil result is a lookup miss, not an error.
func (n *Network) FilterWeights(name string) *tensor.Tensor {
	for i := range n.convs {
		if n.convs[i].spec.name == name {
			return n.convs[i].Weight
		}
	}
	return nil
}

// forwardResult carries everything one forward evaluation produced: the
// captured snapshot, the class scores, and the intermediates the
// Grad-CAM backward pass routes gradients through.
type forwardResult struct {
	snapshot Snapshot
	logits   *tensor.Tensor
	probs    *tensor.Tensor

	pool5Idx []int
	avgOut   *tensor.Tensor
}

// forward runs the full pipeline on a preprocessed [3,224,224] tensor,
// capturing every named stage output into a fresh snapshot.
func (n *Network) forward(x *tensor.Tensor) *forwardResult {
	res := &forwardResult{snapshot: make(Snapshot, len(stageNames))}

	cur := x
	for i := range n.convs {
		layer := &n.convs[i]
		cur = nn.Conv2D(cur, layer.Weight, layer.Bias, layer.spec.stride, layer.spec.padding)
		res.snapshot.feature(layer.spec.name, cur)

		cur = nn.ReLU(cur)
		res.snapshot.feature(fmt.Sprintf("relu%d", i+1), cur)

		if layer.spec.poolName != "" {
			pooled, idx := nn.MaxPool2D(cur, poolKernel, poolStride)
			res.snapshot.feature(layer.spec.poolName, pooled)
			if layer.spec.poolName == "pool5" {
				res.pool5Idx = idx
			}
			cur = pooled
		}
	}

	// Adaptive average pool and flatten sit between the feature and
	// classifier stages; neither is an externally named stage.
	res.avgOut = nn.AdaptiveAvgPool2D(cur, avgPoolSize, avgPoolSize)
	flat, err := res.avgOut.Reshape(tensor.Shape{res.avgOut.NumElements()})
	if err != nil {
		panic(err) // unreachable: flatten never changes the element count
	}
	cur = flat

	// Dropout is identity at evaluation time and is skipped entirely.
	for i := range n.fcs {
		layer := &n.fcs[i]
		cur = nn.Linear(cur, layer.Weight, layer.Bias)
		res.snapshot.classifier(layer.spec.name, cur)
		if i < 2 {
			cur = nn.ReLU(cur)
			res.snapshot.classifier(fmt.Sprintf("relu%d", i+6), cur)
		}
	}
	res.logits = cur

	res.probs = nn.Softmax(res.logits)
	res.snapshot.classifier("softmax", res.probs)
	return res
}

// ClassProb is one (label, probability) pair.
type ClassProb struct {
	Label       string  `json:"class"`
	Probability float64 `json:"probability"`
}

// Prediction is the result of one classification.
type Prediction struct {
	Top1      string
	Top1Index int
	Top5      []ClassProb
	// Probabilities is the full softmax distribution over all classes.
	Probabilities []float32
}

// Predict classifies an image and returns the top-1 label, the ordered
// top-5 predictions and the per-stage activation snapshot of this
// evaluation. Ties in probability keep the network's native class
// ordering.
func (n *Network) Predict(img image.Image) (*Prediction, Snapshot, error) {
	x := Preprocess(img)
	res := n.forward(x)

	probs := res.probs.Data()
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return probs[order[a]] > probs[order[b]]
	})

	top5 := make([]ClassProb, 0, 5)
	for _, idx := range order[:5] {
		top5 = append(top5, ClassProb{Label: n.Label(idx), Probability: float64(probs[idx])})
	}

	pred := &Prediction{
		Top1:          top5[0].Label,
		Top1Index:     order[0],
		Top5:          top5,
		Probabilities: probs,
	}
	return pred, res.snapshot, nil
}

// SaliencyResult is a Grad-CAM heatmap together with the class that was
// explained.
type SaliencyResult struct {
	// Heatmap is a [InputSize, InputSize] map with values in [0,1].
	Heatmap *tensor.Tensor
	Class   int
	Label   string
}

// GradCAM computes a class-activation heatmap for an image. When
// targetClass is nil the predicted top-1 class is explained. An
// out-of-range class is rejected with ErrInvalidTargetClass before any
// evaluation runs.
func (n *Network) GradCAM(img image.Image, targetClass *int) (*SaliencyResult, error) {
	if targetClass != nil && (*targetClass < 0 || *targetClass >= NumClasses) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTargetClass, *targetClass)
	}

	x := Preprocess(img)
	res := n.forward(x)

	class := res.argmax()
	if targetClass != nil {
		class = *targetClass
	}

	// The tap captures the gradient at conv5's output for exactly this
	// evaluation and is released on every exit path.
	tap := &gradTap{}
	defer tap.release()
	n.backwardToConv5(res, class, tap)

	grad := tap.gradient()
	act := res.snapshot["conv5"].Data

	cam := channelWeightedSum(act, grad)
	reluInPlace(cam)
	normalizeInPlace(cam)
	cam = nn.ResizeBilinear(cam, InputSize, InputSize)
	// Interpolation pulls the peak slightly below 1; renormalize so the
	// strongest location is exactly 1 again.
	normalizeInPlace(cam)

	return &SaliencyResult{Heatmap: cam, Class: class, Label: n.Label(class)}, nil
}

func (r *forwardResult) argmax() int {
	data := r.logits.Data()
	best := 0
	for i, v := range data {
		if v > data[best] {
			best = i
		}
	}
	return best
}

// backwardToConv5 propagates the gradient of one class score back
// through the classifier stages, the final pools and relu5, delivering
// the gradient at conv5's output into the tap. Convolution layers are
// never differentiated; Grad-CAM needs nothing below conv5.
func (n *Network) backwardToConv5(res *forwardResult, class int, tap *gradTap) {
	seed := tensor.New(tensor.Shape{NumClasses})
	seed.Data()[class] = 1

	g := nn.LinearBackward(n.fcs[2].Weight, seed)
	g = nn.ReLUBackward(res.snapshot["fc7"].Data, g)
	g = nn.LinearBackward(n.fcs[1].Weight, g)
	g = nn.ReLUBackward(res.snapshot["fc6"].Data, g)
	g = nn.LinearBackward(n.fcs[0].Weight, g)

	g3, err := g.Reshape(res.avgOut.Shape())
	if err != nil {
		panic(err) // unreachable: fc6 input size equals the avgpool output size
	}
	g3 = nn.AdaptiveAvgPool2DBackward(g3, res.snapshot["pool5"].Data.Shape())
	g3 = nn.MaxPool2DBackward(g3, res.pool5Idx, res.snapshot["relu5"].Data.Shape())
	g3 = nn.ReLUBackward(res.snapshot["conv5"].Data, g3)

	tap.capture(g3)
}

// gradTap is a one-shot capture point for the gradient flowing through
// a single stage. Its lifetime is exactly one Grad-CAM evaluation.
type gradTap struct {
	grad *tensor.Tensor
}

func (t *gradTap) capture(g *tensor.Tensor) {
	if t.grad == nil {
		t.grad = g
	}
}

func (t *gradTap) gradient() *tensor.Tensor { return t.grad }

func (t *gradTap) release() { t.grad = nil }

// channelWeightedSum collapses a [C,H,W] activation into one [H,W] map
// using the spatial mean of each channel's gradient as its weight.
func channelWeightedSum(act, grad *tensor.Tensor) *tensor.Tensor {
	shape := act.Shape()
	c, h, w := shape[0], shape[1], shape[2]
	plane := h * w

	cam := tensor.New(tensor.Shape{h, w})
	camData := cam.Data()
	actData := act.Data()
	gradData := grad.Data()

	for ch := 0; ch < c; ch++ {
		sum := float32(0)
		for _, v := range gradData[ch*plane : (ch+1)*plane] {
			sum += v
		}
		weight := sum / float32(plane)
		if weight == 0 {
			continue
		}
		actPlane := actData[ch*plane : (ch+1)*plane]
		for i, v := range actPlane {
			camData[i] += weight * v
		}
	}
	return cam
}

func reluInPlace(t *tensor.Tensor) {
	data := t.Data()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
}

// normalizeInPlace shifts and scales to [0,1]. A constant map collapses
// to all zeros rather than dividing by zero.
func normalizeInPlace(t *tensor.Tensor) {
	minVal, maxVal := t.MinMax()
	data := t.Data()
	span := maxVal - minVal
	if span <= 0 {
		for i := range data {
			data[i] = 0
		}
		return
	}
	for i := range data {
		data[i] = (data[i] - minVal) / span
	}
}
