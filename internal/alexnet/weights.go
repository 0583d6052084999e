package alexnet

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/onnx"
	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// Load builds a network from an exported AlexNet ONNX file. The graph's
// Conv and Gemm nodes are matched to the fixed architecture in stored
// order; initializer names do not matter, so any exporter's naming
// scheme works.
func Load(path string, labels []string) (*Network, error) {
	model, err := onnx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	w, err := weightsFromGraph(model.Graph)
	if err != nil {
		return nil, fmt.Errorf("load weights: %w", err)
	}
	return New(w, labels)
}

func weightsFromGraph(g *onnx.GraphProto) (*Weights, error) {
	inits := make(map[string]*onnx.TensorProto, len(g.Initializers))
	for i := range g.Initializers {
		inits[g.Initializers[i].Name] = &g.Initializers[i]
	}

	var w Weights
	convIdx, fcIdx := 0, 0
	for i := range g.Nodes {
		node := &g.Nodes[i]
		switch node.OpType {
		case "Conv":
			if convIdx >= len(w.Conv) {
				return nil, fmt.Errorf("graph has more than %d Conv nodes", len(w.Conv))
			}
			lw, err := nodeWeights(node, inits)
			if err != nil {
				return nil, err
			}
			if err := checkConvAttrs(node, convSpecs[convIdx]); err != nil {
				return nil, err
			}
			w.Conv[convIdx] = lw
			convIdx++
		case "Gemm":
			if fcIdx >= len(w.FC) {
				return nil, fmt.Errorf("graph has more than %d Gemm nodes", len(w.FC))
			}
			lw, err := nodeWeights(node, inits)
			if err != nil {
				return nil, err
			}
			// PyTorch exports Gemm with transB=1 and weight stored
			// [out,in]; a non-transposed export needs flipping.
			if attr := node.Attr("transB"); attr == nil || attr.I == 0 {
				lw.Weight = transpose2D(lw.Weight)
			}
			w.FC[fcIdx] = lw
			fcIdx++
		}
	}
	if convIdx != len(w.Conv) || fcIdx != len(w.FC) {
		return nil, fmt.Errorf("graph has %d Conv and %d Gemm nodes, want %d and %d",
			convIdx, fcIdx, len(w.Conv), len(w.FC))
	}
	return &w, nil
}

// nodeWeights resolves a node's weight (input 1) and optional bias
// (input 2) initializers into tensors.
func nodeWeights(node *onnx.NodeProto, inits map[string]*onnx.TensorProto) (LayerWeights, error) {
	if len(node.Inputs) < 2 {
		return LayerWeights{}, fmt.Errorf("%s node %q has no weight input", node.OpType, node.Name)
	}
	weight, err := initializerTensor(node.Inputs[1], inits)
	if err != nil {
		return LayerWeights{}, err
	}
	lw := LayerWeights{Weight: weight}
	if len(node.Inputs) >= 3 && node.Inputs[2] != "" {
		bias, err := initializerTensor(node.Inputs[2], inits)
		if err != nil {
			return LayerWeights{}, err
		}
		lw.Bias = bias
	}
	return lw, nil
}

func initializerTensor(name string, inits map[string]*onnx.TensorProto) (*tensor.Tensor, error) {
	proto, ok := inits[name]
	if !ok {
		return nil, fmt.Errorf("initializer %q not found", name)
	}
	data, err := proto.Float32Data()
	if err != nil {
		return nil, err
	}
	return tensor.FromSlice(data, proto.IntShape())
}

// checkConvAttrs verifies the exported stride and padding against the
// fixed architecture, so a wrong model file fails at load instead of
// producing silently wrong activations.
func checkConvAttrs(node *onnx.NodeProto, spec convSpec) error {
	if attr := node.Attr("strides"); attr != nil && len(attr.Ints) > 0 && int(attr.Ints[0]) != spec.stride {
		return fmt.Errorf("%s: exported stride %d, architecture expects %d", spec.name, attr.Ints[0], spec.stride)
	}
	if attr := node.Attr("pads"); attr != nil && len(attr.Ints) > 0 && int(attr.Ints[0]) != spec.padding {
		return fmt.Errorf("%s: exported padding %d, architecture expects %d", spec.name, attr.Ints[0], spec.padding)
	}
	return nil
}

func transpose2D(t *tensor.Tensor) *tensor.Tensor {
	shape := t.Shape()
	rows, cols := shape[0], shape[1]
	out := tensor.New(tensor.Shape{cols, rows})
	outData := out.Data()
	inData := t.Data()
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			outData[c*rows+r] = inData[r*cols+c]
		}
	}
	return out
}
