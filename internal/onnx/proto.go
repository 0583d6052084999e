// Package onnx decodes the subset of the ONNX protobuf format needed to
// pull trained weights out of an exported model file: the graph's node
// list (for operator order and attributes) and its initializer tensors.
// Everything else in the container is skipped field-by-field.
package onnx

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ModelProto is the top-level ONNX container.
type ModelProto struct {
	IRVersion    int64
	ProducerName string
	OpsetVersion int64
	Graph        *GraphProto
}

// GraphProto holds the computation graph: operator nodes in topological
// order plus the weight tensors (initializers) they reference.
type GraphProto struct {
	Name         string
	Nodes        []NodeProto
	Initializers []TensorProto
}

// NodeProto is a single operator application.
type NodeProto struct {
	Name       string
	OpType     string
	Inputs     []string
	Outputs    []string
	Attributes []AttributeProto
}

// TensorProto carries one weight tensor.
type TensorProto struct {
	Name      string
	DataType  int32
	Dims      []int64
	RawData   []byte
	FloatData []float32
}

// AttributeProto carries one node attribute (stride, pads, ...).
type AttributeProto struct {
	Name   string
	I      int64
	F      float32
	Ints   []int64
	Floats []float32
}

// ONNX element types (TensorProto.DataType). Only float32 weights are
// consumed here.
const (
	TensorProtoFloat = 1
)

// Float32Data decodes the tensor's payload as float32 values, handling
// both the raw little-endian byte form and the legacy float_data form.
func (t *TensorProto) Float32Data() ([]float32, error) {
	if t.DataType != TensorProtoFloat {
		return nil, fmt.Errorf("tensor %q: unsupported data type %d (want float32)", t.Name, t.DataType)
	}
	if len(t.FloatData) > 0 {
		return t.FloatData, nil
	}
	if len(t.RawData)%4 != 0 {
		return nil, fmt.Errorf("tensor %q: raw data length %d not a multiple of 4", t.Name, len(t.RawData))
	}
	out := make([]float32, len(t.RawData)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(t.RawData[i*4:])
		out[i] = math.Float32frombits(bits)
	}
	return out, nil
}

// IntShape converts the int64 dims to an int slice.
func (t *TensorProto) IntShape() []int {
	shape := make([]int, len(t.Dims))
	for i, d := range t.Dims {
		shape[i] = int(d)
	}
	return shape
}

// Attr returns the named attribute, or nil if the node does not carry it.
func (n *NodeProto) Attr(name string) *AttributeProto {
	for i := range n.Attributes {
		if n.Attributes[i].Name == name {
			return &n.Attributes[i]
		}
	}
	return nil
}
