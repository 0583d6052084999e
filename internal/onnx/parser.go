package onnx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// ParseFile reads and decodes an ONNX model file.
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	d := &decoder{buf: data}
	model := &ModelProto{}
	if err := d.model(model); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if model.Graph == nil {
		return nil, errors.New("parse model: no graph")
	}
	return model, nil
}

// decoder is a minimal protobuf wire-format reader over a byte slice.
type decoder struct {
	buf []byte
	pos int
}

// Protobuf wire types.
const (
	wireVarint = 0
	wire64Bit  = 1
	wireBytes  = 2
	wire32Bit  = 5
)

func (d *decoder) model(m *ModelProto) error {
	for d.pos < len(d.buf) {
		field, wire, err := d.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1: // ir_version
			m.IRVersion, err = d.varint()
		case 2: // producer_name
			var b []byte
			if b, err = d.bytes(); err == nil {
				m.ProducerName = string(b)
			}
		case 7: // graph
			var b []byte
			if b, err = d.bytes(); err == nil {
				m.Graph = &GraphProto{}
				err = (&decoder{buf: b}).graph(m.Graph)
			}
		case 8: // opset_import
			var b []byte
			if b, err = d.bytes(); err == nil {
				err = d.opset(b, m)
			}
		default:
			err = d.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// opset extracts the default-domain opset version; other domains are
// ignored.
func (d *decoder) opset(buf []byte, m *ModelProto) error {
	sub := &decoder{buf: buf}
	domain := ""
	var version int64
	for sub.pos < len(sub.buf) {
		field, wire, err := sub.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1:
			var b []byte
			if b, err = sub.bytes(); err == nil {
				domain = string(b)
			}
		case 2:
			version, err = sub.varint()
		default:
			err = sub.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	if domain == "" || domain == "ai.onnx" {
		m.OpsetVersion = version
	}
	return nil
}

func (d *decoder) graph(g *GraphProto) error {
	for d.pos < len(d.buf) {
		field, wire, err := d.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1: // node
			var b []byte
			if b, err = d.bytes(); err == nil {
				var node NodeProto
				if err = (&decoder{buf: b}).node(&node); err == nil {
					g.Nodes = append(g.Nodes, node)
				}
			}
		case 2: // name
			var b []byte
			if b, err = d.bytes(); err == nil {
				g.Name = string(b)
			}
		case 5: // initializer
			var b []byte
			if b, err = d.bytes(); err == nil {
				var t TensorProto
				if err = (&decoder{buf: b}).tensor(&t); err == nil {
					g.Initializers = append(g.Initializers, t)
				}
			}
		default:
			err = d.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) node(n *NodeProto) error {
	for d.pos < len(d.buf) {
		field, wire, err := d.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1: // input
			var b []byte
			if b, err = d.bytes(); err == nil {
				n.Inputs = append(n.Inputs, string(b))
			}
		case 2: // output
			var b []byte
			if b, err = d.bytes(); err == nil {
				n.Outputs = append(n.Outputs, string(b))
			}
		case 3: // name
			var b []byte
			if b, err = d.bytes(); err == nil {
				n.Name = string(b)
			}
		case 4: // op_type
			var b []byte
			if b, err = d.bytes(); err == nil {
				n.OpType = string(b)
			}
		case 5: // attribute
			var b []byte
			if b, err = d.bytes(); err == nil {
				var attr AttributeProto
				if err = (&decoder{buf: b}).attribute(&attr); err == nil {
					n.Attributes = append(n.Attributes, attr)
				}
			}
		default:
			err = d.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) tensor(t *TensorProto) error {
	for d.pos < len(d.buf) {
		field, wire, err := d.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1: // dims (packed or repeated varint)
			if wire == wireBytes {
				var b []byte
				if b, err = d.bytes(); err == nil {
					err = unpackVarints(b, &t.Dims)
				}
			} else {
				var v int64
				if v, err = d.varint(); err == nil {
					t.Dims = append(t.Dims, v)
				}
			}
		case 2: // data_type
			var v int64
			if v, err = d.varint(); err == nil {
				t.DataType = int32(v)
			}
		case 4: // float_data (packed)
			var b []byte
			if b, err = d.bytes(); err == nil {
				for i := 0; i+4 <= len(b); i += 4 {
					bits := binary.LittleEndian.Uint32(b[i:])
					t.FloatData = append(t.FloatData, math.Float32frombits(bits))
				}
			}
		case 8: // name
			var b []byte
			if b, err = d.bytes(); err == nil {
				t.Name = string(b)
			}
		case 9: // raw_data
			t.RawData, err = d.bytes()
		default:
			err = d.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) attribute(a *AttributeProto) error {
	for d.pos < len(d.buf) {
		field, wire, err := d.tag()
		if err != nil {
			return err
		}
		switch field {
		case 1: // name
			var b []byte
			if b, err = d.bytes(); err == nil {
				a.Name = string(b)
			}
		case 2: // f
			a.F, err = d.float32()
		case 3: // i
			a.I, err = d.varint()
		case 6: // floats (packed)
			var b []byte
			if b, err = d.bytes(); err == nil {
				for i := 0; i+4 <= len(b); i += 4 {
					bits := binary.LittleEndian.Uint32(b[i:])
					a.Floats = append(a.Floats, math.Float32frombits(bits))
				}
			}
		case 7: // ints (packed or repeated)
			if wire == wireBytes {
				var b []byte
				if b, err = d.bytes(); err == nil {
					err = unpackVarints(b, &a.Ints)
				}
			} else {
				var v int64
				if v, err = d.varint(); err == nil {
					a.Ints = append(a.Ints, v)
				}
			}
		default:
			err = d.skip(wire)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func unpackVarints(buf []byte, dst *[]int64) error {
	sub := &decoder{buf: buf}
	for sub.pos < len(sub.buf) {
		v, err := sub.varint()
		if err != nil {
			return err
		}
		*dst = append(*dst, v)
	}
	return nil
}

func (d *decoder) tag() (field, wire int, err error) {
	v, err := d.varint()
	if err != nil {
		return 0, 0, err
	}
	return int(v >> 3), int(v & 0x7), nil
}

func (d *decoder) varint() (int64, error) {
	var result uint64
	var shift uint
	for {
		if d.pos >= len(d.buf) {
			return 0, io.ErrUnexpectedEOF
		}
		b := d.buf[d.pos]
		d.pos++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return int64(result), nil
		}
		shift += 7
		if shift >= 64 {
			return 0, errors.New("varint overflow")
		}
	}
}

func (d *decoder) bytes() ([]byte, error) {
	length, err := d.varint()
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, errors.New("negative length")
	}
	end := d.pos + int(length)
	if end > len(d.buf) {
		return nil, io.ErrUnexpectedEOF
	}
	b := d.buf[d.pos:end]
	d.pos = end
	return b, nil
}

func (d *decoder) float32() (float32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, io.ErrUnexpectedEOF
	}
	bits := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return math.Float32frombits(bits), nil
}

func (d *decoder) skip(wire int) error {
	switch wire {
	case wireVarint:
		_, err := d.varint()
		return err
	case wire64Bit:
		if d.pos+8 > len(d.buf) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 8
		return nil
	case wireBytes:
		_, err := d.bytes()
		return err
	case wire32Bit:
		if d.pos+4 > len(d.buf) {
			return io.ErrUnexpectedEOF
		}
		d.pos += 4
		return nil
	default:
		return fmt.Errorf("unknown wire type %d", wire)
	}
}
