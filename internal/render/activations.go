package render

import (
	"fmt"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// Metadata describes a rendered activation so clients can label it
// without re-deriving anything from the image.
type Metadata struct {
	Type        string  `json:"type"`
	NumChannels int     `json:"num_channels,omitempty"`
	SpatialSize int     `json:"spatial_size,omitempty"`
	Shape       []int   `json:"shape"`
	ShownMaps   int     `json:"shown_maps,omitempty"`
	NumNeurons  int     `json:"num_neurons,omitempty"`
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// LayerVisual is one stage's rendered activation: a base64 PNG plus its
// metadata.
type LayerVisual struct {
	Image    string   `json:"image"`
	Metadata Metadata `json:"metadata"`
}

// RenderActivation turns one captured stage output into its visual
// form. Feature activations become a tiled feature-map grid; classifier
// activations become a neuron-value chart.
func RenderActivation(name string, act alexnet.Activation) (LayerVisual, error) {
	switch act.Kind {
	case alexnet.FeatureActivation:
		return renderFeature(act.Data)
	case alexnet.ClassifierActivation:
		return renderClassifier(name, act.Data)
	default:
		return LayerVisual{}, fmt.Errorf("render %s: unknown activation kind %d", name, act.Kind)
	}
}

// RenderAllActivations renders every captured stage, keyed by stage
// name. Stages that fail to render abort the whole map; a snapshot is
// either fully rendered or not at all.
func RenderAllActivations(snap alexnet.Snapshot) (map[string]LayerVisual, error) {
	out := make(map[string]LayerVisual, len(snap))
	for _, name := range alexnet.AllLayerNames() {
		act, ok := snap[name]
		if !ok {
			continue
		}
		visual, err := RenderActivation(name, act)
		if err != nil {
			return nil, err
		}
		out[name] = visual
	}
	return out, nil
}

// IndividualFeatureMaps renders the first maxMaps channels of a feature
// activation as separate Viridis-colorized base64 PNGs. Classifier
// activations have no spatial maps and yield nil.
func IndividualFeatureMaps(act alexnet.Activation, maxMaps int) ([]string, error) {
	if act.Kind != alexnet.FeatureActivation {
		return nil, nil
	}
	if maxMaps <= 0 {
		maxMaps = DefaultMaxMaps
	}
	shape := act.Data.Shape()
	channels, h, w := shape[0], shape[1], shape[2]
	shown := channels
	if shown > maxMaps {
		shown = maxMaps
	}

	plane := h * w
	data := act.Data.Data()
	maps := make([]string, 0, shown)
	for ch := 0; ch < shown; ch++ {
		tile, err := tensor.FromSlice(data[ch*plane:(ch+1)*plane], tensor.Shape{h, w})
		if err != nil {
			return nil, err
		}
		encoded, err := EncodePNGBase64(Viridis.Apply(NormalizeToGray(tile)))
		if err != nil {
			return nil, err
		}
		maps = append(maps, encoded)
	}
	return maps, nil
}

func renderFeature(t *tensor.Tensor) (LayerVisual, error) {
	shape := t.Shape()
	shown := shape[0]
	if shown > DefaultMaxMaps {
		shown = DefaultMaxMaps
	}

	encoded, err := EncodePNGBase64(FeatureGrid(t, DefaultMaxMaps))
	if err != nil {
		return LayerVisual{}, err
	}

	stats := VectorStats(t)
	return LayerVisual{
		Image: encoded,
		Metadata: Metadata{
			Type:        "feature",
			NumChannels: shape[0],
			SpatialSize: shape[1],
			Shape:       shape,
			ShownMaps:   shown,
			Mean:        stats.Mean,
			Std:         stats.Std,
			Min:         stats.Min,
			Max:         stats.Max,
		},
	}, nil
}

func renderClassifier(name string, t *tensor.Tensor) (LayerVisual, error) {
	encoded, err := ActivationChart(t, name, DefaultMaxNeurons)
	if err != nil {
		return LayerVisual{}, err
	}

	stats := VectorStats(t)
	return LayerVisual{
		Image: encoded,
		Metadata: Metadata{
			Type:       "classifier",
			Shape:      t.Shape(),
			NumNeurons: t.NumElements(),
			Mean:       stats.Mean,
			Std:        stats.Std,
			Min:        stats.Min,
			Max:        stats.Max,
		},
	}, nil
}
