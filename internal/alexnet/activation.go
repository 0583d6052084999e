package alexnet

import (
	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// ActivationKind distinguishes the two observable stage behaviours:
// feature stages produce multi-channel 2D maps, classifier stages
// produce flat vectors. The kind is fixed when the snapshot is captured
// so renderers never re-infer it from shape.
type ActivationKind int

const (
	// FeatureActivation is a [channels, height, width] map.
	FeatureActivation ActivationKind = iota
	// ClassifierActivation is a flat [neurons] vector.
	ClassifierActivation
)

// Activation is one captured stage output.
type Activation struct {
	Kind ActivationKind
	Data *tensor.Tensor
}

// Snapshot maps stage names to the outputs captured during one forward
// evaluation. A fresh snapshot is created per call; snapshots are never
// shared between evaluations.
type Snapshot map[string]Activation

func (s Snapshot) feature(name string, t *tensor.Tensor) {
	s[name] = Activation{Kind: FeatureActivation, Data: t}
}

func (s Snapshot) classifier(name string, t *tensor.Tensor) {
	s[name] = Activation{Kind: ClassifierActivation, Data: t}
}
