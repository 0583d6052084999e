package render

import (
	"bytes"
	"encoding/base64"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// DefaultMaxNeurons caps how many neuron values an activation chart
// plots.
const DefaultMaxNeurons = 100

// ProbabilityChart renders the top predictions as a base64-encoded PNG
// bar chart, one bar per class, heights in percent.
func ProbabilityChart(preds []alexnet.ClassProb) (string, error) {
	bars := make([]chart.Value, 0, len(preds))
	for _, p := range preds {
		bars = append(bars, chart.Value{
			Label: p.Label,
			Value: p.Probability * 100,
		})
	}

	graph := chart.BarChart{
		Title:    "Top Predictions",
		Height:   400,
		Width:    640,
		BarWidth: 80,
		Bars:     bars,
		YAxis: chart.YAxis{
			Name: "Probability (%)",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: 100,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render probability chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Stats summarizes a classifier activation vector.
type Stats struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// VectorStats computes summary statistics over a full activation
// vector, not just the plotted prefix.
func VectorStats(vec *tensor.Tensor) Stats {
	minVal, maxVal := vec.MinMax()
	return Stats{
		Mean:  float64(vec.Mean()),
		Std:   float64(vec.Std()),
		Min:   float64(minVal),
		Max:   float64(maxVal),
		Count: vec.NumElements(),
	}
}

// ActivationChart plots the first maxNeurons values of a classifier
// activation vector as a base64-encoded PNG line chart.
func ActivationChart(vec *tensor.Tensor, layerName string, maxNeurons int) (string, error) {
	if maxNeurons <= 0 {
		maxNeurons = DefaultMaxNeurons
	}
	data := vec.Data()
	n := len(data)
	if n > maxNeurons {
		n = maxNeurons
	}

	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = float64(data[i])
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s activations (first %d neurons)", layerName, n),
		Height: 400,
		Width:  640,
		XAxis: chart.XAxis{
			Name: "Neuron",
		},
		YAxis: chart.YAxis{
			Name: "Activation",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return "", fmt.Errorf("render activation chart: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
