package handlers

import "net/http"

type architectureLayer struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Params string `json:"params"`
}

type architectureResponse struct {
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	InputSize      []int               `json:"input_size"`
	NumClasses     int                 `json:"num_classes"`
	TotalParams    string              `json:"total_params"`
	Layers         []architectureLayer `json:"layers"`
	KeyInnovations []string            `json:"key_innovations"`
}

// Architecture returns a static summary of the network. Nothing here
// depends on the loaded weights.
func (h *Handler) Architecture(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, architectureResponse{
		Name: "AlexNet",
		Description: "AlexNet is a pioneering deep convolutional neural network that won " +
			"the ImageNet Large Scale Visual Recognition Challenge in 2012. It consists of " +
			"5 convolutional layers, 3 max pooling layers, and 3 fully connected layers.",
		InputSize:   []int{3, 224, 224},
		NumClasses:  1000,
		TotalParams: "61 million",
		Layers: []architectureLayer{
			{"Conv1", "Conv2d", "3→64, 11x11, stride=4, pad=2"},
			{"ReLU1", "ReLU", "inplace"},
			{"MaxPool1", "MaxPool2d", "3x3, stride=2"},
			{"Conv2", "Conv2d", "64→192, 5x5, stride=1, pad=2"},
			{"ReLU2", "ReLU", "inplace"},
			{"MaxPool2", "MaxPool2d", "3x3, stride=2"},
			{"Conv3", "Conv2d", "192→384, 3x3, stride=1, pad=1"},
			{"ReLU3", "ReLU", "inplace"},
			{"Conv4", "Conv2d", "384→256, 3x3, stride=1, pad=1"},
			{"ReLU4", "ReLU", "inplace"},
			{"Conv5", "Conv2d", "256→256, 3x3, stride=1, pad=1"},
			{"ReLU5", "ReLU", "inplace"},
			{"MaxPool3", "MaxPool2d", "3x3, stride=2"},
			{"AdaptiveAvgPool", "AdaptiveAvgPool2d", "6x6"},
			{"Flatten", "Flatten", "9216"},
			{"FC1", "Linear", "9216→4096"},
			{"ReLU6", "ReLU", "inplace"},
			{"Dropout1", "Dropout", "p=0.5"},
			{"FC2", "Linear", "4096→4096"},
			{"ReLU7", "ReLU", "inplace"},
			{"Dropout2", "Dropout", "p=0.5"},
			{"FC3", "Linear", "4096→1000"},
		},
		KeyInnovations: []string{
			"Use of ReLU activation for faster training",
			"Dropout for regularization",
			"Data augmentation",
			"GPU training with model parallelism",
			"Local Response Normalization (original version)",
		},
	})
}
