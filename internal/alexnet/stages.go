package alexnet

// LayerDescriptor is the static, human-facing metadata for one stage.
// Zero value means "unknown stage".
type LayerDescriptor struct {
	Name        string `json:"name"`
	KernelSize  string `json:"kernel_size,omitempty"`
	Stride      int    `json:"stride,omitempty"`
	Filters     int    `json:"filters,omitempty"`
	Neurons     int    `json:"neurons,omitempty"`
	Description string `json:"description"`
	Formula     string `json:"formula,omitempty"`
}

// stageNames is the fixed ordered sequence of capturable stages.
var stageNames = []string{
	"conv1", "relu1", "pool1",
	"conv2", "relu2", "pool2",
	"conv3", "relu3",
	"conv4", "relu4",
	"conv5", "relu5", "pool5",
	"fc6", "relu6",
	"fc7", "relu7",
	"fc8", "softmax",
}

// AllLayerNames returns the fixed ordered stage-name sequence. The
// result is a copy; callers may mutate it freely.
func AllLayerNames() []string {
	names := make([]string, len(stageNames))
	copy(names, stageNames)
	return names
}

// LayerInfo returns the static descriptor for a stage name, or the zero
// descriptor for any unknown name. It never fails.
func LayerInfo(name string) LayerDescriptor {
	return layerInfo[name]
}

var layerInfo = map[string]LayerDescriptor{
	"conv1": {
		Name:       "Convolution Layer 1",
		KernelSize: "11x11",
		Stride:     4,
		Filters:    64,
		Description: "Extracts low-level features like edges, corners, and basic textures. " +
			"Uses large 11x11 kernels to capture broad spatial patterns from the input image.",
		Formula: "y = Σ(x * w) + b where * is convolution",
	},
	"relu1": {
		Name: "ReLU Activation 1",
		Description: "Applies non-linear activation to introduce non-linearity into the model. " +
			"Zeros out negative values while keeping positive values unchanged.",
		Formula: "f(x) = max(0, x)",
	},
	"pool1": {
		Name:       "Max Pooling 1",
		KernelSize: "3x3",
		Stride:     2,
		Description: "Reduces spatial dimensions while retaining the most important features. " +
			"Takes the maximum value from each 3x3 region.",
		Formula: "y = max(x[i:i+k, j:j+k])",
	},
	"conv2": {
		Name:       "Convolution Layer 2",
		KernelSize: "5x5",
		Stride:     1,
		Filters:    192,
		Description: "Builds upon low-level features to detect more complex patterns " +
			"like textures and simple shapes.",
		Formula: "y = Σ(x * w) + b",
	},
	"relu2": {
		Name:        "ReLU Activation 2",
		Description: "Non-linear activation that helps the network learn complex decision boundaries.",
		Formula:     "f(x) = max(0, x)",
	},
	"pool2": {
		Name:        "Max Pooling 2",
		KernelSize:  "3x3",
		Stride:      2,
		Description: "Further reduces spatial dimensions and provides translation invariance.",
		Formula:     "y = max(x[i:i+k, j:j+k])",
	},
	"conv3": {
		Name:        "Convolution Layer 3",
		KernelSize:  "3x3",
		Stride:      1,
		Filters:     384,
		Description: "Detects higher-level features by combining patterns from previous layers.",
		Formula:     "y = Σ(x * w) + b",
	},
	"relu3": {
		Name:        "ReLU Activation 3",
		Description: "Continues to add non-linearity for learning complex patterns.",
		Formula:     "f(x) = max(0, x)",
	},
	"conv4": {
		Name:       "Convolution Layer 4",
		KernelSize: "3x3",
		Stride:     1,
		Filters:    256,
		Description: "Further refines feature representations, detecting object parts " +
			"and complex textures.",
		Formula: "y = Σ(x * w) + b",
	},
	"relu4": {
		Name:        "ReLU Activation 4",
		Description: "Non-linear activation for learning hierarchical feature representations.",
		Formula:     "f(x) = max(0, x)",
	},
	"conv5": {
		Name:       "Convolution Layer 5",
		KernelSize: "3x3",
		Stride:     1,
		Filters:    256,
		Description: "Extracts the highest-level visual features, often corresponding to " +
			"semantic concepts and object parts.",
		Formula: "y = Σ(x * w) + b",
	},
	"relu5": {
		Name:        "ReLU Activation 5",
		Description: "Final convolutional non-linearity before pooling.",
		Formula:     "f(x) = max(0, x)",
	},
	"pool5": {
		Name:        "Max Pooling 3",
		KernelSize:  "3x3",
		Stride:      2,
		Description: "Final spatial reduction before fully connected layers.",
		Formula:     "y = max(x[i:i+k, j:j+k])",
	},
	"flatten": {
		Name:        "Flatten",
		Description: "Converts 3D feature maps into a 1D vector for the fully connected layers.",
		Formula:     "y = reshape(x, (batch_size, -1))",
	},
	"fc6": {
		Name:    "Fully Connected Layer 1",
		Neurons: 4096,
		Description: "First fully connected layer that combines all spatial features " +
			"for high-level reasoning.",
		Formula: "y = Wx + b",
	},
	"relu6": {
		Name:        "ReLU Activation 6",
		Description: "Non-linear activation in the fully connected layers.",
		Formula:     "f(x) = max(0, x)",
	},
	"fc7": {
		Name:        "Fully Connected Layer 2",
		Neurons:     4096,
		Description: "Second fully connected layer for further feature abstraction.",
		Formula:     "y = Wx + b",
	},
	"relu7": {
		Name:        "ReLU Activation 7",
		Description: "Non-linear activation before the final classification layer.",
		Formula:     "f(x) = max(0, x)",
	},
	"fc8": {
		Name:    "Output Layer",
		Neurons: 1000,
		Description: "Final classification layer that outputs raw scores (logits) " +
			"for each of the 1000 ImageNet classes.",
		Formula: "y = Wx + b",
	},
	"softmax": {
		Name: "Softmax",
		Description: "Converts raw logits into probability distribution. Each output represents " +
			"the probability of the input belonging to that class.",
		Formula: "P(class_i) = e^(z_i) / Σ(e^(z_j))",
	},
}
