package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
)

func TestRenderActivation_Feature(t *testing.T) {
	act := alexnet.Activation{
		Kind: alexnet.FeatureActivation,
		Data: rampActivation(32, 6, 6),
	}

	visual, err := RenderActivation("conv5", act)
	require.NoError(t, err)
	require.NotEmpty(t, visual.Image)

	meta := visual.Metadata
	assert.Equal(t, "feature", meta.Type)
	assert.Equal(t, 32, meta.NumChannels)
	assert.Equal(t, 6, meta.SpatialSize)
	assert.Equal(t, []int{32, 6, 6}, meta.Shape)
	assert.Equal(t, 16, meta.ShownMaps)
	assert.Zero(t, meta.NumNeurons)

	_, err = DecodeBase64Image(visual.Image)
	assert.NoError(t, err)
}

func TestRenderActivation_Classifier(t *testing.T) {
	act := alexnet.Activation{
		Kind: alexnet.ClassifierActivation,
		Data: rampActivation(1, 16, 16), // treated as a flat vector
	}

	visual, err := RenderActivation("fc7", act)
	require.NoError(t, err)
	require.NotEmpty(t, visual.Image)

	meta := visual.Metadata
	assert.Equal(t, "classifier", meta.Type)
	assert.Equal(t, 256, meta.NumNeurons)
	assert.Zero(t, meta.NumChannels)
}

func TestRenderAllActivations(t *testing.T) {
	snap := alexnet.Snapshot{
		"conv1": {Kind: alexnet.FeatureActivation, Data: rampActivation(4, 5, 5)},
		"fc8":   {Kind: alexnet.ClassifierActivation, Data: rampActivation(1, 10, 10)},
	}

	visuals, err := RenderAllActivations(snap)
	require.NoError(t, err)
	require.Len(t, visuals, 2)
	assert.Contains(t, visuals, "conv1")
	assert.Contains(t, visuals, "fc8")
}

func TestIndividualFeatureMaps(t *testing.T) {
	act := alexnet.Activation{
		Kind: alexnet.FeatureActivation,
		Data: rampActivation(20, 4, 4),
	}

	maps, err := IndividualFeatureMaps(act, 16)
	require.NoError(t, err)
	require.Len(t, maps, 16)
	for i, m := range maps {
		img, err := DecodeBase64Image(m)
		require.NoError(t, err, "map %d", i)
		assert.Equal(t, 4, img.Bounds().Dx())
	}
}

func TestIndividualFeatureMaps_ClassifierYieldsNil(t *testing.T) {
	act := alexnet.Activation{
		Kind: alexnet.ClassifierActivation,
		Data: rampActivation(1, 4, 4),
	}
	maps, err := IndividualFeatureMaps(act, 16)
	require.NoError(t, err)
	assert.Nil(t, maps)
}
