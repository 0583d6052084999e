package alexnet

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// resizeTarget is the shorter-side length before the center crop.
const resizeTarget = 256

// Per-channel normalization constants of the ImageNet training
// distribution the network was trained on.
var (
	imagenetMean = [3]float32{0.485, 0.456, 0.406}
	imagenetStd  = [3]float32{0.229, 0.224, 0.225}
)

// Preprocess converts an arbitrary image into the [3, 224, 224] tensor
// the network expects: resize so the shorter side is 256, center-crop
// 224x224, scale pixels to [0,1] and normalize per channel. Non-RGB
// inputs are converted through the color model when pixels are read.
func Preprocess(img image.Image) *tensor.Tensor {
	bounds := img.Bounds()
	var resized image.Image
	if bounds.Dx() <= bounds.Dy() {
		resized = resize.Resize(resizeTarget, 0, img, resize.Bilinear)
	} else {
		resized = resize.Resize(0, resizeTarget, img, resize.Bilinear)
	}

	rb := resized.Bounds()
	offX := rb.Min.X + (rb.Dx()-InputSize)/2
	offY := rb.Min.Y + (rb.Dy()-InputSize)/2

	out := tensor.New(tensor.Shape{3, InputSize, InputSize})
	data := out.Data()
	plane := InputSize * InputSize

	for y := 0; y < InputSize; y++ {
		for x := 0; x < InputSize; x++ {
			r, g, b, _ := resized.At(offX+x, offY+y).RGBA()
			i := y*InputSize + x
			data[i] = (float32(r)/65535 - imagenetMean[0]) / imagenetStd[0]
			data[plane+i] = (float32(g)/65535 - imagenetMean[1]) / imagenetStd[1]
			data[2*plane+i] = (float32(b)/65535 - imagenetMean[2]) / imagenetStd[2]
		}
	}

	return out
}
