package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/nfnt/resize"

	"github.com/theprincepratap/AlexNet-Visualization/internal/tensor"
)

// NormalizeToGray min-max normalizes a 2D map into a full-range
// grayscale image. A constant map renders uniformly black instead of
// dividing by zero.
func NormalizeToGray(t *tensor.Tensor) *image.Gray {
	shape := t.Shape()
	h, w := shape[0], shape[1]
	img := image.NewGray(image.Rect(0, 0, w, h))
	data := t.Data()

	minVal, maxVal := t.MinMax()
	span := maxVal - minVal

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float32(0)
			if span > 0 {
				v = (data[y*w+x] - minVal) / span
			}
			img.SetGray(x, y, color.Gray{Y: uint8(v*255 + 0.5)})
		}
	}
	return img
}

// EncodePNGBase64 encodes an image as PNG and returns it base64 encoded
// for transport in JSON responses.
func EncodePNGBase64(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// DecodeBase64Image decodes a base64 image string. Both the bare
// encoding and the data-URL form ("data:image/png;base64,....") are
// accepted; everything up to and including the first comma is stripped.
func DecodeBase64Image(s string) (image.Image, error) {
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		s = s[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// ResizeForPreview scales an image down (never up) so neither dimension
// exceeds maxSize, preserving aspect ratio. Images already within
// bounds pass through unchanged.
func ResizeForPreview(img image.Image, maxSize int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSize {
		return img
	}
	newW := w * maxSize / longest
	newH := h * maxSize / longest
	return resize.Resize(uint(newW), uint(newH), img, resize.Lanczos3)
}
