package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
	"github.com/theprincepratap/AlexNet-Visualization/internal/render"
)

// newTestHandler builds a handler around an empty network. The cheap
// endpoints (layer metadata, architecture, input validation) never
// touch the weights, so tests stay fast.
func newTestHandler() *Handler {
	return New(&alexnet.Network{}, nil, 10)
}

func doRequest(h *Handler, method, path string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func multipartImage(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, "test.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHealth(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["model_loaded"])
}

func TestLayers(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodGet, "/layers", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var layers []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layers))
	require.Len(t, layers, 19)
	assert.Equal(t, "conv1", layers[0]["layer_name"])
	assert.Equal(t, "softmax", layers[18]["layer_name"])
}

func TestLayer(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodGet, "/layers/conv1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var layer map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &layer))
	assert.Equal(t, "conv1", layer["layer_name"])
	assert.Equal(t, "11x11", layer["kernel_size"])
	assert.Equal(t, float64(64), layer["filters"])
}

func TestLayer_NotFound(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodGet, "/layers/bogus", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArchitecture(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodGet, "/architecture", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var arch map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &arch))
	assert.Equal(t, "AlexNet", arch["name"])
	assert.Equal(t, float64(1000), arch["num_classes"])
	assert.Len(t, arch["layers"], 22)
}

func TestFilters_NotFound(t *testing.T) {
	// An empty network has no conv stages, and non-conv names never
	// resolve regardless of weights.
	for _, name := range []string{"relu1", "fc6", "bogus"} {
		rec := doRequest(newTestHandler(), http.MethodGet, "/filters/"+name, nil, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, "name %s", name)
	}
}

func TestPredict_NoFile(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.Close())

	rec := doRequest(newTestHandler(), http.MethodPost, "/predict", &buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredict_InvalidImage(t *testing.T) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", "junk.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	rec := doRequest(newTestHandler(), http.MethodPost, "/predict", &buf, w.FormDataContentType())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictBase64_BadJSON(t *testing.T) {
	body := bytes.NewBufferString("{not json")
	rec := doRequest(newTestHandler(), http.MethodPost, "/predict/base64", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictBase64_NoImage(t *testing.T) {
	body := bytes.NewBufferString(`{}`)
	rec := doRequest(newTestHandler(), http.MethodPost, "/predict/base64", body, "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradCAM_InvalidTargetClass(t *testing.T) {
	// Range validation runs before any evaluation, so the empty
	// network is never exercised.
	buf, contentType := multipartImage(t, "image")
	req := httptest.NewRequest(http.MethodPost, "/gradcam?target_class=-1", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestHandler().Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "target class out of range")
}

func TestGradCAM_MalformedTargetClass(t *testing.T) {
	buf, contentType := multipartImage(t, "image")
	req := httptest.NewRequest(http.MethodPost, "/gradcam?target_class=abc", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestHandler().Routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradCAMBase64_InvalidTargetClass(t *testing.T) {
	encoded, err := render.EncodePNGBase64(image.NewRGBA(image.Rect(0, 0, 8, 8)))
	require.NoError(t, err)

	payload, err := json.Marshal(map[string]any{
		"image":        encoded,
		"target_class": 5000,
	})
	require.NoError(t, err)

	rec := doRequest(newTestHandler(), http.MethodPost, "/gradcam/base64",
		bytes.NewBuffer(payload), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradCAMBase64_NoImage(t *testing.T) {
	rec := doRequest(newTestHandler(), http.MethodPost, "/gradcam/base64",
		bytes.NewBufferString(`{"alpha": 0.5}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "no image"))
}

// TestUpload_AcceptsFileField: the multipart field may be named either
// "image" or "file".
func TestUpload_AcceptsFileField(t *testing.T) {
	buf, contentType := multipartImage(t, "file")
	req := httptest.NewRequest(http.MethodPost, "/gradcam?target_class=-1", buf)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	newTestHandler().Routes().ServeHTTP(rec, req)

	// Reaching target-class validation proves the upload was read.
	assert.Contains(t, rec.Body.String(), "target class out of range")
}
