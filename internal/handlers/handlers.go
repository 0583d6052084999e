// Package handlers exposes the network and its visualizations over
// HTTP. Handlers only translate between the wire and the core
// packages; all numeric work lives in alexnet and render.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/theprincepratap/AlexNet-Visualization/internal/alexnet"
	"github.com/theprincepratap/AlexNet-Visualization/internal/render"
)

// previewMaxSize bounds the original-image preview echoed back in
// predict responses.
const previewMaxSize = 400

// Handler serves the visualization API for one loaded network.
type Handler struct {
	net       *alexnet.Network
	log       *slog.Logger
	maxUpload int64
}

// New builds a handler around a loaded network. maxUploadMB bounds
// multipart upload memory.
func New(net *alexnet.Network, log *slog.Logger, maxUploadMB int64) *Handler {
	if log == nil {
		log = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &Handler{net: net, log: log, maxUpload: maxUploadMB << 20}
}

// Routes wires every endpoint onto a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Get("/layers", h.Layers)
	r.Get("/layers/{name}", h.Layer)
	r.Post("/predict", h.Predict)
	r.Post("/predict/base64", h.PredictBase64)
	r.Post("/activations/{name}", h.Activation)
	r.Post("/gradcam", h.GradCAM)
	r.Post("/gradcam/base64", h.GradCAMBase64)
	r.Get("/filters/{name}", h.Filters)
	r.Get("/architecture", h.Architecture)
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]any{
		"status":       "healthy",
		"model_loaded": true,
	})
}

// layerInfoResponse is a stage descriptor together with the stage name
// it was looked up under.
type layerInfoResponse struct {
	LayerName string `json:"layer_name"`
	alexnet.LayerDescriptor
}

func (h *Handler) Layers(w http.ResponseWriter, r *http.Request) {
	names := alexnet.AllLayerNames()
	layers := make([]layerInfoResponse, 0, len(names))
	for _, name := range names {
		layers = append(layers, layerInfoResponse{
			LayerName:       name,
			LayerDescriptor: alexnet.LayerInfo(name),
		})
	}
	h.respond(w, http.StatusOK, layers)
}

func (h *Handler) Layer(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info := alexnet.LayerInfo(name)
	if info.Name == "" {
		h.error(w, http.StatusNotFound, fmt.Sprintf("layer %q not found", name))
		return
	}
	h.respond(w, http.StatusOK, layerInfoResponse{LayerName: name, LayerDescriptor: info})
}

type probEntry struct {
	Class       string  `json:"class"`
	Probability float64 `json:"probability"`
}

type predictResponse struct {
	Prediction       string                        `json:"prediction"`
	Probabilities    []probEntry                   `json:"probabilities"`
	ProbabilityChart string                        `json:"probability_chart"`
	Activations      map[string]render.LayerVisual `json:"activations"`
	OriginalImage    string                        `json:"original_image"`
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	h.servePredict(w, img)
}

func (h *Handler) PredictBase64(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readBase64Body(w, r, nil, nil)
	if !ok {
		return
	}
	h.servePredict(w, img)
}

func (h *Handler) servePredict(w http.ResponseWriter, img image.Image) {
	pred, snap, err := h.net.Predict(img)
	if err != nil {
		h.internal(w, "predict", err)
		return
	}

	visuals, err := render.RenderAllActivations(snap)
	if err != nil {
		h.internal(w, "render activations", err)
		return
	}
	chart, err := render.ProbabilityChart(pred.Top5)
	if err != nil {
		h.internal(w, "render probability chart", err)
		return
	}
	preview, err := render.EncodePNGBase64(render.ResizeForPreview(img, previewMaxSize))
	if err != nil {
		h.internal(w, "encode preview", err)
		return
	}

	probs := make([]probEntry, 0, len(pred.Top5))
	for _, p := range pred.Top5 {
		probs = append(probs, probEntry{
			Class:       p.Label,
			Probability: roundPercent(p.Probability),
		})
	}

	h.respond(w, http.StatusOK, predictResponse{
		Prediction:       pred.Top1,
		Probabilities:    probs,
		ProbabilityChart: chart,
		Activations:      visuals,
		OriginalImage:    preview,
	})
}

type activationResponse struct {
	LayerName      string            `json:"layer_name"`
	GridImage      string            `json:"grid_image"`
	IndividualMaps []string          `json:"individual_maps"`
	Metadata       render.Metadata   `json:"metadata"`
	LayerInfo      layerInfoResponse `json:"layer_info"`
}

func (h *Handler) Activation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	_, snap, err := h.net.Predict(img)
	if err != nil {
		h.internal(w, "predict", err)
		return
	}
	act, ok := snap[name]
	if !ok {
		h.error(w, http.StatusNotFound, fmt.Sprintf("layer %q not found", name))
		return
	}

	visual, err := render.RenderActivation(name, act)
	if err != nil {
		h.internal(w, "render activation", err)
		return
	}
	maps, err := render.IndividualFeatureMaps(act, render.DefaultMaxMaps)
	if err != nil {
		h.internal(w, "render feature maps", err)
		return
	}

	h.respond(w, http.StatusOK, activationResponse{
		LayerName:      name,
		GridImage:      visual.Image,
		IndividualMaps: maps,
		Metadata:       visual.Metadata,
		LayerInfo:      layerInfoResponse{LayerName: name, LayerDescriptor: alexnet.LayerInfo(name)},
	})
}

type gradcamResponse struct {
	Heatmap     string `json:"heatmap"`
	Overlay     string `json:"overlay"`
	TargetClass int    `json:"target_class"`
	ClassName   string `json:"class_name"`
}

func (h *Handler) GradCAM(w http.ResponseWriter, r *http.Request) {
	img, ok := h.readUpload(w, r)
	if !ok {
		return
	}

	var target *int
	if s := r.FormValue("target_class"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.error(w, http.StatusBadRequest, "target_class must be an integer")
			return
		}
		target = &v
	}
	alpha := render.DefaultOverlayAlpha
	if s := r.FormValue("alpha"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			h.error(w, http.StatusBadRequest, "alpha must be a number")
			return
		}
		alpha = v
	}

	h.serveGradCAM(w, img, target, alpha)
}

type gradcamBase64Request struct {
	Image       string   `json:"image"`
	TargetClass *int     `json:"target_class"`
	Alpha       *float64 `json:"alpha"`
}

func (h *Handler) GradCAMBase64(w http.ResponseWriter, r *http.Request) {
	var target *int
	alpha := render.DefaultOverlayAlpha
	img, ok := h.readBase64Body(w, r, &target, &alpha)
	if !ok {
		return
	}
	h.serveGradCAM(w, img, target, alpha)
}

func (h *Handler) serveGradCAM(w http.ResponseWriter, img image.Image, target *int, alpha float64) {
	result, err := h.net.GradCAM(img, target)
	if err != nil {
		if errors.Is(err, alexnet.ErrInvalidTargetClass) {
			h.error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.internal(w, "gradcam", err)
		return
	}

	heatmap, err := render.EncodePNGBase64(render.Jet.ColorizeMap(result.Heatmap))
	if err != nil {
		h.internal(w, "encode heatmap", err)
		return
	}
	overlay, err := render.EncodePNGBase64(render.Overlay(img, result.Heatmap, alpha))
	if err != nil {
		h.internal(w, "encode overlay", err)
		return
	}

	h.respond(w, http.StatusOK, gradcamResponse{
		Heatmap:     heatmap,
		Overlay:     overlay,
		TargetClass: result.Class,
		ClassName:   result.Label,
	})
}

type filterResponse struct {
	LayerName     string `json:"layer_name"`
	Visualization string `json:"visualization"`
	NumFilters    int    `json:"num_filters"`
	KernelSize    []int  `json:"kernel_size"`
}

func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	weights := h.net.FilterWeights(name)
	if weights == nil {
		h.error(w, http.StatusNotFound,
			fmt.Sprintf("layer %q not found or not a convolutional layer", name))
		return
	}

	encoded, err := render.EncodePNGBase64(render.FilterGrid(weights, render.DefaultMaxFilters))
	if err != nil {
		h.internal(w, "render filters", err)
		return
	}

	shape := weights.Shape()
	h.respond(w, http.StatusOK, filterResponse{
		LayerName:     name,
		Visualization: encoded,
		NumFilters:    shape[0],
		KernelSize:    []int{shape[2], shape[3]},
	})
}

// readUpload decodes the image file of a multipart request. The form
// field may be named either "image" or "file".
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (image.Image, bool) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.error(w, http.StatusBadRequest, "failed to parse multipart form")
		return nil, false
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		file, _, err = r.FormFile("file")
	}
	if err != nil {
		h.error(w, http.StatusBadRequest, "no image file provided; use form field 'image' or 'file'")
		return nil, false
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		h.error(w, http.StatusBadRequest, "invalid image; supported formats: JPEG, PNG")
		return nil, false
	}
	return img, true
}

// readBase64Body decodes a JSON body carrying a base64 image, plus the
// optional gradcam fields when target and alpha are non-nil.
func (h *Handler) readBase64Body(w http.ResponseWriter, r *http.Request, target **int, alpha *float64) (image.Image, bool) {
	var req gradcamBase64Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}
	if req.Image == "" {
		h.error(w, http.StatusBadRequest, "no image provided")
		return nil, false
	}
	img, err := render.DecodeBase64Image(req.Image)
	if err != nil {
		h.error(w, http.StatusBadRequest, "invalid base64 image")
		return nil, false
	}
	if target != nil {
		*target = req.TargetClass
	}
	if alpha != nil && req.Alpha != nil {
		*alpha = *req.Alpha
	}
	return img, true
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", "error", err)
	}
}

func (h *Handler) error(w http.ResponseWriter, status int, detail string) {
	h.respond(w, status, map[string]string{"detail": detail})
}

func (h *Handler) internal(w http.ResponseWriter, op string, err error) {
	h.log.Error(op, "error", err)
	h.error(w, http.StatusInternalServerError, err.Error())
}

func roundPercent(p float64) float64 {
	return math.Round(p*10000) / 100
}
