package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/vision"
)

type EmotionService interface {
	Analyze(ctx context.Context, imageBase64 string) (*vision.Detection, error)
}

type EmotionHandler struct {
	svc EmotionService
}

func NewEmotionHandler(svc EmotionService) *EmotionHandler {
	return &EmotionHandler{svc: svc}
}

type EmotionRequest struct {
	Image string `json:"image"`
}

func (h *EmotionHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req EmotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	detection, err := h.svc.Analyze(r.Context(), req.Image)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, detection)
}
