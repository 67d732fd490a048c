package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

type KnowledgeService interface {
	Ingest(ctx context.Context, input service.IngestInput) (*domain.KnowledgeRecord, error)
	List(ctx context.Context) ([]*domain.KnowledgeRecord, error)
	Delete(ctx context.Context, source string) error
}

type RAGHandler struct {
	svc KnowledgeService
}

func NewRAGHandler(svc KnowledgeService) *RAGHandler {
	return &RAGHandler{svc: svc}
}

type IngestRequest struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

type IngestResponse struct {
	ID     string `json:"id"`
	Source string `json:"source"`
}

// KnowledgeResponse deliberately omits the raw embedding vector.
type KnowledgeResponse struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Content   string `json:"content"`
	Embedded  bool   `json:"embedded"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func knowledgeToResponse(k *domain.KnowledgeRecord) *KnowledgeResponse {
	return &KnowledgeResponse{
		ID:        k.ID,
		Source:    k.Source,
		Content:   k.Content,
		Embedded:  len(k.Embedding) > 0,
		CreatedAt: k.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: k.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *RAGHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.svc.Ingest(r.Context(), service.IngestInput{
		Source:  req.Source,
		Content: req.Content,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, IngestResponse{ID: record.ID, Source: record.Source})
}

func (h *RAGHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*KnowledgeResponse, 0, len(records))
	for _, k := range records {
		out = append(out, knowledgeToResponse(k))
	}
	api.Success(w, http.StatusOK, out)
}

func (h *RAGHandler) Delete(w http.ResponseWriter, r *http.Request) {
	source := chi.URLParam(r, "source")

	if err := h.svc.Delete(r.Context(), source); err != nil {
		api.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
