package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/api/middleware"
	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type InteractionService interface {
	AddComment(ctx context.Context, projectID, authorName, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error)
	Like(ctx context.Context, targetType domain.LikeTarget, targetID, clientIP string) (int64, error)
	CountLikes(ctx context.Context, targetType domain.LikeTarget, targetID string) (int64, error)
	Contact(ctx context.Context, name, email, subject, content string) (*domain.Message, error)
}

type InteractionHandler struct {
	svc InteractionService
}

func NewInteractionHandler(svc InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type CommentRequest struct {
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
}

type CommentResponse struct {
	ID         string `json:"id"`
	ProjectID  string `json:"project_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	CreatedAt  string `json:"created_at"`
}

func commentToResponse(c *domain.Comment) *CommentResponse {
	return &CommentResponse{
		ID:         c.ID,
		ProjectID:  c.ProjectID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *InteractionHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		api.Error(w, http.StatusBadRequest, "project_id is required")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.svc.AddComment(r.Context(), projectID, req.AuthorName, req.Content)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, commentToResponse(comment))
}

func (h *InteractionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	projectID := r.URL.Query().Get("project_id")
	if projectID == "" {
		api.Error(w, http.StatusBadRequest, "project_id is required")
		return
	}

	comments, err := h.svc.ListComments(r.Context(), projectID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]*CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentToResponse(c))
	}
	api.Success(w, http.StatusOK, out)
}

type LikeRequest struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
}

type LikeResponse struct {
	TargetType string `json:"target_type"`
	TargetID   string `json:"target_id"`
	Count      int64  `json:"count"`
}

func (h *InteractionHandler) Like(w http.ResponseWriter, r *http.Request) {
	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	count, err := h.svc.Like(r.Context(), domain.LikeTarget(req.TargetType), req.TargetID, middleware.ClientIP(r))
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, LikeResponse{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Count:      count,
	})
}

func (h *InteractionHandler) CountLikes(w http.ResponseWriter, r *http.Request) {
	targetType := chi.URLParam(r, "target_type")
	targetID := chi.URLParam(r, "target_id")

	count, err := h.svc.CountLikes(r.Context(), domain.LikeTarget(targetType), targetID)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, LikeResponse{
		TargetType: targetType,
		TargetID:   targetID,
		Count:      count,
	})
}

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *InteractionHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message, err := h.svc.Contact(r.Context(), req.Name, req.Email, req.Subject, req.Message)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, map[string]string{"id": message.ID})
}
