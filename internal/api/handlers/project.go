package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/berthonipasso/portfolio-api/internal/api"
	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// uploads are capped well under the global body limit
const maxImageUploadBytes = 4 << 20

type ProjectService interface {
	Create(ctx context.Context, input service.CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*service.ProjectWithDetails, error)
	List(ctx context.Context, input service.ListProjectsInput) (*service.ListProjectsOutput, error)
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, projectID, filename, contentType, caption string, body io.Reader) (*domain.ProjectImage, error)
}

type ProjectHandler struct {
	svc ProjectService
}

func NewProjectHandler(svc ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type CreateProjectRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Tags         string `json:"tags"`
	GitHubURL    string `json:"github_url"`
	DemoURL      string `json:"demo_url"`
	PowerBIURL   string `json:"powerbi_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type ProjectResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Tags         string `json:"tags,omitempty"`
	GitHubURL    string `json:"github_url,omitempty"`
	DemoURL      string `json:"demo_url,omitempty"`
	PowerBIURL   string `json:"powerbi_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	PublishedAt  string `json:"published_at"`
}

type ProjectImageResponse struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Images []ProjectImageResponse `json:"images"`
}

type ProjectListResponse struct {
	Items   []*ProjectResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

func projectToResponse(p *domain.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Tags:         p.Tags,
		GitHubURL:    p.GitHubURL,
		DemoURL:      p.DemoURL,
		PowerBIURL:   p.PowerBIURL,
		ThumbnailURL: p.ThumbnailURL,
		PublishedAt:  p.PublishedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	project, err := h.svc.Create(r.Context(), service.CreateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		Tags:         req.Tags,
		GitHubURL:    req.GitHubURL,
		DemoURL:      req.DemoURL,
		PowerBIURL:   req.PowerBIURL,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, projectToResponse(project))
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	out, err := h.svc.List(r.Context(), service.ListProjectsInput{
		Cursor: r.URL.Query().Get("cursor"),
		Limit:  limit,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	items := make([]*ProjectResponse, 0, len(out.Items))
	for _, p := range out.Items {
		items = append(items, projectToResponse(p))
	}

	api.Success(w, http.StatusOK, ProjectListResponse{
		Items:   items,
		Cursor:  out.Cursor,
		HasMore: out.HasMore,
	})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	detail, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := ProjectDetailResponse{ProjectResponse: *projectToResponse(detail.Project)}
	resp.Images = make([]ProjectImageResponse, 0, len(detail.Images))
	for _, img := range detail.Images {
		resp.Images = append(resp.Images, ProjectImageResponse{
			ID:      img.ID,
			URL:     img.URL,
			Caption: img.Caption,
		})
	}

	api.Success(w, http.StatusOK, resp)
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	caption := r.FormValue("caption")

	img, err := h.svc.AddImage(r.Context(), projectID, header.Filename, contentType, caption, file)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, ProjectImageResponse{
		ID:      img.ID,
		URL:     img.URL,
		Caption: img.Caption,
	})
}
