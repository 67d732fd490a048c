package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, input service.CreateProjectInput) (*domain.Project, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectService) GetByID(ctx context.Context, id string) (*service.ProjectWithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectWithDetails), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, input service.ListProjectsInput) (*service.ListProjectsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListProjectsOutput), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectService) AddImage(ctx context.Context, projectID, filename, contentType, caption string, body io.Reader) (*domain.ProjectImage, error) {
	args := m.Called(ctx, projectID, filename, contentType, caption, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProjectImage), args.Error(1)
}

func newTestProject() *domain.Project {
	return &domain.Project{
		ID:          "p-1",
		Title:       "Lakehouse on Fabric",
		Description: "An end to end lakehouse build.",
		Tags:        "fabric,spark",
		PublishedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func requestWithID(method, url, id string, body []byte) *http.Request {
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestProjectHandler_Create_Success(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(input service.CreateProjectInput) bool {
		return input.Title == "Lakehouse on Fabric" && input.Tags == "fabric,spark"
	})).Return(newTestProject(), nil)

	body := `{"title":"Lakehouse on Fabric","description":"An end to end lakehouse build.","tags":"fabric,spark"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		Data ProjectResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p-1", resp.Data.ID)
	assert.Equal(t, "2025-05-01T09:00:00Z", resp.Data.PublishedAt)
	mockSvc.AssertExpectations(t)
}

func TestProjectHandler_Create_MissingTitle(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewDomainError(domain.ErrCodeValidation, "title must be 1-200 characters"))

	body := `{"description":"no title"}`
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader([]byte(body)))
	w := httptest.NewRecorder()

	handler.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProjectHandler_List_Success(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	out := &service.ListProjectsOutput{
		Items:   []*domain.Project{newTestProject()},
		Cursor:  "next-cursor",
		HasMore: true,
	}
	mockSvc.On("List", mock.Anything, service.ListProjectsInput{Cursor: "abc", Limit: 5}).Return(out, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/projects?limit=5&cursor=abc", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data ProjectListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Items, 1)
	assert.Equal(t, "next-cursor", resp.Data.Cursor)
	assert.True(t, resp.Data.HasMore)
	mockSvc.AssertExpectations(t)
}

func TestProjectHandler_List_InvalidLimit(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/api/projects?limit=nope", nil)
	w := httptest.NewRecorder()

	handler.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid limit")
	mockSvc.AssertNotCalled(t, "List")
}

func TestProjectHandler_Get_WithImages(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	detail := &service.ProjectWithDetails{
		Project: newTestProject(),
		Images: []*domain.ProjectImage{
			{ID: "img-1", ProjectID: "p-1", URL: "https://cdn.example.com/img-1.png", Caption: "architecture"},
		},
	}
	mockSvc.On("GetByID", mock.Anything, "p-1").Return(detail, nil)

	req := requestWithID(http.MethodGet, "/api/projects/p-1", "p-1", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data ProjectDetailResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "p-1", resp.Data.ID)
	require.Len(t, resp.Data.Images, 1)
	assert.Equal(t, "architecture", resp.Data.Images[0].Caption)
}

func TestProjectHandler_Get_NotFound(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	mockSvc.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrProjectNotFound)

	req := requestWithID(http.MethodGet, "/api/projects/missing", "missing", nil)
	w := httptest.NewRecorder()

	handler.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectHandler_Delete_Success(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	mockSvc.On("Delete", mock.Anything, "p-1").Return(nil)

	req := requestWithID(http.MethodDelete, "/api/projects/p-1", "p-1", nil)
	w := httptest.NewRecorder()

	handler.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestProjectHandler_UploadImage_Success(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	img := &domain.ProjectImage{ID: "img-1", ProjectID: "p-1", URL: "https://cdn.example.com/img-1.png", Caption: "dashboard"}
	mockSvc.On("AddImage", mock.Anything, "p-1", "shot.png", mock.Anything, "dashboard", mock.Anything).
		Return(img, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "shot.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", "dashboard"))
	require.NoError(t, mw.Close())

	req := requestWithID(http.MethodPost, "/api/projects/p-1/images", "p-1", buf.Bytes())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "https://cdn.example.com/img-1.png")
	mockSvc.AssertExpectations(t)
}

func TestProjectHandler_UploadImage_MissingFile(t *testing.T) {
	mockSvc := new(MockProjectService)
	handler := NewProjectHandler(mockSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("caption", "dashboard"))
	require.NoError(t, mw.Close())

	req := requestWithID(http.MethodPost, "/api/projects/p-1/images", "p-1", buf.Bytes())
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()

	handler.UploadImage(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image file is required")
	mockSvc.AssertNotCalled(t, "AddImage")
}
