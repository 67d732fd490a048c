package service

import (
	"context"
	"io"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/pagination"
	"github.com/berthonipasso/portfolio-api/internal/telemetry"
)

type ProjectRepositoryInterface interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
	AddImage(ctx context.Context, img *domain.ProjectImage) error
	ListImages(ctx context.Context, projectID string) ([]*domain.ProjectImage, error)
	DeleteImage(ctx context.Context, id string) error
}

// ImageUploader stores an uploaded image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

type ProjectService struct {
	projectRepo ProjectRepositoryInterface
	uploader    ImageUploader
	uuidGen     UUIDGenerator
}

func NewProjectService(projectRepo ProjectRepositoryInterface, uploader ImageUploader) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		uploader:    uploader,
		uuidGen:     &DefaultUUIDGenerator{},
	}
}

func NewProjectServiceWithUUIDGen(projectRepo ProjectRepositoryInterface, uploader ImageUploader, uuidGen UUIDGenerator) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		uploader:    uploader,
		uuidGen:     uuidGen,
	}
}

// CreateProjectInput carries the admin-supplied fields for a new project.
type CreateProjectInput struct {
	Title        string
	Description  string
	Tags         string
	GitHubURL    string
	DemoURL      string
	PowerBIURL   string
	ThumbnailURL string
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*domain.Project, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectService.Create", telemetry.SpanAttributes{
		Operation: "create",
	})
	defer span.End()

	project := &domain.Project{
		ID:           s.uuidGen.NewString(),
		Title:        input.Title,
		Description:  input.Description,
		Tags:         input.Tags,
		GitHubURL:    input.GitHubURL,
		DemoURL:      input.DemoURL,
		PowerBIURL:   input.PowerBIURL,
		ThumbnailURL: input.ThumbnailURL,
		PublishedAt:  time.Now().UTC(),
	}

	if err := domain.ValidateProject(project); err != nil {
		span.SetError(err)
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		span.SetError(err)
		return nil, err
	}
	return project, nil
}

// ProjectWithDetails bundles a project with its gallery images.
type ProjectWithDetails struct {
	Project *domain.Project
	Images  []*domain.ProjectImage
}

func (s *ProjectService) GetByID(ctx context.Context, id string) (*ProjectWithDetails, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.projectRepo.ListImages(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ProjectWithDetails{Project: project, Images: images}, nil
}

type ListProjectsInput struct {
	Cursor string
	Limit  int
}

type ListProjectsOutput struct {
	Items   []*domain.Project
	Cursor  string
	HasMore bool
}

// List returns a page of projects, newest first. The returned cursor is
// empty on the last page.
func (s *ProjectService) List(ctx context.Context, input ListProjectsInput) (*ListProjectsOutput, error) {
	cursor, err := pagination.DecodeCursor(input.Cursor)
	if err != nil {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "invalid cursor")
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 20
	}

	// Fetch one extra row to detect whether another page exists.
	items, err := s.projectRepo.List(ctx, cursor, limit+1)
	if err != nil {
		return nil, err
	}

	out := &ListProjectsOutput{Items: items}
	if len(items) > limit {
		out.Items = items[:limit]
		out.HasMore = true
		last := out.Items[len(out.Items)-1]
		out.Cursor = pagination.EncodeCursor(last.ID, last.PublishedAt)
	}
	return out, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	ctx, span := telemetry.StartSpan(ctx, "ProjectService.Delete", telemetry.SpanAttributes{
		ProjectID: id,
		Operation: "delete",
	})
	defer span.End()

	return s.projectRepo.Delete(ctx, id)
}

// AddImage uploads the image bytes and attaches the resulting public URL
// to the project.
func (s *ProjectService) AddImage(ctx context.Context, projectID, filename, contentType, caption string, body io.Reader) (*domain.ProjectImage, error) {
	ctx, span := telemetry.StartSpan(ctx, "ProjectService.AddImage", telemetry.SpanAttributes{
		ProjectID: projectID,
		Operation: "upload",
	})
	defer span.End()

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		span.SetError(err)
		return nil, err
	}

	url, err := s.uploader.UploadImage(ctx, filename, contentType, body)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStorage, "image upload failed", err)
	}

	img := &domain.ProjectImage{
		ID:        s.uuidGen.NewString(),
		ProjectID: projectID,
		URL:       url,
		Caption:   caption,
	}
	if err := s.projectRepo.AddImage(ctx, img); err != nil {
		span.SetError(err)
		return nil, err
	}
	return img, nil
}
