package domain

import (
	"fmt"
	"time"
)

// Project represents a portfolio project
type Project struct {
	ID           string
	Title        string
	Description  string
	Tags         string // comma separated
	GitHubURL    string
	DemoURL      string
	PowerBIURL   string
	ThumbnailURL string
	PublishedAt  time.Time
}

// ProjectImage is an additional image attached to a project
type ProjectImage struct {
	ID        string
	ProjectID string
	URL       string
	Caption   string
}

// NewProject creates a new Project instance
func NewProject(id, title, description string, publishedAt time.Time) *Project {
	return &Project{
		ID:          id,
		Title:       title,
		Description: description,
		PublishedAt: publishedAt,
	}
}

// ValidateProject validates a Project instance
func ValidateProject(p *Project) error {
	if p == nil {
		return fmt.Errorf("project cannot be nil")
	}
	if p.ID == "" {
		return fmt.Errorf("project ID is required")
	}
	if p.Title == "" {
		return NewDomainError(ErrCodeValidation, "project title is required")
	}
	if len(p.Title) > 200 {
		return NewDomainError(ErrCodeValidation, "project title exceeds 200 characters")
	}
	if p.Description == "" {
		return NewDomainError(ErrCodeValidation, "project description is required")
	}
	if len(p.Description) > 5000 {
		return NewDomainError(ErrCodeValidation, "project description exceeds 5000 characters")
	}
	return nil
}
