package domain

import (
	"fmt"
	"time"
)

// LikeTarget restricts what can be liked
type LikeTarget string

const (
	LikeTargetProject LikeTarget = "project"
	LikeTargetPhoto   LikeTarget = "photo"
)

// Comment is a visitor comment on a project
type Comment struct {
	ID         string
	ProjectID  string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}

// Like records one like per (target, ip hash) pair
type Like struct {
	ID         string
	TargetType LikeTarget
	TargetID   string
	IPHash     string
	CreatedAt  time.Time
}

// ValidateComment validates a Comment instance
func ValidateComment(c *Comment) error {
	if c == nil {
		return fmt.Errorf("comment cannot be nil")
	}
	if c.ID == "" {
		return fmt.Errorf("comment ID is required")
	}
	if c.ProjectID == "" {
		return NewDomainError(ErrCodeValidation, "comment project ID is required")
	}
	if c.AuthorName == "" || len(c.AuthorName) > 100 {
		return NewDomainError(ErrCodeValidation, "author name must be 1-100 characters")
	}
	if c.Content == "" || len(c.Content) > 2000 {
		return NewDomainError(ErrCodeValidation, "comment content must be 1-2000 characters")
	}
	return nil
}

// ValidateLike validates a Like instance
func ValidateLike(l *Like) error {
	if l == nil {
		return fmt.Errorf("like cannot be nil")
	}
	if l.ID == "" {
		return fmt.Errorf("like ID is required")
	}
	if !isValidLikeTarget(l.TargetType) {
		return ErrInvalidTarget
	}
	if l.TargetID == "" {
		return NewDomainError(ErrCodeValidation, "like target ID is required")
	}
	if l.IPHash == "" {
		return NewDomainError(ErrCodeValidation, "like ip hash is required")
	}
	return nil
}

func isValidLikeTarget(t LikeTarget) bool {
	switch t {
	case LikeTargetProject, LikeTargetPhoto:
		return true
	}
	return false
}
