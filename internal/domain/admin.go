package domain

import (
	"fmt"
	"time"
)

// Admin is the single privileged role: it gates ingestion, project
// management, and analytics. There are no visitor accounts.
type Admin struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AdminToken is an issued bearer credential; only its sha256 hash is stored.
type AdminToken struct {
	ID        string
	AdminID   string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry
func (t *AdminToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// ValidateAdmin validates an Admin instance
func ValidateAdmin(a *Admin) error {
	if a == nil {
		return fmt.Errorf("admin cannot be nil")
	}
	if a.ID == "" {
		return fmt.Errorf("admin ID is required")
	}
	if !emailPattern.MatchString(a.Email) {
		return NewDomainError(ErrCodeValidation, "invalid email address")
	}
	if a.PasswordHash == "" {
		return fmt.Errorf("admin password hash is required")
	}
	return nil
}
