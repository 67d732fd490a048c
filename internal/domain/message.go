package domain

import (
	"fmt"
	"regexp"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9\-.]+$`)

// Message is a contact form submission
type Message struct {
	ID      string
	Name    string
	Email   string
	Subject string
	Content string
	SentAt  time.Time
}

// ValidateMessage validates a Message instance
func ValidateMessage(m *Message) error {
	if m == nil {
		return fmt.Errorf("message cannot be nil")
	}
	if m.ID == "" {
		return fmt.Errorf("message ID is required")
	}
	if m.Name == "" || len(m.Name) > 100 {
		return NewDomainError(ErrCodeValidation, "name must be 1-100 characters")
	}
	if !emailPattern.MatchString(m.Email) {
		return NewDomainError(ErrCodeValidation, "invalid email address")
	}
	if m.Subject == "" || len(m.Subject) > 300 {
		return NewDomainError(ErrCodeValidation, "subject must be 1-300 characters")
	}
	if m.Content == "" || len(m.Content) > 5000 {
		return NewDomainError(ErrCodeValidation, "message content must be 1-5000 characters")
	}
	return nil
}
