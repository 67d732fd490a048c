package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnprocessable = "UNPROCESSABLE"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeEmbedding     = "EMBEDDING_ERROR"
	ErrCodeGeneration    = "GENERATION_ERROR"
	ErrCodeVision        = "VISION_ERROR"
	ErrCodeStorage       = "STORAGE_ERROR"
	ErrCodeInternalError = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrContentTooShort  = NewDomainError(ErrCodeValidation, "content must be at least 10 characters")
	ErrEmptyQuestion    = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrInvalidTarget    = NewDomainError(ErrCodeValidation, "invalid like target type")
	ErrInvalidEventType = NewDomainError(ErrCodeValidation, "invalid analytics event type")
)

// Not found errors
var (
	ErrKnowledgeNotFound = NewDomainError(ErrCodeNotFound, "knowledge record not found")
	ErrProjectNotFound   = NewDomainError(ErrCodeNotFound, "project not found")
	ErrAdminNotFound     = NewDomainError(ErrCodeNotFound, "admin not found")
)

// Already exists errors
var (
	ErrAlreadyLiked       = NewDomainError(ErrCodeAlreadyExists, "target already liked from this address")
	ErrAdminAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "admin with this email already exists")
)

// Authorization errors
var (
	ErrInvalidCredentials = NewDomainError(ErrCodeUnauthorized, "invalid email or password")
	ErrInvalidToken       = NewDomainError(ErrCodeUnauthorized, "invalid or expired token")
)

// Upstream provider errors. Callers wrap the transport cause with
// NewDomainErrorWithCause so the HTTP layer can map them without
// leaking provider internals.
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeEmbedding, "embedding provider failed")
	ErrGenerationFailed = NewDomainError(ErrCodeGeneration, "generation provider failed")
	ErrNoFaceDetected   = NewDomainError(ErrCodeUnprocessable, "no face detected in image")
)
