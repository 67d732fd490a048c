package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// MinContentLength is the minimum length of trimmed knowledge content
	MinContentLength = 10
	// MaxContentLength bounds a single knowledge chunk
	MaxContentLength = 10000
	// MaxSourceLength bounds the provenance label
	MaxSourceLength = 100
)

// KnowledgeRecord is one chunk of the retrieval corpus: a provenance
// label, the raw text, and the embedding derived from that exact text.
type KnowledgeRecord struct {
	ID        string
	Source    string
	Content   string
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScoredRecord pairs a record with its cosine distance from a query vector.
type ScoredRecord struct {
	Record   *KnowledgeRecord
	Distance float32
}

// NewKnowledgeRecord creates a new KnowledgeRecord instance
func NewKnowledgeRecord(id, source, content string, embedding []float32, createdAt time.Time) *KnowledgeRecord {
	return &KnowledgeRecord{
		ID:        id,
		Source:    source,
		Content:   content,
		Embedding: embedding,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// ValidateIngestInput validates the caller-supplied part of an ingestion.
// Embedding consistency is enforced by the upsert path, not here.
func ValidateIngestInput(source, content string) error {
	if strings.TrimSpace(source) == "" {
		return NewDomainError(ErrCodeValidation, "source is required")
	}
	if len(source) > MaxSourceLength {
		return NewDomainError(ErrCodeValidation, fmt.Sprintf("source exceeds %d characters", MaxSourceLength))
	}
	if len(strings.TrimSpace(content)) < MinContentLength {
		return ErrContentTooShort
	}
	if len(content) > MaxContentLength {
		return NewDomainError(ErrCodeValidation, fmt.Sprintf("content exceeds %d characters", MaxContentLength))
	}
	return nil
}

// ValidateKnowledgeRecord validates a fully-assembled record before persistence
func ValidateKnowledgeRecord(k *KnowledgeRecord, dimensions int) error {
	if k == nil {
		return fmt.Errorf("knowledge record cannot be nil")
	}
	if k.ID == "" {
		return fmt.Errorf("knowledge record ID is required")
	}
	if err := ValidateIngestInput(k.Source, k.Content); err != nil {
		return err
	}
	if len(k.Embedding) != dimensions {
		return fmt.Errorf("knowledge record embedding has %d dimensions, expected %d", len(k.Embedding), dimensions)
	}
	return nil
}
