package service

import (
	"context"
	"strings"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/telemetry"
	"github.com/google/uuid"
)

// KnowledgeStore defines the repository interface for the retrieval corpus.
type KnowledgeStore interface {
	Upsert(ctx context.Context, k *domain.KnowledgeRecord) error
	GetBySource(ctx context.Context, source string) (*domain.KnowledgeRecord, error)
	ListAll(ctx context.Context) ([]*domain.KnowledgeRecord, error)
	DeleteBySource(ctx context.Context, source string) error
	Count(ctx context.Context) (int64, error)
	SearchByEmbedding(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error)
	ListMissingEmbeddings(ctx context.Context, limit int) ([]*domain.KnowledgeRecord, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// EmbeddingClient turns text into a fixed-dimension vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// KnowledgeService handles ingestion and management of the retrieval corpus.
type KnowledgeService struct {
	store    KnowledgeStore
	embedder EmbeddingClient
	txRunner TxRunner
	uuidGen  UUIDGenerator
}

func NewKnowledgeService(store KnowledgeStore, embedder EmbeddingClient, txRunner TxRunner) *KnowledgeService {
	return &KnowledgeService{
		store:    store,
		embedder: embedder,
		txRunner: txRunner,
		uuidGen:  &DefaultUUIDGenerator{},
	}
}

// NewKnowledgeServiceWithUUIDGen creates a KnowledgeService with a custom UUID generator (for testing)
func NewKnowledgeServiceWithUUIDGen(store KnowledgeStore, embedder EmbeddingClient, txRunner TxRunner, uuidGen UUIDGenerator) *KnowledgeService {
	return &KnowledgeService{
		store:    store,
		embedder: embedder,
		txRunner: txRunner,
		uuidGen:  uuidGen,
	}
}

// IngestInput is one document to add to the corpus.
type IngestInput struct {
	Source  string
	Content string
}

// Ingest validates the document, embeds its content, and atomically
// replaces any existing record with the same source. The provider is not
// called for invalid input.
func (s *KnowledgeService) Ingest(ctx context.Context, input IngestInput) (*domain.KnowledgeRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, "KnowledgeService.Ingest", telemetry.SpanAttributes{
		Source:    input.Source,
		Operation: "ingest",
	})
	defer span.End()

	source := strings.TrimSpace(input.Source)
	content := strings.TrimSpace(input.Content)
	if err := domain.ValidateIngestInput(source, content); err != nil {
		span.SetError(err)
		return nil, err
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, content)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeEmbedding, "embedding provider failed", err)
	}

	record := domain.NewKnowledgeRecord(s.uuidGen.NewString(), source, content, embedding, time.Now().UTC())
	if err := domain.ValidateKnowledgeRecord(record, s.embedder.Dimensions()); err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "invalid knowledge record", err)
	}

	err = s.txRunner.WithTx(ctx, func(repos TxRepositories) error {
		return repos.Knowledge().Upsert(ctx, record)
	})
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	return record, nil
}

// List returns the whole corpus ordered by id.
func (s *KnowledgeService) List(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	return s.store.ListAll(ctx)
}

// Delete removes the record for a source. Deleting an absent source is
// not an error.
func (s *KnowledgeService) Delete(ctx context.Context, source string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return domain.NewDomainError(domain.ErrCodeValidation, "source is required")
	}
	return s.store.DeleteBySource(ctx, source)
}
