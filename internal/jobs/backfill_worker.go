package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/berthonipasso/portfolio-api/internal/domain"
)

// BackfillBatchSize caps how many records one tick embeds.
const BackfillBatchSize = 10

// KnowledgeStore is the slice of the knowledge repository the backfill
// worker needs: seeded rows without embeddings, and embedding writes.
type KnowledgeStore interface {
	ListMissingEmbeddings(ctx context.Context, limit int) ([]*domain.KnowledgeRecord, error)
	UpdateEmbedding(ctx context.Context, id string, embedding []float32) error
}

// EmbeddingClient turns content into a vector.
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// BackfillWorker embeds seeded knowledge rows that landed without an
// embedding. Synchronous API ingestion never produces such rows; only
// bulk imports do. Failures are logged and retried on the next tick.
type BackfillWorker struct {
	store    KnowledgeStore
	embedder EmbeddingClient
}

// NewBackfillWorker creates a new BackfillWorker instance
func NewBackfillWorker(store KnowledgeStore, embedder EmbeddingClient) *BackfillWorker {
	return &BackfillWorker{
		store:    store,
		embedder: embedder,
	}
}

// ProcessJobs implements the JobProcessor interface
func (w *BackfillWorker) ProcessJobs(ctx context.Context) error {
	records, err := w.store.ListMissingEmbeddings(ctx, BackfillBatchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch unembedded records: %w", err)
	}

	if len(records) == 0 {
		return nil
	}

	log.Printf("Backfilling embeddings for %d knowledge records", len(records))

	for _, record := range records {
		if err := w.processRecord(ctx, record); err != nil {
			log.Printf("Error backfilling record %s (%s): %v", record.ID, record.Source, err)
		}
	}

	return nil
}

func (w *BackfillWorker) processRecord(ctx context.Context, record *domain.KnowledgeRecord) error {
	embedding, err := w.embedder.GenerateEmbedding(ctx, record.Content)
	if err != nil {
		return fmt.Errorf("embedding failed: %w", err)
	}

	if err := w.store.UpdateEmbedding(ctx, record.ID, embedding); err != nil {
		return fmt.Errorf("failed to store embedding: %w", err)
	}

	log.Printf("Backfilled embedding for record %s (%s)", record.ID, record.Source)
	return nil
}
