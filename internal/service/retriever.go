package service

import (
	"context"
	"math"
	"sort"

	"github.com/berthonipasso/portfolio-api/internal/domain"
)

// Retriever finds the k corpus records closest to a query embedding,
// ordered by ascending cosine distance with id as tie-break.
type Retriever interface {
	Retrieve(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error)
}

// VectorRetriever delegates nearest-neighbour search to the database
// index. This is the default.
type VectorRetriever struct {
	store KnowledgeStore
}

func NewVectorRetriever(store KnowledgeStore) *VectorRetriever {
	return &VectorRetriever{store: store}
}

func (r *VectorRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error) {
	return r.store.SearchByEmbedding(ctx, embedding, k)
}

// LinearRetriever loads the whole corpus and scores it in process. Exact
// but O(n); only sensible for small corpora.
type LinearRetriever struct {
	store KnowledgeStore
}

func NewLinearRetriever(store KnowledgeStore) *LinearRetriever {
	return &LinearRetriever{store: store}
}

func (r *LinearRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error) {
	if k <= 0 {
		k = 3
	}

	records, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]*domain.ScoredRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Embedding) == 0 || len(rec.Embedding) != len(embedding) {
			continue
		}
		scored = append(scored, &domain.ScoredRecord{
			Record:   rec,
			Distance: cosineDistance(embedding, rec.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Distance != scored[j].Distance {
			return scored[i].Distance < scored[j].Distance
		}
		return scored[i].Record.ID < scored[j].Record.ID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// cosineDistance returns 1 - cos(a, b), ranging 0 (identical direction)
// to 2 (opposite). Zero vectors carry no direction and are treated as
// maximally distant so they always rank last.
func cosineDistance(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return float32(1 - dot/(math.Sqrt(normA)*math.Sqrt(normB)))
}
