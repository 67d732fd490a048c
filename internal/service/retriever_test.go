package service

import (
	"context"
	"testing"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func record(id, source string, embedding []float32) *domain.KnowledgeRecord {
	return &domain.KnowledgeRecord{
		ID:        id,
		Source:    source,
		Content:   "content for " + source,
		Embedding: embedding,
		CreatedAt: time.Now().UTC(),
	}
}

func TestLinearRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by ascending cosine distance", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{
			record("k1", "far", []float32{0, 1, 0}),
			record("k2", "near", []float32{1, 0, 0}),
			record("k3", "mid", []float32{1, 1, 0}),
		}, nil)

		retriever := NewLinearRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0, 0}, 3)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "near", results[0].Record.Source)
		assert.Equal(t, "mid", results[1].Record.Source)
		assert.Equal(t, "far", results[2].Record.Source)
		assert.InDelta(t, 0, results[0].Distance, 1e-6)
		assert.InDelta(t, 1, results[2].Distance, 1e-6)
	})

	t.Run("truncates to k results", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{
			record("k1", "a", []float32{1, 0}),
			record("k2", "b", []float32{0.9, 0.1}),
			record("k3", "c", []float32{0, 1}),
			record("k4", "d", []float32{0.5, 0.5}),
		}, nil)

		retriever := NewLinearRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0}, 2)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "a", results[0].Record.Source)
		assert.Equal(t, "b", results[1].Record.Source)
	})

	t.Run("breaks distance ties by id ascending", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{
			record("k9", "later", []float32{1, 0}),
			record("k1", "earlier", []float32{1, 0}),
		}, nil)

		retriever := NewLinearRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0}, 2)

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "k1", results[0].Record.ID)
		assert.Equal(t, "k9", results[1].Record.ID)
	})

	t.Run("skips records without embeddings", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{
			record("k1", "seeded", nil),
			record("k2", "embedded", []float32{1, 0}),
		}, nil)

		retriever := NewLinearRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0}, 3)

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "k2", results[0].Record.ID)
	})

	t.Run("empty store returns empty slice, not an error", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{}, nil)

		retriever := NewLinearRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0}, 3)

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestVectorRetriever_Retrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to store search", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		expected := []*domain.ScoredRecord{
			{Record: record("k1", "cv", []float32{1, 0}), Distance: 0.2},
		}
		mockStore.On("SearchByEmbedding", mock.Anything, []float32{1, 0}, 3).Return(expected, nil)

		retriever := NewVectorRetriever(mockStore)
		results, err := retriever.Retrieve(ctx, []float32{1, 0}, 3)

		require.NoError(t, err)
		assert.Equal(t, expected, results)
		mockStore.AssertExpectations(t)
	})
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0, cosineDistance([]float32{1, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 1, cosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	// a zero vector has no direction: maximally distant on either side
	assert.InDelta(t, 2, cosineDistance([]float32{0, 0}, []float32{1, 0}), 1e-6)
	assert.InDelta(t, 2, cosineDistance([]float32{1, 0}, []float32{0, 0}), 1e-6)
}

func TestLinearRetriever_ZeroVectorRanksLast(t *testing.T) {
	mockStore := new(MockKnowledgeStore)
	mockStore.On("ListAll", mock.Anything).Return([]*domain.KnowledgeRecord{
		record("k1", "zero", []float32{0, 0}),
		record("k2", "orthogonal", []float32{0, 1}),
	}, nil)

	retriever := NewLinearRetriever(mockStore)
	results, err := retriever.Retrieve(context.Background(), []float32{1, 0}, 2)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "orthogonal", results[0].Record.Source)
	assert.Equal(t, "zero", results[1].Record.Source)
}
