package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockJobProcessor is a mock implementation of JobProcessor
type MockJobProcessor struct {
	mock.Mock
}

func (m *MockJobProcessor) ProcessJobs(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockKnowledgeStore is a mock implementation of KnowledgeStore
type MockKnowledgeStore struct {
	mock.Mock
}

func (m *MockKnowledgeStore) ListMissingEmbeddings(ctx context.Context, limit int) ([]*domain.KnowledgeRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeRecord), args.Error(1)
}

func (m *MockKnowledgeStore) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	args := m.Called(ctx, id, embedding)
	return args.Error(0)
}

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// TestWorker_StartStop tests the worker start and stop functionality
func TestWorker_StartStop(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 100*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	// Let it tick at least once
	time.Sleep(250 * time.Millisecond)

	worker.Stop()
	wg.Wait()

	mockProcessor.AssertCalled(t, "ProcessJobs", mock.Anything)
}

// TestWorker_ContextCancellation tests worker shutdown via context
func TestWorker_ContextCancellation(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(nil)

	worker := NewWorker(mockProcessor, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}

// TestWorker_ProcessorErrors tests that processor errors do not stop the loop
func TestWorker_ProcessorErrors(t *testing.T) {
	mockProcessor := new(MockJobProcessor)
	mockProcessor.On("ProcessJobs", mock.Anything).Return(errors.New("transient failure"))

	worker := NewWorker(mockProcessor, 50*time.Millisecond)

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Start(ctx)
	}()

	time.Sleep(180 * time.Millisecond)
	worker.Stop()
	wg.Wait()

	assert.GreaterOrEqual(t, len(mockProcessor.Calls), 2)
}

func TestBackfillWorker_ProcessJobs(t *testing.T) {
	ctx := context.Background()
	embedding := []float32{0.1, 0.2}

	t.Run("embeds and stores each unembedded record", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockEmbedder := new(MockEmbeddingClient)
		worker := NewBackfillWorker(mockStore, mockEmbedder)

		mockStore.On("ListMissingEmbeddings", mock.Anything, BackfillBatchSize).Return([]*domain.KnowledgeRecord{
			{ID: "k1", Source: "cv", Content: "Pipelines in Fabric."},
			{ID: "k2", Source: "bio", Content: "Based in Paris."},
		}, nil)
		mockEmbedder.On("GenerateEmbedding", mock.Anything, "Pipelines in Fabric.").Return(embedding, nil)
		mockEmbedder.On("GenerateEmbedding", mock.Anything, "Based in Paris.").Return(embedding, nil)
		mockStore.On("UpdateEmbedding", mock.Anything, "k1", embedding).Return(nil)
		mockStore.On("UpdateEmbedding", mock.Anything, "k2", embedding).Return(nil)

		err := worker.ProcessJobs(ctx)

		require.NoError(t, err)
		mockStore.AssertExpectations(t)
		mockEmbedder.AssertExpectations(t)
	})

	t.Run("nothing to do is not an error", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockEmbedder := new(MockEmbeddingClient)
		worker := NewBackfillWorker(mockStore, mockEmbedder)

		mockStore.On("ListMissingEmbeddings", mock.Anything, BackfillBatchSize).Return([]*domain.KnowledgeRecord{}, nil)

		err := worker.ProcessJobs(ctx)

		require.NoError(t, err)
		mockEmbedder.AssertNotCalled(t, "GenerateEmbedding", mock.Anything, mock.Anything)
	})

	t.Run("one failing record does not block the rest", func(t *testing.T) {
		mockStore := new(MockKnowledgeStore)
		mockEmbedder := new(MockEmbeddingClient)
		worker := NewBackfillWorker(mockStore, mockEmbedder)

		mockStore.On("ListMissingEmbeddings", mock.Anything, BackfillBatchSize).Return([]*domain.KnowledgeRecord{
			{ID: "k1", Source: "cv", Content: "Pipelines in Fabric."},
			{ID: "k2", Source: "bio", Content: "Based in Paris."},
		}, nil)
		mockEmbedder.On("GenerateEmbedding", mock.Anything, "Pipelines in Fabric.").Return(nil, errors.New("quota"))
		mockEmbedder.On("GenerateEmbedding", mock.Anything, "Based in Paris.").Return(embedding, nil)
		mockStore.On("UpdateEmbedding", mock.Anything, "k2", embedding).Return(nil)

		err := worker.ProcessJobs(ctx)

		require.NoError(t, err)
		mockStore.AssertNotCalled(t, "UpdateEmbedding", mock.Anything, "k1", mock.Anything)
		mockStore.AssertCalled(t, "UpdateEmbedding", mock.Anything, "k2", embedding)
	})
}
