package service

import (
	"context"
	"io"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/openai"
	"github.com/berthonipasso/portfolio-api/internal/pagination"
	"github.com/berthonipasso/portfolio-api/internal/vision"
	"github.com/stretchr/testify/mock"
)

// MockKnowledgeStore is a mock implementation of KnowledgeStore
type MockKnowledgeStore struct {
	mock.Mock
}

func (m *MockKnowledgeStore) Upsert(ctx context.Context, k *domain.KnowledgeRecord) error {
	args := m.Called(ctx, k)
	return args.Error(0)
}

func (m *MockKnowledgeStore) GetBySource(ctx context.Context, source string) (*domain.KnowledgeRecord, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KnowledgeRecord), args.Error(1)
}

func (m *MockKnowledgeStore) ListAll(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.KnowledgeRecord), args.Error(1)
}

func (m *MockKnowledgeStore) DeleteBySource(ctx context.Context, source string) error {
	args := m.Called(ctx, source)
	return args.Error(0)
}

func (m *MockKnowledgeStore) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockKnowledgeStore) SearchByEmbedding(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error) {
	args := m.Called(ctx, embedding, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScoredRecord), args.Error(1)
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

func (m *MockEmbeddingClient) Dimensions() int {
	args := m.Called()
	return args.Int(0)
}

// MockGenerationClient is a mock implementation of GenerationClient
type MockGenerationClient struct {
	mock.Mock
}

func (m *MockGenerationClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *MockGenerationClient) GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan openai.StreamChunk, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan openai.StreamChunk), args.Error(1)
}

// MockRetriever is a mock implementation of Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error) {
	args := m.Called(ctx, embedding, k)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ScoredRecord), args.Error(1)
}

// MockTxRunner runs the transaction function directly against the given store
type MockTxRunner struct {
	store KnowledgeStore
}

func NewMockTxRunner(store KnowledgeStore) *MockTxRunner {
	return &MockTxRunner{store: store}
}

func (m *MockTxRunner) WithTx(ctx context.Context, fn func(repos TxRepositories) error) error {
	return fn(m)
}

func (m *MockTxRunner) Knowledge() KnowledgeStore {
	return m.store
}

// MockUUIDGenerator returns a fixed sequence of IDs
type MockUUIDGenerator struct {
	callCount int
	uuids     []string
}

func NewMockUUIDGenerator(uuids ...string) *MockUUIDGenerator {
	return &MockUUIDGenerator{uuids: uuids}
}

func (m *MockUUIDGenerator) NewString() string {
	if m.callCount < len(m.uuids) {
		id := m.uuids[m.callCount]
		m.callCount++
		return id
	}
	return "default-uuid"
}

// MockAdminRepository is a mock implementation of AdminRepositoryInterface
type MockAdminRepository struct {
	mock.Mock
}

func (m *MockAdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Admin), args.Error(1)
}

func (m *MockAdminRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAdminRepository) CreateToken(ctx context.Context, t *domain.AdminToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockAdminRepository) GetTokenByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminToken), args.Error(1)
}

func (m *MockAdminRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectRepository is a mock implementation of ProjectRepositoryInterface
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]*domain.Project, error) {
	args := m.Called(ctx, cursor, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, p *domain.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) AddImage(ctx context.Context, img *domain.ProjectImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockProjectRepository) ListImages(ctx context.Context, projectID string) ([]*domain.ProjectImage, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ProjectImage), args.Error(1)
}

func (m *MockProjectRepository) DeleteImage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockImageUploader is a mock implementation of ImageUploader
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, filename, contentType, body)
	return args.String(0), args.Error(1)
}

// MockInteractionRepository is a mock implementation of InteractionRepositoryInterface
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockInteractionRepository) ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func (m *MockInteractionRepository) CreateLike(ctx context.Context, l *domain.Like) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockInteractionRepository) CountLikes(ctx context.Context, targetType domain.LikeTarget, targetID string) (int64, error) {
	args := m.Called(ctx, targetType, targetID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInteractionRepository) HasLiked(ctx context.Context, targetType domain.LikeTarget, targetID, ipHash string) (bool, error) {
	args := m.Called(ctx, targetType, targetID, ipHash)
	return args.Bool(0), args.Error(1)
}

// MockMessageRepository is a mock implementation of MessageRepositoryInterface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockContactMailer is a mock implementation of ContactMailer
type MockContactMailer struct {
	mock.Mock
}

func (m *MockContactMailer) SendContactNotification(ctx context.Context, name, email, subject, message string) error {
	args := m.Called(ctx, name, email, subject, message)
	return args.Error(0)
}

// MockAnalyticsRepository is a mock implementation of AnalyticsRepositoryInterface
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) Create(ctx context.Context, e *domain.AnalyticsEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAnalyticsRepository) Summary(ctx context.Context, since int) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalyticsSummary), args.Error(1)
}

// MockFaceDetector is a mock implementation of FaceDetector
type MockFaceDetector struct {
	mock.Mock
}

func (m *MockFaceDetector) DetectEmotions(ctx context.Context, imageBytes []byte) (*vision.Detection, error) {
	args := m.Called(ctx, imageBytes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vision.Detection), args.Error(1)
}
