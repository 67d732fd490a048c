//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/api/handlers"
	"github.com/berthonipasso/portfolio-api/internal/openai"
	"github.com/berthonipasso/portfolio-api/internal/repository"
	"github.com/berthonipasso/portfolio-api/internal/server"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/berthonipasso/portfolio-api/internal/testutil"
	"github.com/berthonipasso/portfolio-api/internal/vision"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "e2e-test-password"
)

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	BinaryDir    string
	AuthToken    string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with a container and server
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// Bootstrap creates the admin account and logs in to obtain a bearer token
func (e *E2ETestEnv) Bootstrap() {
	adminRepo := repository.NewAdminRepository(e.Pool)
	authSvc := service.NewAuthService(adminRepo)

	if _, err := authSvc.CreateAdmin(e.Ctx, "admin", adminEmail, adminPassword); err != nil {
		e.T.Fatalf("failed to create admin: %v", err)
	}

	resp, err := e.Post("/api/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	}, "")
	if err != nil {
		e.T.Fatalf("failed to log in: %v", err)
	}

	var loginData struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &loginData); err != nil {
		e.T.Fatalf("failed to parse login response: %v", err)
	}
	e.AuthToken = loginData.Token
}

// BuildBinaries builds the portfoliod and portfolioctl binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "portfolio-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "portfoliod"), "./cmd/portfoliod")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build portfoliod: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "portfolioctl"), "./cmd/portfolioctl")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build portfolioctl: %v\n%s", err, out)
	}
}

// RunPortfolioctl runs the portfolioctl CLI command
func (e *E2ETestEnv) RunPortfolioctl(workDir string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "portfolioctl"), args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("PORTFOLIO_API_TOKEN=%s", e.AuthToken),
		fmt.Sprintf("PORTFOLIO_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// RunPortfolioctlWithInput runs the portfolioctl CLI command with stdin input
func (e *E2ETestEnv) RunPortfolioctlWithInput(workDir string, input string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "portfolioctl"), args...)
	cmd.Dir = workDir
	cmd.Stdin = bytes.NewReader([]byte(input))
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("PORTFOLIO_API_TOKEN=%s", e.AuthToken),
		fmt.Sprintf("PORTFOLIO_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path, authToken string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, authToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, authToken)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path, authToken string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, authToken)
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, authToken string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNoContent || resp.StatusCode == http.StatusAccepted {
		return &APIResponse{}, nil
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// PostSSE performs a POST request and collects the SSE data payloads
func (e *E2ETestEnv) PostSSE(path string, body interface{}) ([]string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST", e.ServerURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var payloads []string
	for _, line := range bytes.Split(raw, []byte("\n")) {
		if bytes.HasPrefix(line, []byte("data: ")) {
			payloads = append(payloads, string(bytes.TrimPrefix(line, []byte("data: "))))
		}
	}
	return payloads, nil
}

// startServer starts the HTTP server with all handlers wired to stub AI providers
func startServer(t *testing.T, pool *pgxpool.Pool, port int) (string, func()) {
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	embedder := &stubEmbedder{}
	authSvc := service.NewAuthService(adminRepo)
	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo, embedder, txRunner)
	retriever := service.NewVectorRetriever(knowledgeRepo)
	chatSvc := service.NewChatService(knowledgeRepo, embedder, retriever, &stubGenerator{}, "", 3)
	projectSvc := service.NewProjectService(projectRepo, &stubUploader{})
	interactionSvc := service.NewInteractionService(interactionRepo, messageRepo, nil)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)
	emotionSvc := service.NewEmotionService(&stubDetector{})

	cfg := server.RouterConfig{
		TokenValidator:     authSvc,
		AllowedOrigins:     []string{"http://localhost:3000"},
		RAGHandler:         handlers.NewRAGHandler(knowledgeSvc),
		ChatHandler:        handlers.NewChatHandler(chatSvc),
		AuthHandler:        handlers.NewAuthHandler(authSvc),
		ProjectHandler:     handlers.NewProjectHandler(projectSvc),
		InteractionHandler: handlers.NewInteractionHandler(interactionSvc),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(analyticsSvc),
		EmotionHandler:     handlers.NewEmotionHandler(emotionSvc),
		DashboardHandler:   handlers.NewDashboardHandler(statsRepo),
	}

	router := server.NewRouter(cfg)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

// stubEmbedder derives a deterministic 512-dim unit vector from the text,
// so identical texts always land on identical embeddings and retrieval
// stays reproducible without an external API.
type stubEmbedder struct{}

func (s *stubEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	seed := sha256.Sum256([]byte(text))
	v := make([]float32, 512)
	var norm float64
	for i := range v {
		word := binary.BigEndian.Uint32(seed[(i*4)%28 : (i*4)%28+4])
		v[i] = float32(word%1000)/1000 - 0.5 + float32(i%7)/100
		norm += float64(v[i]) * float64(v[i])
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v, nil
}

func (s *stubEmbedder) Dimensions() int {
	return 512
}

// stubGenerator returns a canned answer derived from the assembled context
type stubGenerator struct{}

func (s *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return fmt.Sprintf("Stub answer (%d chars of context)", len(userPrompt)), nil
}

func (s *stubGenerator) GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan openai.StreamChunk, error) {
	ch := make(chan openai.StreamChunk, 2)
	ch <- openai.StreamChunk{Text: "Stub "}
	ch <- openai.StreamChunk{Text: "answer"}
	close(ch)
	return ch, nil
}

// stubUploader pretends images went to object storage
type stubUploader struct{}

func (s *stubUploader) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + filename, nil
}

// stubDetector always finds one happy face
type stubDetector struct{}

func (s *stubDetector) DetectEmotions(ctx context.Context, imageBytes []byte) (*vision.Detection, error) {
	dominant := vision.Emotion{Type: "HAPPY", Confidence: 99.0}
	return &vision.Detection{
		Dominant:      &dominant,
		Emotions:      []vision.Emotion{dominant},
		FacesDetected: 1,
	}, nil
}
