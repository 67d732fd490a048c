package admin

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/api/handlers"
	"github.com/berthonipasso/portfolio-api/internal/config"
	"github.com/berthonipasso/portfolio-api/internal/database"
	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/jobs"
	"github.com/berthonipasso/portfolio-api/internal/mail"
	"github.com/berthonipasso/portfolio-api/internal/openai"
	"github.com/berthonipasso/portfolio-api/internal/repository"
	"github.com/berthonipasso/portfolio-api/internal/server"
	"github.com/berthonipasso/portfolio-api/internal/service"
	"github.com/berthonipasso/portfolio-api/internal/storage"
	"github.com/berthonipasso/portfolio-api/internal/telemetry"
	"github.com/berthonipasso/portfolio-api/internal/vision"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the portfolio API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	interactionRepo := repository.NewInteractionRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	authSvc := service.NewAuthService(adminRepo)

	if cfg.InitAdminEmail != "" && cfg.InitAdminPassword != "" {
		if err := bootstrapInitialAdmin(ctx, cfg, adminRepo, authSvc); err != nil {
			return fmt.Errorf("failed to bootstrap initial admin: %w", err)
		}
	}

	var embeddingClient service.EmbeddingClient
	var generationClient service.GenerationClient
	if cfg.HasOpenAI() {
		embeddingClient = openai.NewClientWithConfig(openai.Config{
			APIKey:              cfg.OpenAIAPIKey,
			EmbeddingDimensions: cfg.EmbeddingDimensions,
			Timeout:             cfg.EmbeddingTimeout,
		})
		generationClient = openai.NewChatClientWithConfig(openai.ChatConfig{
			APIKey:  cfg.OpenAIAPIKey,
			Timeout: cfg.GenerationTimeout,
		})
	} else {
		embeddingClient = &NoOpEmbeddingClient{}
		generationClient = &NoOpGenerationClient{}
		log.Println("OPENAI_API_KEY not set: chat and ingestion are disabled")
	}

	var retriever service.Retriever
	switch cfg.Retriever {
	case config.RetrieverLinear:
		retriever = service.NewLinearRetriever(knowledgeRepo)
		log.Println("using linear retriever")
	default:
		retriever = service.NewVectorRetriever(knowledgeRepo)
	}

	var backfillWorker *jobs.Worker
	if cfg.HasOpenAI() {
		backfillProcessor := jobs.NewBackfillWorker(knowledgeRepo, embeddingClient)
		backfillWorker = jobs.NewWorker(backfillProcessor, 30*time.Second)
		go backfillWorker.Start(ctx)
		log.Println("embedding backfill worker started")
	}

	var uploader service.ImageUploader
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		uploader = s3Client
		log.Printf("S3 uploads enabled (bucket %s)", cfg.S3Bucket)
	} else {
		uploader = &NoOpImageUploader{}
	}

	var mailer service.ContactMailer
	if cfg.HasSES() {
		sesClient, err := mail.NewClient(ctx, mail.ClientConfig{
			Region:    cfg.AWSRegion,
			Sender:    cfg.SESSenderEmail,
			Recipient: cfg.SESRecipientEmail,
		})
		if err != nil {
			return fmt.Errorf("failed to create SES client: %w", err)
		}
		mailer = sesClient
		log.Println("contact notifications enabled")
	}

	detector, err := vision.NewClient(ctx, vision.ClientConfig{
		Region:          cfg.RekognitionRegion,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Rekognition client: %w", err)
	}

	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo, embeddingClient, txRunner)
	chatSvc := service.NewChatService(knowledgeRepo, embeddingClient, retriever, generationClient, cfg.SystemPrompt, cfg.RetrieveK)
	projectSvc := service.NewProjectService(projectRepo, uploader)
	interactionSvc := service.NewInteractionService(interactionRepo, messageRepo, mailer)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)
	emotionSvc := service.NewEmotionService(detector)

	routerCfg := server.RouterConfig{
		TokenValidator:     authSvc,
		AllowedOrigins:     cfg.AllowedOrigins,
		RAGHandler:         handlers.NewRAGHandler(knowledgeSvc),
		ChatHandler:        handlers.NewChatHandler(chatSvc),
		AuthHandler:        handlers.NewAuthHandler(authSvc),
		ProjectHandler:     handlers.NewProjectHandler(projectSvc),
		InteractionHandler: handlers.NewInteractionHandler(interactionSvc),
		AnalyticsHandler:   handlers.NewAnalyticsHandler(analyticsSvc),
		EmotionHandler:     handlers.NewEmotionHandler(emotionSvc),
		DashboardHandler:   handlers.NewDashboardHandler(statsRepo),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	go pruneTokensLoop(ctx, authSvc)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if backfillWorker != nil {
		backfillWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// pruneTokensLoop deletes expired admin tokens once an hour.
func pruneTokensLoop(ctx context.Context, authSvc *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := authSvc.PruneExpiredTokens(ctx); err != nil {
				log.Printf("token prune failed: %v", err)
			}
		}
	}
}

type NoOpEmbeddingClient struct{}

func (c *NoOpEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding provider not configured: OPENAI_API_KEY required")
}

func (c *NoOpEmbeddingClient) Dimensions() int {
	return 0
}

type NoOpGenerationClient struct{}

func (c *NoOpGenerationClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return "", fmt.Errorf("generation provider not configured: OPENAI_API_KEY required")
}

func (c *NoOpGenerationClient) GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan openai.StreamChunk, error) {
	return nil, fmt.Errorf("generation provider not configured: OPENAI_API_KEY required")
}

type NoOpImageUploader struct{}

func (u *NoOpImageUploader) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	return "", fmt.Errorf("image storage not configured: S3_ACCESS_KEY_ID required")
}

func bootstrapInitialAdmin(ctx context.Context, cfg *config.Config, adminRepo *repository.AdminRepository, authSvc *service.AuthService) error {
	count, err := adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		log.Println("bootstrap: admin account already exists")
		return nil
	}

	admin, err := authSvc.CreateAdmin(ctx, "admin", cfg.InitAdminEmail, cfg.InitAdminPassword)
	if err != nil {
		if err == domain.ErrAdminAlreadyExists {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	log.Printf("bootstrap: created admin account '%s' (id: %s)", admin.Email, admin.ID)
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", upErr)
	}

	version, dirty, versionErr := m.Version()
	if versionErr != nil && versionErr != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", versionErr)
	}

	status, err := migrationStatus(upErr, versionErr, version, dirty)
	if err != nil {
		return err
	}
	log.Println(status)

	return nil
}

// migrationStatus reduces the Up/Version outcomes to a single log line. The
// Up error decides between "applied" and "up to date"; Version only reports
// where the schema landed.
func migrationStatus(upErr, versionErr error, version uint, dirty bool) (string, error) {
	if versionErr == migrate.ErrNilVersion {
		return "migrations: database is up to date (no migrations applied)", nil
	}
	if dirty {
		return "", fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	}
	if upErr == migrate.ErrNoChange {
		return fmt.Sprintf("migrations: database is up to date (version %d)", version), nil
	}
	return fmt.Sprintf("migrations: applied successfully (version %d)", version), nil
}
