package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// RetrieverKind selects the retrieval backend.
type RetrieverKind string

const (
	RetrieverPgvector RetrieverKind = "pgvector"
	RetrieverLinear   RetrieverKind = "linear"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`

	OpenAIAPIKey        string        `envconfig:"OPENAI_API_KEY"`
	EmbeddingDimensions int           `envconfig:"EMBEDDING_DIMENSIONS" default:"512"`
	EmbeddingTimeout    time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"10s"`
	GenerationTimeout   time.Duration `envconfig:"GENERATION_TIMEOUT" default:"30s"`

	Retriever  RetrieverKind `envconfig:"RETRIEVER" default:"pgvector"`
	RetrieveK  int           `envconfig:"RETRIEVE_K" default:"3"`

	SystemPrompt string `envconfig:"SYSTEM_PROMPT"`

	AWSRegion            string `envconfig:"AWS_REGION" default:"eu-west-3"`
	RekognitionRegion    string `envconfig:"REKOGNITION_REGION" default:"eu-west-1"`
	S3Bucket             string `envconfig:"S3_BUCKET" default:"portfolio-assets"`
	S3AccessKey          string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey          string `envconfig:"S3_SECRET_ACCESS_KEY"`
	SESSenderEmail       string `envconfig:"SES_SENDER_EMAIL"`
	SESRecipientEmail    string `envconfig:"SES_RECIPIENT_EMAIL"`

	// Bootstrap: create the initial admin account on startup
	InitAdminEmail    string `envconfig:"INIT_ADMIN_EMAIL"`
	InitAdminPassword string `envconfig:"INIT_ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("PORTFOLIO", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasS3() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasSES() bool {
	return c.SESSenderEmail != "" && c.SESRecipientEmail != ""
}
