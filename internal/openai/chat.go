package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the OpenAI model used for answer generation
	DefaultChatModel = openai.GPT4oMini
	// DefaultGenerationTimeout bounds a single generation call
	DefaultGenerationTimeout = 30 * time.Second
	// Low temperature keeps answers grounded in the retrieved context
	chatTemperature = 0.3
	chatMaxTokens   = 500
)

// ErrNoChoices is returned when the provider responds without any completion
var ErrNoChoices = errors.New("no completion choices returned")

// StreamChunk is one fragment of a streamed answer. A chunk with Err set is
// terminal; fragments already delivered are not retracted.
type StreamChunk struct {
	Text string
	Err  error
}

// ChatAPI defines the interface for chat completion calls
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionStream, error)
}

// ChatClient wraps the OpenAI chat completion API
type ChatClient struct {
	api     ChatAPI
	model   string
	timeout time.Duration
}

type ChatConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewChatClient creates a new chat client using defaults
func NewChatClient(apiKey string) *ChatClient {
	return NewChatClientWithConfig(ChatConfig{APIKey: apiKey})
}

// NewChatClientWithConfig creates a new chat client with explicit configuration
func NewChatClientWithConfig(cfg ChatConfig) *ChatClient {
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &ChatClient{
		api:     openai.NewClient(cfg.APIKey),
		model:   model,
		timeout: timeout,
	}
}

func (c *ChatClient) request(systemPrompt, userPrompt string, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
		Stream:      stream,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
}

// Generate produces a complete answer for the given prompts
func (c *ChatClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, c.request(systemPrompt, userPrompt, false))
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

// GenerateStream produces the answer as a finite sequence of fragments in
// arrival order. The returned channel is closed when the stream ends; a
// mid-stream failure is delivered as a final chunk with Err set.
func (c *ChatClient) GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan StreamChunk, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	stream, err := c.api.CreateChatCompletionStream(ctx, c.request(systemPrompt, userPrompt, true))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open chat completion stream: %w", err)
	}

	out := make(chan StreamChunk)
	go func() {
		defer close(out)
		defer cancel()
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case out <- StreamChunk{Err: fmt.Errorf("chat completion stream failed: %w", err)}:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			delta := resp.Choices[0].Delta.Content
			if delta == "" {
				continue
			}
			select {
			case out <- StreamChunk{Text: delta}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
