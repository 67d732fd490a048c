package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/openai"
	"github.com/berthonipasso/portfolio-api/internal/telemetry"
)

// FallbackAnswer is returned when the corpus holds nothing to ground an
// answer on. It is a fixed message, not a generation.
const FallbackAnswer = "Je suis l'assistant de Berthoni. La base de connaissances est actuellement vide, je ne peux pas encore répondre à vos questions sur son profil !"

// DefaultRetrieveK is how many passages ground an answer.
const DefaultRetrieveK = 3

// DefaultSystemPrompt frames the assistant persona when no custom prompt is
// configured. The retrieved passages are appended below it.
const DefaultSystemPrompt = "Tu es l'assistant personnel IA de Berthoni Passo sur son portfolio. " +
	"Réponds aux questions de manière concise, naturelle et directe, en un seul paragraphe de 1 à 3 phrases, " +
	"sans listes ni puces. Appuie-toi uniquement sur le contexte fourni ci-dessous."

// GenerationClient produces chat completions from an assembled prompt.
type GenerationClient interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string) (<-chan openai.StreamChunk, error)
}

// ChatService is the retrieval-augmented answering pipeline: embed the
// question, retrieve the closest passages, assemble a delimited context,
// and generate. Stateless across requests.
type ChatService struct {
	store        KnowledgeStore
	embedder     EmbeddingClient
	retriever    Retriever
	generator    GenerationClient
	systemPrompt string
	retrieveK    int
}

func NewChatService(store KnowledgeStore, embedder EmbeddingClient, retriever Retriever, generator GenerationClient, systemPrompt string, retrieveK int) *ChatService {
	if retrieveK <= 0 {
		retrieveK = DefaultRetrieveK
	}
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &ChatService{
		store:        store,
		embedder:     embedder,
		retriever:    retriever,
		generator:    generator,
		systemPrompt: systemPrompt,
		retrieveK:    retrieveK,
	}
}

// Answer runs the full pipeline and returns the generated answer verbatim.
func (s *ChatService) Answer(ctx context.Context, question string) (string, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.Answer", telemetry.SpanAttributes{
		Operation: "chat",
	})
	defer span.End()

	systemPrompt, proceed, err := s.prepare(ctx, question)
	if err != nil {
		span.SetError(err)
		return "", err
	}
	if !proceed {
		return FallbackAnswer, nil
	}

	answer, err := s.generator.Generate(ctx, systemPrompt, strings.TrimSpace(question))
	if err != nil {
		span.SetError(err)
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "generation provider failed", err)
	}
	return answer, nil
}

// AnswerStream runs the pipeline and relays generation chunks in arrival
// order. When the pipeline short-circuits to the fallback message, the
// returned channel carries it as a single chunk.
func (s *ChatService) AnswerStream(ctx context.Context, question string) (<-chan openai.StreamChunk, error) {
	ctx, span := telemetry.StartSpan(ctx, "ChatService.AnswerStream", telemetry.SpanAttributes{
		Operation: "chat_stream",
	})
	defer span.End()

	systemPrompt, proceed, err := s.prepare(ctx, question)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if !proceed {
		ch := make(chan openai.StreamChunk, 1)
		ch <- openai.StreamChunk{Text: FallbackAnswer}
		close(ch)
		return ch, nil
	}

	stream, err := s.generator.GenerateStream(ctx, systemPrompt, strings.TrimSpace(question))
	if err != nil {
		span.SetError(err)
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeGeneration, "generation provider failed", err)
	}
	return stream, nil
}

// prepare validates the question and assembles the system prompt with the
// retrieved context. proceed is false when the pipeline should return the
// fallback message instead of calling the generator.
func (s *ChatService) prepare(ctx context.Context, question string) (systemPrompt string, proceed bool, err error) {
	if strings.TrimSpace(question) == "" {
		return "", false, domain.ErrEmptyQuestion
	}

	// An empty corpus short-circuits before any provider call.
	count, err := s.store.Count(ctx)
	if err != nil {
		return "", false, err
	}
	if count == 0 {
		return "", false, nil
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, question)
	if err != nil {
		return "", false, domain.NewDomainErrorWithCause(domain.ErrCodeEmbedding, "embedding provider failed", err)
	}

	scored, err := s.retriever.Retrieve(ctx, embedding, s.retrieveK)
	if err != nil {
		return "", false, err
	}
	if len(scored) == 0 {
		return "", false, nil
	}

	return s.systemPrompt + "\n\n" + assembleContext(scored), true, nil
}

// assembleContext formats retrieved passages closest first, each tagged
// with its source, inside explicit delimiters so context is never read as
// instructions.
func assembleContext(scored []*domain.ScoredRecord) string {
	var b strings.Builder
	b.WriteString("<context>\n")
	for _, s := range scored {
		fmt.Fprintf(&b, "[%s] %s\n", s.Record.Source, s.Record.Content)
	}
	b.WriteString("</context>")
	return b.String()
}
