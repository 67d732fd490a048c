package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/berthonipasso/portfolio-api/internal/telemetry"
)

type InteractionRepositoryInterface interface {
	CreateComment(ctx context.Context, c *domain.Comment) error
	ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error)
	CreateLike(ctx context.Context, l *domain.Like) error
	CountLikes(ctx context.Context, targetType domain.LikeTarget, targetID string) (int64, error)
	HasLiked(ctx context.Context, targetType domain.LikeTarget, targetID, ipHash string) (bool, error)
}

type MessageRepositoryInterface interface {
	Create(ctx context.Context, m *domain.Message) error
}

// ContactMailer sends the notification email for a contact form message.
type ContactMailer interface {
	SendContactNotification(ctx context.Context, name, email, subject, message string) error
}

type InteractionService struct {
	interactionRepo InteractionRepositoryInterface
	messageRepo     MessageRepositoryInterface
	mailer          ContactMailer
	uuidGen         UUIDGenerator
}

// NewInteractionService creates an InteractionService. mailer may be nil
// when no email provider is configured; messages are still persisted.
func NewInteractionService(interactionRepo InteractionRepositoryInterface, messageRepo MessageRepositoryInterface, mailer ContactMailer) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		messageRepo:     messageRepo,
		mailer:          mailer,
		uuidGen:         &DefaultUUIDGenerator{},
	}
}

func NewInteractionServiceWithUUIDGen(interactionRepo InteractionRepositoryInterface, messageRepo MessageRepositoryInterface, mailer ContactMailer, uuidGen UUIDGenerator) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		messageRepo:     messageRepo,
		mailer:          mailer,
		uuidGen:         uuidGen,
	}
}

func (s *InteractionService) AddComment(ctx context.Context, projectID, authorName, content string) (*domain.Comment, error) {
	comment := &domain.Comment{
		ID:         s.uuidGen.NewString(),
		ProjectID:  projectID,
		AuthorName: authorName,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
	}
	if err := domain.ValidateComment(comment); err != nil {
		return nil, err
	}
	if err := s.interactionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *InteractionService) ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	return s.interactionRepo.ListComments(ctx, projectID)
}

// Like records one like per (target, visitor) pair. The visitor address is
// stored only as a sha256 hash. A repeat like returns ErrAlreadyLiked.
func (s *InteractionService) Like(ctx context.Context, targetType domain.LikeTarget, targetID, clientIP string) (int64, error) {
	like := &domain.Like{
		ID:         s.uuidGen.NewString(),
		TargetType: targetType,
		TargetID:   targetID,
		IPHash:     HashIP(clientIP),
		CreatedAt:  time.Now().UTC(),
	}
	if err := domain.ValidateLike(like); err != nil {
		return 0, err
	}

	// Cheap duplicate check first; the unique index still catches races.
	liked, err := s.interactionRepo.HasLiked(ctx, targetType, targetID, like.IPHash)
	if err != nil {
		return 0, err
	}
	if liked {
		return 0, domain.ErrAlreadyLiked
	}

	if err := s.interactionRepo.CreateLike(ctx, like); err != nil {
		return 0, err
	}
	return s.interactionRepo.CountLikes(ctx, targetType, targetID)
}

func (s *InteractionService) CountLikes(ctx context.Context, targetType domain.LikeTarget, targetID string) (int64, error) {
	return s.interactionRepo.CountLikes(ctx, targetType, targetID)
}

// Contact persists the message, then sends the notification email. Email
// failure is logged and does not fail the request.
func (s *InteractionService) Contact(ctx context.Context, name, email, subject, content string) (*domain.Message, error) {
	ctx, span := telemetry.StartSpan(ctx, "InteractionService.Contact", telemetry.SpanAttributes{
		Operation: "contact",
	})
	defer span.End()

	message := &domain.Message{
		ID:      s.uuidGen.NewString(),
		Name:    name,
		Email:   email,
		Subject: subject,
		Content: content,
		SentAt:  time.Now().UTC(),
	}
	if err := domain.ValidateMessage(message); err != nil {
		span.SetError(err)
		return nil, err
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		span.SetError(err)
		return nil, err
	}

	if s.mailer != nil {
		if err := s.mailer.SendContactNotification(ctx, name, email, subject, content); err != nil {
			log.Printf("contact notification email failed: %v", err)
			telemetry.CaptureError(ctx, err)
		}
	}
	return message, nil
}

// HashIP anonymizes a client address with sha256 before storage.
func HashIP(ip string) string {
	h := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(h[:])
}
