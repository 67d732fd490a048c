package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/berthonipasso/portfolio-api/internal/domain"
)

const maxUserAgentLength = 300

type AnalyticsRepositoryInterface interface {
	Create(ctx context.Context, e *domain.AnalyticsEvent) error
	Summary(ctx context.Context, since int) (*domain.AnalyticsSummary, error)
}

type AnalyticsService struct {
	analyticsRepo AnalyticsRepositoryInterface
	uuidGen       UUIDGenerator
}

func NewAnalyticsService(analyticsRepo AnalyticsRepositoryInterface) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, uuidGen: &DefaultUUIDGenerator{}}
}

func NewAnalyticsServiceWithUUIDGen(analyticsRepo AnalyticsRepositoryInterface, uuidGen UUIDGenerator) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo, uuidGen: uuidGen}
}

// Record stores one anonymized event. The client address is sha256-hashed
// and the user agent truncated before persistence.
func (s *AnalyticsService) Record(ctx context.Context, eventType, targetID, clientIP, userAgent string) error {
	userAgent = truncateValidUTF8(userAgent, maxUserAgentLength)

	event := &domain.AnalyticsEvent{
		ID:        s.uuidGen.NewString(),
		EventType: eventType,
		TargetID:  targetID,
		IPHash:    HashIP(clientIP),
		UserAgent: userAgent,
		CreatedAt: time.Now().UTC(),
	}
	if err := domain.ValidateAnalyticsEvent(event); err != nil {
		return err
	}
	return s.analyticsRepo.Create(ctx, event)
}

// truncateValidUTF8 caps s at max bytes without splitting a rune and
// strips any invalid byte sequences, so the stored value is always valid
// UTF-8 even for hostile headers.
func truncateValidUTF8(s string, max int) string {
	if len(s) > max {
		s = s[:max]
	}
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "")
}

// Summary aggregates the last `days` days for the admin dashboard.
func (s *AnalyticsService) Summary(ctx context.Context, days int) (*domain.AnalyticsSummary, error) {
	if days <= 0 {
		days = 30
	}
	return s.analyticsRepo.Summary(ctx, days)
}
