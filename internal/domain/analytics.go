package domain

import (
	"fmt"
	"regexp"
	"time"
)

// event types are alphanumeric identifiers like 'page_view' or 'cv_download'
var eventTypePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{1,100}$`)

// AnalyticsEvent is one anonymized usage event
type AnalyticsEvent struct {
	ID        string
	EventType string
	TargetID  string
	IPHash    string
	UserAgent string
	CreatedAt time.Time
}

// AnalyticsSummary aggregates events for the admin dashboard
type AnalyticsSummary struct {
	EventCounts    map[string]int64
	UniqueVisitors int64
	ProjectViews   map[string]int64
}

// DashboardTotals are the site-wide counters shown on the admin dashboard
type DashboardTotals struct {
	Projects         int64
	Comments         int64
	Likes            int64
	Messages         int64
	KnowledgeRecords int64
}

// ValidateAnalyticsEvent validates an AnalyticsEvent instance
func ValidateAnalyticsEvent(e *AnalyticsEvent) error {
	if e == nil {
		return fmt.Errorf("analytics event cannot be nil")
	}
	if e.ID == "" {
		return fmt.Errorf("analytics event ID is required")
	}
	if !eventTypePattern.MatchString(e.EventType) {
		return ErrInvalidEventType
	}
	return nil
}
