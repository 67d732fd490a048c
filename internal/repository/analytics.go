package repository

import (
	"context"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool}
}

func (r *AnalyticsRepository) Create(ctx context.Context, e *domain.AnalyticsEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO analytics_events (id, event_type, target_id, ip_hash, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.EventType, nullableString(e.TargetID), e.IPHash, nullableString(e.UserAgent), e.CreatedAt,
	)
	if err != nil {
		return storageErr("failed to record analytics event", err)
	}
	return nil
}

// Summary aggregates event counts, distinct visitors, and per-project view
// counts over the window [since, now].
func (r *AnalyticsRepository) Summary(ctx context.Context, since int) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{
		EventCounts:  make(map[string]int64),
		ProjectViews: make(map[string]int64),
	}

	rows, err := r.pool.Query(ctx,
		`SELECT event_type, COUNT(*) FROM analytics_events
		 WHERE created_at > NOW() - make_interval(days => $1)
		 GROUP BY event_type`,
		since,
	)
	if err != nil {
		return nil, storageErr("failed to aggregate event counts", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, storageErr("failed to scan event count", err)
		}
		summary.EventCounts[eventType] = count
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read event counts", err)
	}

	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT ip_hash) FROM analytics_events
		 WHERE created_at > NOW() - make_interval(days => $1)`,
		since,
	).Scan(&summary.UniqueVisitors)
	if err != nil {
		return nil, storageErr("failed to count unique visitors", err)
	}

	viewRows, err := r.pool.Query(ctx,
		`SELECT target_id, COUNT(*) FROM analytics_events
		 WHERE event_type = 'project_view' AND target_id IS NOT NULL
		   AND created_at > NOW() - make_interval(days => $1)
		 GROUP BY target_id`,
		since,
	)
	if err != nil {
		return nil, storageErr("failed to aggregate project views", err)
	}
	defer viewRows.Close()
	for viewRows.Next() {
		var targetID string
		var count int64
		if err := viewRows.Scan(&targetID, &count); err != nil {
			return nil, storageErr("failed to scan project views", err)
		}
		summary.ProjectViews[targetID] = count
	}
	if err := viewRows.Err(); err != nil {
		return nil, storageErr("failed to read project views", err)
	}

	return summary, nil
}
