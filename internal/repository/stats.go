package repository

import (
	"context"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

// Totals gathers the dashboard counters in one round trip.
func (r *StatsRepository) Totals(ctx context.Context) (*domain.DashboardTotals, error) {
	var t domain.DashboardTotals
	err := r.pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM projects),
		   (SELECT COUNT(*) FROM comments),
		   (SELECT COUNT(*) FROM likes),
		   (SELECT COUNT(*) FROM messages),
		   (SELECT COUNT(*) FROM knowledge)`,
	).Scan(&t.Projects, &t.Comments, &t.Likes, &t.Messages, &t.KnowledgeRecords)
	if err != nil {
		return nil, storageErr("failed to load dashboard totals", err)
	}
	return &t, nil
}
