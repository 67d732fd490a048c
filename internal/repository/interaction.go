package repository

import (
	"context"
	"errors"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type InteractionRepository struct {
	pool *pgxpool.Pool
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

func (r *InteractionRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, project_id, author_name, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.ProjectID, c.AuthorName, c.Content, c.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return domain.ErrProjectNotFound
		}
		return storageErr("failed to create comment", err)
	}
	return nil
}

func (r *InteractionRepository) ListComments(ctx context.Context, projectID string) ([]*domain.Comment, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, project_id, author_name, content, created_at
		 FROM comments WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID,
	)
	if err != nil {
		return nil, storageErr("failed to list comments", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.AuthorName, &c.Content, &c.CreatedAt); err != nil {
			return nil, storageErr("failed to scan comment", err)
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read comments", err)
	}
	return comments, nil
}

// CreateLike inserts a like; a second like from the same visitor for the
// same target hits the unique index and maps to ErrAlreadyLiked.
func (r *InteractionRepository) CreateLike(ctx context.Context, l *domain.Like) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO likes (id, target_type, target_id, ip_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		l.ID, string(l.TargetType), l.TargetID, l.IPHash, l.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAlreadyLiked
		}
		return storageErr("failed to create like", err)
	}
	return nil
}

func (r *InteractionRepository) CountLikes(ctx context.Context, targetType domain.LikeTarget, targetID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM likes WHERE target_type = $1 AND target_id = $2`,
		string(targetType), targetID,
	).Scan(&count)
	if err != nil {
		return 0, storageErr("failed to count likes", err)
	}
	return count, nil
}

func (r *InteractionRepository) HasLiked(ctx context.Context, targetType domain.LikeTarget, targetID, ipHash string) (bool, error) {
	var id string
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM likes WHERE target_type = $1 AND target_id = $2 AND ip_hash = $3`,
		string(targetType), targetID, ipHash,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, storageErr("failed to check like", err)
	}
	return true, nil
}
