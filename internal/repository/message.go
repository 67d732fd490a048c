package repository

import (
	"context"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO messages (id, name, email, subject, content, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.Name, m.Email, m.Subject, m.Content, m.SentAt,
	)
	if err != nil {
		return storageErr("failed to store message", err)
	}
	return nil
}

func (r *MessageRepository) List(ctx context.Context, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, subject, content, sent_at
		 FROM messages ORDER BY sent_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, storageErr("failed to list messages", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Content, &m.SentAt); err != nil {
			return nil, storageErr("failed to scan message", err)
		}
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read messages", err)
	}
	return messages, nil
}
