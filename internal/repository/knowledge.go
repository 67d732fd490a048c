package repository

import (
	"context"
	"errors"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeRepository owns persistence of the retrieval corpus.
type KnowledgeRepository struct {
	db dbtx
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{db: pool}
}

func NewKnowledgeRepositoryWithTx(tx pgx.Tx) *KnowledgeRepository {
	return &KnowledgeRepository{db: tx}
}

func storageErr(op string, err error) error {
	return domain.NewDomainErrorWithCause(domain.ErrCodeStorage, op, err)
}

// Upsert replaces any record with the same source and inserts the new one.
// Run inside a transaction (via TxRunner) so readers never observe two
// records for one source or a record whose embedding does not match its
// content.
func (r *KnowledgeRepository) Upsert(ctx context.Context, k *domain.KnowledgeRecord) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM knowledge WHERE source = $1`,
		k.Source,
	); err != nil {
		return storageErr("failed to replace knowledge record", err)
	}

	if _, err := r.db.Exec(ctx,
		`INSERT INTO knowledge (id, source, content, embedding, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		k.ID, k.Source, k.Content, pgvector.NewVector(k.Embedding), k.CreatedAt, k.UpdatedAt,
	); err != nil {
		return storageErr("failed to insert knowledge record", err)
	}

	return nil
}

func (r *KnowledgeRepository) GetBySource(ctx context.Context, source string) (*domain.KnowledgeRecord, error) {
	var k domain.KnowledgeRecord
	var vec *pgvector.Vector
	err := r.db.QueryRow(ctx,
		`SELECT id, source, content, embedding, created_at, updated_at
		 FROM knowledge WHERE source = $1`,
		source,
	).Scan(&k.ID, &k.Source, &k.Content, &vec, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrKnowledgeNotFound
		}
		return nil, storageErr("failed to load knowledge record", err)
	}
	if vec != nil {
		k.Embedding = vec.Slice()
	}
	return &k, nil
}

// ListAll returns every record ordered by id, so a single read is stable.
func (r *KnowledgeRepository) ListAll(ctx context.Context) ([]*domain.KnowledgeRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, source, content, embedding, created_at, updated_at
		 FROM knowledge ORDER BY id`,
	)
	if err != nil {
		return nil, storageErr("failed to list knowledge records", err)
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

// DeleteBySource removes the record for a source; absent is a no-op.
func (r *KnowledgeRepository) DeleteBySource(ctx context.Context, source string) error {
	if _, err := r.db.Exec(ctx,
		`DELETE FROM knowledge WHERE source = $1`,
		source,
	); err != nil {
		return storageErr("failed to delete knowledge record", err)
	}
	return nil
}

func (r *KnowledgeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge`).Scan(&count); err != nil {
		return 0, storageErr("failed to count knowledge records", err)
	}
	return count, nil
}

// SearchByEmbedding returns the k nearest records by cosine distance,
// closest first, ties broken by id. Records without embeddings are skipped.
func (r *KnowledgeRepository) SearchByEmbedding(ctx context.Context, embedding []float32, k int) ([]*domain.ScoredRecord, error) {
	if k <= 0 {
		k = 3
	}

	vec := pgvector.NewVector(embedding)
	rows, err := r.db.Query(ctx,
		`SELECT id, source, content, embedding, created_at, updated_at,
		        (embedding <=> $1)::float4 AS distance
		 FROM knowledge
		 WHERE embedding IS NOT NULL
		 ORDER BY embedding <=> $1, id
		 LIMIT $2`,
		vec, k,
	)
	if err != nil {
		return nil, storageErr("failed to search knowledge records", err)
	}
	defer rows.Close()

	results := make([]*domain.ScoredRecord, 0, k)
	for rows.Next() {
		var k domain.KnowledgeRecord
		var vec pgvector.Vector
		var distance float32
		if err := rows.Scan(&k.ID, &k.Source, &k.Content, &vec, &k.CreatedAt, &k.UpdatedAt, &distance); err != nil {
			return nil, storageErr("failed to scan search result", err)
		}
		k.Embedding = vec.Slice()
		results = append(results, &domain.ScoredRecord{Record: &k, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read search results", err)
	}
	return results, nil
}

// ListMissingEmbeddings returns records whose embedding is NULL (bulk
// seeded rows awaiting the backfill worker), oldest first.
func (r *KnowledgeRepository) ListMissingEmbeddings(ctx context.Context, limit int) ([]*domain.KnowledgeRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, source, content, embedding, created_at, updated_at
		 FROM knowledge WHERE embedding IS NULL ORDER BY created_at LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, storageErr("failed to list unembedded records", err)
	}
	defer rows.Close()
	return scanKnowledgeRows(rows)
}

func (r *KnowledgeRepository) UpdateEmbedding(ctx context.Context, id string, embedding []float32) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE knowledge SET embedding = $1, updated_at = $2 WHERE id = $3`,
		pgvector.NewVector(embedding), time.Now().UTC(), id,
	)
	if err != nil {
		return storageErr("failed to update embedding", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrKnowledgeNotFound
	}
	return nil
}

func scanKnowledgeRows(rows pgx.Rows) ([]*domain.KnowledgeRecord, error) {
	var results []*domain.KnowledgeRecord
	for rows.Next() {
		var k domain.KnowledgeRecord
		var vec *pgvector.Vector
		if err := rows.Scan(&k.ID, &k.Source, &k.Content, &vec, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, storageErr("failed to scan knowledge record", err)
		}
		if vec != nil {
			k.Embedding = vec.Slice()
		}
		results = append(results, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("failed to read knowledge records", err)
	}
	return results, nil
}
