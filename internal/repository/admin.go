package repository

import (
	"context"
	"errors"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Create(ctx context.Context, a *domain.Admin) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admins (id, name, email, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrAdminAlreadyExists
		}
		return storageErr("failed to create admin", err)
	}
	return nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, created_at FROM admins WHERE email = $1`,
		email,
	).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, storageErr("failed to load admin", err)
	}
	return &a, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count); err != nil {
		return 0, storageErr("failed to count admins", err)
	}
	return count, nil
}

func (r *AdminRepository) CreateToken(ctx context.Context, t *domain.AdminToken) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO admin_tokens (id, admin_id, token_hash, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.AdminID, t.TokenHash, t.CreatedAt, t.ExpiresAt,
	)
	if err != nil {
		return storageErr("failed to create token", err)
	}
	return nil
}

func (r *AdminRepository) GetTokenByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error) {
	var t domain.AdminToken
	err := r.pool.QueryRow(ctx,
		`SELECT id, admin_id, token_hash, created_at, expires_at
		 FROM admin_tokens WHERE token_hash = $1`,
		tokenHash,
	).Scan(&t.ID, &t.AdminID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidToken
		}
		return nil, storageErr("failed to load token", err)
	}
	return &t, nil
}

func (r *AdminRepository) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	cmdTag, err := r.pool.Exec(ctx, `DELETE FROM admin_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, storageErr("failed to prune tokens", err)
	}
	return cmdTag.RowsAffected(), nil
}
