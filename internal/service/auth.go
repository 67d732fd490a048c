package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/berthonipasso/portfolio-api/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

type AdminRepositoryInterface interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Count(ctx context.Context) (int64, error)
	CreateToken(ctx context.Context, t *domain.AdminToken) error
	GetTokenByHash(ctx context.Context, tokenHash string) (*domain.AdminToken, error)
	DeleteExpiredTokens(ctx context.Context) (int64, error)
}

type AuthService struct {
	adminRepo AdminRepositoryInterface
	uuidGen   UUIDGenerator
}

func NewAuthService(adminRepo AdminRepositoryInterface) *AuthService {
	return &AuthService{adminRepo: adminRepo, uuidGen: &DefaultUUIDGenerator{}}
}

func NewAuthServiceWithUUIDGen(adminRepo AdminRepositoryInterface, uuidGen UUIDGenerator) *AuthService {
	return &AuthService{adminRepo: adminRepo, uuidGen: uuidGen}
}

// CreateAdmin registers a new admin with a bcrypt password hash.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	if len(password) < 8 {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to hash password", err)
	}

	admin := &domain.Admin{
		ID:           s.uuidGen.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	if err := domain.ValidateAdmin(admin); err != nil {
		return nil, err
	}

	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Login verifies credentials and issues a bearer token. Only the sha256
// hash of the token is stored; the raw value is returned once.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return "", time.Time{}, domain.ErrInvalidCredentials
		}
		return "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, domain.ErrInvalidCredentials
	}

	token, err := generateBearerToken()
	if err != nil {
		return "", time.Time{}, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to generate token", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(tokenTTL)
	record := &domain.AdminToken{
		ID:        s.uuidGen.NewString(),
		AdminID:   admin.ID,
		TokenHash: hashToken(token),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}

	if err := s.adminRepo.CreateToken(ctx, record); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// ValidateToken resolves a bearer token to the admin ID it was issued to.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrInvalidToken
	}

	record, err := s.adminRepo.GetTokenByHash(ctx, hashToken(token))
	if err != nil {
		return "", err
	}
	if record.Expired(time.Now().UTC()) {
		return "", domain.ErrInvalidToken
	}
	return record.AdminID, nil
}

// PruneExpiredTokens removes tokens past their expiry.
func (s *AuthService) PruneExpiredTokens(ctx context.Context) (int64, error) {
	return s.adminRepo.DeleteExpiredTokens(ctx)
}

func generateBearerToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}
