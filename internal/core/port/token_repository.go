package port

import (
	"context"
	"time"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
)

// RefreshTokenRepository abstracts persistence for revocable refresh tokens.
// Lookups are keyed by the SHA-256 hash of the presented token string.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token domain.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	// DeleteByHash removes one token; deleting an absent token is not an error.
	DeleteByHash(ctx context.Context, hash string) error
	// DeleteByAccount removes every token owned by the account and reports how many.
	DeleteByAccount(ctx context.Context, accountID string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ResetRequestRepository abstracts persistence for password reset requests.
type ResetRequestRepository interface {
	Create(ctx context.Context, request domain.PasswordResetRequest) error
	GetByHashAndEmail(ctx context.Context, hash, email string) (*domain.PasswordResetRequest, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByEmail(ctx context.Context, email string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
