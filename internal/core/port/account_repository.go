package port

import (
	"context"
	"time"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
)

// AccountRepository abstracts persistence for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	UpdateNames(ctx context.Context, id string, firstName, lastName *string, at time.Time) error
	UpdatePassword(ctx context.Context, id string, passwordHash string, at time.Time) error
	SetBlocked(ctx context.Context, id string, blocked bool, reason *string, at time.Time) error
}
