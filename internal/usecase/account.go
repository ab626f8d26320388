package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/port"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

// AccountService handles internal account administration: profile updates and
// administrative block/unblock.
type AccountService struct {
	accounts port.AccountRepository
	tokens   port.RefreshTokenRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewAccountService constructs an AccountService.
func NewAccountService(accounts port.AccountRepository, tokens port.RefreshTokenRepository, events port.EventPublisher, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{
		accounts: accounts,
		tokens:   tokens,
		events:   events,
		logger:   log,
		now:      time.Now,
	}
}

// WithClock injects a custom clock (primarily for tests).
func (s *AccountService) WithClock(now func() time.Time) *AccountService {
	if now != nil {
		s.now = now
	}
	return s
}

// UpdateProfile updates display names; nil fields are left untouched.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, firstName, lastName *string) (domain.Account, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Account{}, ErrAccountNotFound
	}

	if err := s.accounts.UpdateNames(ctx, id, firstName, lastName, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("update profile: %w", err)
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return sanitized, nil
}

// Block marks the account blocked and revokes every refresh token it holds.
// Existing access tokens remain valid until their natural expiry; access
// tokens are not server-side revocable.
func (s *AccountService) Block(ctx context.Context, id, reason string) (domain.Account, error) {
	now := s.now().UTC()
	reason = strings.TrimSpace(reason)

	var reasonValue *string
	if reason != "" {
		reasonValue = &reason
	}

	if err := s.accounts.SetBlocked(ctx, id, true, reasonValue, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("block account: %w", err)
	}

	revoked, err := s.tokens.DeleteByAccount(ctx, id)
	if err != nil {
		return domain.Account{}, fmt.Errorf("revoke refresh tokens: %w", err)
	}

	s.publishBlocked(ctx, id, true, reason, now, revoked)

	return s.fetch(ctx, id)
}

// Unblock returns the account to the active state. Previously revoked refresh
// tokens stay revoked; the holder must log in again.
func (s *AccountService) Unblock(ctx context.Context, id string) (domain.Account, error) {
	now := s.now().UTC()

	if err := s.accounts.SetBlocked(ctx, id, false, nil, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("unblock account: %w", err)
	}

	s.publishBlocked(ctx, id, false, "", now, 0)

	return s.fetch(ctx, id)
}

func (s *AccountService) publishBlocked(ctx context.Context, id string, blocked bool, reason string, at time.Time, revoked int64) {
	if s.events == nil {
		return
	}

	event := domain.AccountBlockedEvent{
		EventID:       uuid.NewString(),
		AccountID:     id,
		Blocked:       blocked,
		Reason:        reason,
		OccurredAt:    at,
		TokensRevoked: revoked,
	}
	if err := s.events.PublishAccountBlocked(ctx, event); err != nil {
		s.logger.Warn("publish account blocked event failed", zap.Error(err))
	}
}

func (s *AccountService) fetch(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, fmt.Errorf("lookup account: %w", err)
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return sanitized, nil
}
