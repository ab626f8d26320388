package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/port"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/logger"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/security"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

const (
	defaultResetTTL      = 10 * time.Minute
	resetTokenByteLength = 32
)

// ErrResetTokenInvalid indicates the (token, email) pair matches no live
// request. Never-existed, already-redeemed, superseded, and expired requests
// all produce this same signal so callers cannot probe reset state.
var ErrResetTokenInvalid = errors.New("password reset token invalid")

// PasswordResetService coordinates reset initiation and redemption.
type PasswordResetService struct {
	accounts  port.AccountRepository
	tokens    port.RefreshTokenRepository
	resets    port.ResetRequestRepository
	notifier  port.Notifier
	events    port.EventPublisher
	validator *security.PasswordValidator
	logger    *zap.Logger
	linkBase  string
	resetTTL  time.Duration
	now       func() time.Time
}

// NewPasswordResetService constructs a PasswordResetService. linkBase is the
// frontend URL the emailed reset link points at.
func NewPasswordResetService(
	accounts port.AccountRepository,
	tokens port.RefreshTokenRepository,
	resets port.ResetRequestRepository,
	notifier port.Notifier,
	events port.EventPublisher,
	validator *security.PasswordValidator,
	linkBase string,
	resetTTL time.Duration,
	log *zap.Logger,
) *PasswordResetService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &PasswordResetService{
		accounts:  accounts,
		tokens:    tokens,
		resets:    resets,
		notifier:  notifier,
		events:    events,
		validator: validator,
		logger:    log,
		linkBase:  linkBase,
		resetTTL:  resetTTL,
		now:       time.Now,
	}
}

// WithClock injects a custom clock (primarily for tests).
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	if now != nil {
		s.now = now
	}
	return s
}

// RequestReset creates a single-use reset token for the email and hands the
// link to the notifier. An unknown email reports success without side effects
// so responses cannot be used to enumerate accounts.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("reset requested for unknown email", zap.String("email", logger.MaskEmail(email)))
			return nil
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	// A new request supersedes any prior one for this email.
	if err := s.resets.DeleteByEmail(ctx, email); err != nil {
		return fmt.Errorf("supersede reset request: %w", err)
	}

	rawToken, err := security.GenerateSecureToken(resetTokenByteLength)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	now := s.now().UTC()
	request := domain.PasswordResetRequest{
		ID:        uuid.NewString(),
		Email:     email,
		TokenHash: security.HashToken(rawToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}

	if err := s.resets.Create(ctx, request); err != nil {
		return fmt.Errorf("store reset request: %w", err)
	}

	if s.notifier != nil {
		link := s.resetLink(rawToken, email)
		if err := s.notifier.SendPasswordReset(ctx, email, link); err != nil {
			// Delivery failure must not change the outward response.
			s.logger.Warn("password reset notification failed",
				zap.String("email", logger.MaskEmail(email)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// ResetPassword redeems a reset token and updates the account password.
// Redemption deletes the request (single use) and revokes every refresh token
// for the account, forcing re-authentication everywhere.
func (s *PasswordResetService) ResetPassword(ctx context.Context, token, email, newPassword string) error {
	email = domain.NormalizeEmail(email)
	if token == "" || email == "" {
		return ErrResetTokenInvalid
	}

	request, err := s.resets.GetByHashAndEmail(ctx, security.HashToken(token), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("lookup reset request: %w", err)
	}

	// Age is re-checked here; pruning of expired rows is only an optimization.
	if request.IsExpired(s.now().UTC()) {
		s.logger.Debug("reset token expired", zap.String("email", logger.MaskEmail(email)))
		return ErrResetTokenInvalid
	}

	if err := s.validator.Validate(newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrPasswordPolicyViolation, err)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrResetTokenInvalid
		}
		return fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	if err := s.accounts.UpdatePassword(ctx, account.ID, passwordHash, now); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.resets.DeleteByID(ctx, request.ID); err != nil {
		return fmt.Errorf("consume reset request: %w", err)
	}

	revoked, err := s.tokens.DeleteByAccount(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("revoke refresh tokens: %w", err)
	}

	if s.events != nil {
		event := domain.PasswordResetEvent{
			EventID:       uuid.NewString(),
			AccountID:     account.ID,
			Email:         account.Email,
			ResetAt:       now,
			TokensRevoked: revoked,
		}
		if err := s.events.PublishPasswordReset(ctx, event); err != nil {
			s.logger.Warn("publish password reset event failed", zap.Error(err))
		}
	}

	return nil
}

func (s *PasswordResetService) resetLink(token, email string) string {
	values := url.Values{}
	values.Set("token", token)
	values.Set("email", email)
	return fmt.Sprintf("%s/reset-password?%s", s.linkBase, values.Encode())
}
