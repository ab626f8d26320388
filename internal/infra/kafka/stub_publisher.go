package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
)

// StubPublisher logs events instead of publishing them. Used when no brokers
// are configured (local development, tests).
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a logging-only event publisher.
func NewStubPublisher(log *zap.Logger) *StubPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &StubPublisher{logger: log}
}

func (s *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	s.logger.Debug("event skipped (no brokers)",
		zap.String("event_type", "auth.account.registered"),
		zap.String("account_id", event.AccountID),
	)
	return nil
}

func (s *StubPublisher) PublishPasswordReset(_ context.Context, event domain.PasswordResetEvent) error {
	s.logger.Debug("event skipped (no brokers)",
		zap.String("event_type", "auth.account.password_reset"),
		zap.String("account_id", event.AccountID),
	)
	return nil
}

func (s *StubPublisher) PublishAccountBlocked(_ context.Context, event domain.AccountBlockedEvent) error {
	s.logger.Debug("event skipped (no brokers)",
		zap.String("event_type", "auth.account.blocked"),
		zap.String("account_id", event.AccountID),
	)
	return nil
}
