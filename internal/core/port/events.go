package port

import (
	"context"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
)

// EventPublisher emits account lifecycle events to the message bus.
// Publishing is best-effort; callers log failures and proceed.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishPasswordReset(ctx context.Context, event domain.PasswordResetEvent) error
	PublishAccountBlocked(ctx context.Context, event domain.AccountBlockedEvent) error
}
