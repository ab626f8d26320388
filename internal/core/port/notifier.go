package port

import "context"

// Notifier delivers out-of-band messages to account holders.
type Notifier interface {
	// SendPasswordReset delivers a reset link to the given address.
	SendPasswordReset(ctx context.Context, email, link string) error
}
