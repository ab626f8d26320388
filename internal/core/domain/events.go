package domain

import "time"

// AccountRegisteredEvent is emitted after a successful registration.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Email        string
	Role         Role
	RegisteredAt time.Time
}

// PasswordResetEvent is emitted after a reset token is successfully redeemed.
type PasswordResetEvent struct {
	EventID       string
	AccountID     string
	Email         string
	ResetAt       time.Time
	TokensRevoked int64
}

// AccountBlockedEvent is emitted when an administrator blocks or unblocks an account.
type AccountBlockedEvent struct {
	EventID       string
	AccountID     string
	Blocked       bool
	Reason        string
	OccurredAt    time.Time
	TokensRevoked int64
}
