package domain

import "time"

// RefreshToken represents a persisted refresh token. The raw token string is
// never stored; only its SHA-256 hash is kept, so a database leak does not
// yield presentable credentials.
type RefreshToken struct {
	ID        string
	AccountID string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the token elapsed its absolute lifetime.
// Expiry is authoritative at read time; background pruning is an optimization.
func (t RefreshToken) IsExpired(at time.Time) bool {
	return !t.ExpiresAt.After(at)
}

// PasswordResetRequest is a single-use, time-boxed reset artifact. At most one
// live request exists per email; a new request supersedes any prior one.
type PasswordResetRequest struct {
	ID        string
	Email     string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsExpired reports whether the request fell outside its validity window.
func (r PasswordResetRequest) IsExpired(at time.Time) bool {
	return !r.ExpiresAt.After(at)
}
