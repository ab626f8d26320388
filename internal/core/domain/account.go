package domain

import (
	"strings"
	"time"
)

// Role enumerates the account roles known to the platform.
type Role string

const (
	// RoleUser is the standard job-seeker role selectable at registration.
	RoleUser Role = "user"
	// RoleRecruiter marks accounts representing a hiring organization.
	RoleRecruiter Role = "recruiter"
	// RoleAdmin is provisioned out-of-band and cannot be chosen at registration.
	RoleAdmin Role = "admin"
)

// ParseRole maps a raw string onto a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleRecruiter:
		return RoleRecruiter, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// Registrable reports whether the role may be chosen during self-registration.
func (r Role) Registrable() bool {
	return r == RoleUser || r == RoleRecruiter
}

// AccountStatus enumerates account lifecycle states.
type AccountStatus string

const (
	AccountStatusActive  AccountStatus = "active"
	AccountStatusBlocked AccountStatus = "blocked"
)

// Account mirrors the persisted representation in the accounts table.
// Behaviour lives in the services; this is plain data plus invariant helpers.
type Account struct {
	ID            string
	Email         string
	FirstName     string
	LastName      string
	PasswordHash  string
	Role          Role
	CompanyName   *string
	Status        AccountStatus
	BlockedReason *string
	BlockedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Blocked reports whether the account is administratively blocked.
func (a Account) Blocked() bool {
	return a.Status == AccountStatusBlocked
}

// NormalizeEmail lowercases and trims an email address. Account identity is
// case-insensitive on email, so every lookup and insert goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
