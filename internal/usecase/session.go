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
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/logger"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/security"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

var (
	// ErrInvalidCredentials indicates the email, password, or role do not match.
	// Unknown email, wrong password, and role mismatch all collapse into this
	// one signal so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRole indicates the requested role cannot be chosen at registration.
	ErrInvalidRole = errors.New("invalid role")
	// ErrCompanyNameRequired indicates a recruiter registration without an organization name.
	ErrCompanyNameRequired = errors.New("company name is required for recruiter accounts")
	// ErrPasswordPolicyViolation indicates the password does not satisfy the policy.
	ErrPasswordPolicyViolation = errors.New("password does not meet complexity requirements")
	// ErrInvalidRefreshToken indicates the refresh token does not exist, fails
	// signature verification, or is otherwise unusable.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrExpiredRefreshToken indicates the stored refresh token passed its absolute lifetime.
	ErrExpiredRefreshToken = errors.New("refresh token expired")
	// ErrInvalidAccessToken indicates a malformed access token or bad signature.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
	// ErrAccountNotFound indicates the referenced account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// TokenPair bundles the two credentials returned by register and login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Role        string
	CompanyName string
}

// SessionService coordinates registration, login, refresh, and logout.
type SessionService struct {
	accounts  port.AccountRepository
	tokens    port.RefreshTokenRepository
	codec     *security.TokenCodec
	validator *security.PasswordValidator
	events    port.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(
	accounts port.AccountRepository,
	tokens port.RefreshTokenRepository,
	codec *security.TokenCodec,
	validator *security.PasswordValidator,
	events port.EventPublisher,
	log *zap.Logger,
) *SessionService {
	if validator == nil {
		validator = security.DefaultPasswordValidator()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionService{
		accounts:  accounts,
		tokens:    tokens,
		codec:     codec,
		validator: validator,
		events:    events,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock injects a custom clock (primarily for tests).
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

// Register creates a new account and issues its first token pair.
func (s *SessionService) Register(ctx context.Context, input RegisterInput) (domain.Account, TokenPair, error) {
	email := domain.NormalizeEmail(input.Email)
	if email == "" {
		return domain.Account{}, TokenPair{}, fmt.Errorf("email is required")
	}
	if input.Password == "" {
		return domain.Account{}, TokenPair{}, fmt.Errorf("password is required")
	}

	role, ok := domain.ParseRole(input.Role)
	if !ok || !role.Registrable() {
		return domain.Account{}, TokenPair{}, ErrInvalidRole
	}

	companyName := strings.TrimSpace(input.CompanyName)
	if role == domain.RoleRecruiter && companyName == "" {
		return domain.Account{}, TokenPair{}, ErrCompanyNameRequired
	}

	if err := s.validator.Validate(input.Password); err != nil {
		return domain.Account{}, TokenPair{}, fmt.Errorf("%w: %w", ErrPasswordPolicyViolation, err)
	}

	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return domain.Account{}, TokenPair{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return domain.Account{}, TokenPair{}, fmt.Errorf("lookup account: %w", err)
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return domain.Account{}, TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: passwordHash,
		Role:         role,
		Status:       domain.AccountStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == domain.RoleRecruiter {
		account.CompanyName = &companyName
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		// A concurrent registration for the same email loses the race here.
		if errors.Is(err, repository.ErrDuplicate) {
			return domain.Account{}, TokenPair{}, ErrEmailTaken
		}
		return domain.Account{}, TokenPair{}, fmt.Errorf("create account: %w", err)
	}

	pair, err := s.issueTokenPair(ctx, account)
	if err != nil {
		return domain.Account{}, TokenPair{}, err
	}

	if s.events != nil {
		event := domain.AccountRegisteredEvent{
			EventID:      uuid.NewString(),
			AccountID:    account.ID,
			Email:        account.Email,
			Role:         account.Role,
			RegisteredAt: now,
		}
		if err := s.events.PublishAccountRegistered(ctx, event); err != nil {
			s.logger.Warn("publish account registered event failed", zap.Error(err))
		}
	}

	sanitized := account
	sanitized.PasswordHash = ""

	return sanitized, pair, nil
}

// Login validates credentials and issues a fresh token pair. The failure
// reasons are distinguished in server-side logs only.
//
// Login deliberately does not consult blocked status: an administrative block
// revokes all refresh tokens but does not gate a subsequent login.
func (s *SessionService) Login(ctx context.Context, email, password, role string) (domain.Account, TokenPair, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return domain.Account{}, TokenPair{}, ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.Debug("login failed: unknown email", zap.String("email", logger.MaskEmail(email)))
			return domain.Account{}, TokenPair{}, ErrInvalidCredentials
		}
		return domain.Account{}, TokenPair{}, fmt.Errorf("lookup account: %w", err)
	}

	requestedRole, ok := domain.ParseRole(role)
	if !ok || account.Role != requestedRole {
		s.logger.Debug("login failed: role mismatch", zap.String("account_id", account.ID))
		return domain.Account{}, TokenPair{}, ErrInvalidCredentials
	}

	if !security.VerifyPassword(password, account.PasswordHash) {
		s.logger.Debug("login failed: wrong password", zap.String("account_id", account.ID))
		return domain.Account{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, *account)
	if err != nil {
		return domain.Account{}, TokenPair{}, err
	}

	sanitized := *account
	sanitized.PasswordHash = ""

	return sanitized, pair, nil
}

// Refresh exchanges a valid, stored refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until logout, revocation,
// or its absolute lifetime. Role and name claims are re-read from storage so a
// role change is picked up on the next refresh.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return "", ErrInvalidRefreshToken
	}

	hash := security.HashToken(refreshToken)
	record, err := s.tokens.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}

	if record.IsExpired(s.now().UTC()) {
		return "", ErrExpiredRefreshToken
	}

	// A failed signature check does not delete the record; only explicit
	// revocation or expiry removes it.
	claims, err := s.codec.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return "", ErrExpiredRefreshToken
		}
		return "", ErrInvalidRefreshToken
	}
	if claims.AccountID != record.AccountID {
		return "", ErrInvalidRefreshToken
	}

	account, err := s.accounts.GetByID(ctx, record.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("lookup account: %w", err)
	}

	accessToken, err := s.codec.IssueAccess(*account)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}

	return accessToken, nil
}

// Logout revokes a single refresh token. Revoking an already-absent token is
// not an error.
func (s *SessionService) Logout(ctx context.Context, refreshToken string) error {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil
	}

	if err := s.tokens.DeleteByHash(ctx, security.HashToken(refreshToken)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}

	return nil
}

// ValidateAccessToken verifies an access token statelessly and returns its claims.
func (s *SessionService) ValidateAccessToken(token string) (*security.AccessClaims, error) {
	claims, err := s.codec.ParseAccess(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}

func (s *SessionService) issueTokenPair(ctx context.Context, account domain.Account) (TokenPair, error) {
	accessToken, err := s.codec.IssueAccess(account)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.codec.IssueRefresh(account.ID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}

	now := s.now().UTC()
	record := domain.RefreshToken{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		TokenHash: security.HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.codec.RefreshTTL()),
	}

	if err := s.tokens.Create(ctx, record); err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
