package usecase

import (
	"context"
	"time"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
)

// mockAccountRepository is a map-backed account store with injectable failures.
type mockAccountRepository struct {
	accounts map[string]domain.Account

	createErr     error
	createCalls   int
	getByEmailErr error

	updateNamesCalls    int
	updatePasswordCalls int
	setBlockedCalls     int
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{accounts: make(map[string]domain.Account)}
}

func (m *mockAccountRepository) add(account domain.Account) {
	m.accounts[account.ID] = account
}

func (m *mockAccountRepository) Create(_ context.Context, account domain.Account) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicate
		}
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (m *mockAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	if m.getByEmailErr != nil {
		return nil, m.getByEmailErr
	}
	for _, account := range m.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockAccountRepository) UpdateNames(_ context.Context, id string, firstName, lastName *string, at time.Time) error {
	m.updateNamesCalls++
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if firstName != nil {
		account.FirstName = *firstName
	}
	if lastName != nil {
		account.LastName = *lastName
	}
	account.UpdatedAt = at
	m.accounts[id] = account
	return nil
}

func (m *mockAccountRepository) UpdatePassword(_ context.Context, id string, passwordHash string, at time.Time) error {
	m.updatePasswordCalls++
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = at
	m.accounts[id] = account
	return nil
}

func (m *mockAccountRepository) SetBlocked(_ context.Context, id string, blocked bool, reason *string, at time.Time) error {
	m.setBlockedCalls++
	account, ok := m.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if blocked {
		account.Status = domain.AccountStatusBlocked
		account.BlockedReason = reason
		blockedAt := at
		account.BlockedAt = &blockedAt
	} else {
		account.Status = domain.AccountStatusActive
		account.BlockedReason = nil
		account.BlockedAt = nil
	}
	account.UpdatedAt = at
	m.accounts[id] = account
	return nil
}

// mockRefreshTokenRepository keeps records keyed by token hash.
type mockRefreshTokenRepository struct {
	tokens map[string]domain.RefreshToken

	createErr   error
	createCalls int
	deleteCalls int
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{tokens: make(map[string]domain.RefreshToken)}
}

func (m *mockRefreshTokenRepository) Create(_ context.Context, token domain.RefreshToken) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *mockRefreshTokenRepository) GetByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	token, ok := m.tokens[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := token
	return &copied, nil
}

func (m *mockRefreshTokenRepository) DeleteByHash(_ context.Context, hash string) error {
	m.deleteCalls++
	delete(m.tokens, hash)
	return nil
}

func (m *mockRefreshTokenRepository) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	var removed int64
	for hash, token := range m.tokens {
		if token.AccountID == accountID {
			delete(m.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

func (m *mockRefreshTokenRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var removed int64
	for hash, token := range m.tokens {
		if !token.ExpiresAt.After(before) {
			delete(m.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

func (m *mockRefreshTokenRepository) countFor(accountID string) int {
	count := 0
	for _, token := range m.tokens {
		if token.AccountID == accountID {
			count++
		}
	}
	return count
}

// mockResetRequestRepository keeps reset requests keyed by token hash.
type mockResetRequestRepository struct {
	requests map[string]domain.PasswordResetRequest

	createCalls        int
	deleteByEmailCalls int
}

func newMockResetRequestRepository() *mockResetRequestRepository {
	return &mockResetRequestRepository{requests: make(map[string]domain.PasswordResetRequest)}
}

func (m *mockResetRequestRepository) Create(_ context.Context, request domain.PasswordResetRequest) error {
	m.createCalls++
	m.requests[request.TokenHash] = request
	return nil
}

func (m *mockResetRequestRepository) GetByHashAndEmail(_ context.Context, hash, email string) (*domain.PasswordResetRequest, error) {
	request, ok := m.requests[hash]
	if !ok || request.Email != email {
		return nil, repository.ErrNotFound
	}
	copied := request
	return &copied, nil
}

func (m *mockResetRequestRepository) DeleteByID(_ context.Context, id string) error {
	for hash, request := range m.requests {
		if request.ID == id {
			delete(m.requests, hash)
		}
	}
	return nil
}

func (m *mockResetRequestRepository) DeleteByEmail(_ context.Context, email string) error {
	m.deleteByEmailCalls++
	for hash, request := range m.requests {
		if request.Email == email {
			delete(m.requests, hash)
		}
	}
	return nil
}

func (m *mockResetRequestRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var removed int64
	for hash, request := range m.requests {
		if !request.ExpiresAt.After(before) {
			delete(m.requests, hash)
			removed++
		}
	}
	return removed, nil
}

// stubEventPublisher records published events.
type stubEventPublisher struct {
	registered []domain.AccountRegisteredEvent
	resets     []domain.PasswordResetEvent
	blocked    []domain.AccountBlockedEvent
	publishErr error
}

func (s *stubEventPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	s.registered = append(s.registered, event)
	return s.publishErr
}

func (s *stubEventPublisher) PublishPasswordReset(_ context.Context, event domain.PasswordResetEvent) error {
	s.resets = append(s.resets, event)
	return s.publishErr
}

func (s *stubEventPublisher) PublishAccountBlocked(_ context.Context, event domain.AccountBlockedEvent) error {
	s.blocked = append(s.blocked, event)
	return s.publishErr
}

// stubNotifier records reset link deliveries.
type stubNotifier struct {
	emails  []string
	links   []string
	sendErr error
}

func (s *stubNotifier) SendPasswordReset(_ context.Context, email, link string) error {
	s.emails = append(s.emails, email)
	s.links = append(s.links, link)
	return s.sendErr
}
