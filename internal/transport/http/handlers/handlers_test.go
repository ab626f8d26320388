package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/security"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/repository"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/middleware"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAccountStore is a map-backed port.AccountRepository.
type fakeAccountStore struct {
	accounts map[string]domain.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]domain.Account)}
}

func (s *fakeAccountStore) Create(_ context.Context, account domain.Account) error {
	for _, existing := range s.accounts {
		if existing.Email == account.Email {
			return repository.ErrDuplicate
		}
	}
	s.accounts[account.ID] = account
	return nil
}

func (s *fakeAccountStore) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := account
	return &copied, nil
}

func (s *fakeAccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range s.accounts {
		if account.Email == email {
			copied := account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeAccountStore) UpdateNames(_ context.Context, id string, firstName, lastName *string, at time.Time) error {
	account, ok := s.accounts[id]
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
	s.accounts[id] = account
	return nil
}

func (s *fakeAccountStore) UpdatePassword(_ context.Context, id string, passwordHash string, at time.Time) error {
	account, ok := s.accounts[id]
	if !ok {
		return repository.ErrNotFound
	}
	account.PasswordHash = passwordHash
	account.UpdatedAt = at
	s.accounts[id] = account
	return nil
}

func (s *fakeAccountStore) SetBlocked(_ context.Context, id string, blocked bool, reason *string, at time.Time) error {
	account, ok := s.accounts[id]
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
	s.accounts[id] = account
	return nil
}

// fakeTokenStore is a map-backed port.RefreshTokenRepository keyed by hash.
type fakeTokenStore struct {
	tokens map[string]domain.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]domain.RefreshToken)}
}

func (s *fakeTokenStore) Create(_ context.Context, token domain.RefreshToken) error {
	s.tokens[token.TokenHash] = token
	return nil
}

func (s *fakeTokenStore) GetByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	token, ok := s.tokens[hash]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := token
	return &copied, nil
}

func (s *fakeTokenStore) DeleteByHash(_ context.Context, hash string) error {
	delete(s.tokens, hash)
	return nil
}

func (s *fakeTokenStore) DeleteByAccount(_ context.Context, accountID string) (int64, error) {
	var removed int64
	for hash, token := range s.tokens {
		if token.AccountID == accountID {
			delete(s.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

func (s *fakeTokenStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var removed int64
	for hash, token := range s.tokens {
		if !token.ExpiresAt.After(before) {
			delete(s.tokens, hash)
			removed++
		}
	}
	return removed, nil
}

// fakeResetStore is a map-backed port.ResetRequestRepository keyed by hash.
type fakeResetStore struct {
	requests map[string]domain.PasswordResetRequest
}

func newFakeResetStore() *fakeResetStore {
	return &fakeResetStore{requests: make(map[string]domain.PasswordResetRequest)}
}

func (s *fakeResetStore) Create(_ context.Context, request domain.PasswordResetRequest) error {
	s.requests[request.TokenHash] = request
	return nil
}

func (s *fakeResetStore) GetByHashAndEmail(_ context.Context, hash, email string) (*domain.PasswordResetRequest, error) {
	request, ok := s.requests[hash]
	if !ok || request.Email != email {
		return nil, repository.ErrNotFound
	}
	copied := request
	return &copied, nil
}

func (s *fakeResetStore) DeleteByID(_ context.Context, id string) error {
	for hash, request := range s.requests {
		if request.ID == id {
			delete(s.requests, hash)
		}
	}
	return nil
}

func (s *fakeResetStore) DeleteByEmail(_ context.Context, email string) error {
	for hash, request := range s.requests {
		if request.Email == email {
			delete(s.requests, hash)
		}
	}
	return nil
}

func (s *fakeResetStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var removed int64
	for hash, request := range s.requests {
		if !request.ExpiresAt.After(before) {
			delete(s.requests, hash)
			removed++
		}
	}
	return removed, nil
}

// recordingNotifier captures reset links instead of sending mail.
type recordingNotifier struct {
	links []string
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, _ string, link string) error {
	n.links = append(n.links, link)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	accounts *fakeAccountStore
	tokens   *fakeTokenStore
	resets   *fakeResetStore
	notifier *recordingNotifier
	codec    *security.TokenCodec
	sessions *usecase.SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	codec, err := security.NewTokenCodec("access-secret", "refresh-secret", "", time.Hour, 168*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec returned error: %v", err)
	}

	accounts := newFakeAccountStore()
	tokens := newFakeTokenStore()
	resets := newFakeResetStore()
	notifier := &recordingNotifier{}
	log := zap.NewNop()

	sessions := usecase.NewSessionService(accounts, tokens, codec, nil, nil, log)
	resetService := usecase.NewPasswordResetService(accounts, tokens, resets, notifier, nil, nil, "https://app.example.com", 10*time.Minute, log)
	accountService := usecase.NewAccountService(accounts, tokens, nil, log)

	router := gin.New()
	router.Use(middleware.RequestID())

	authGroup := router.Group("/api/auth")
	NewAuthHandler(sessions, log).RegisterRoutes(authGroup)
	NewPasswordHandler(resetService, log, false).RegisterRoutes(authGroup)
	NewTokenHandler(sessions).RegisterRoutes(authGroup)

	internalGroup := router.Group("/internal")
	internalGroup.Use(middleware.InternalKey("test-internal-key"))
	NewAccountHandler(accountService, log, false).RegisterRoutes(internalGroup)

	return &testEnv{
		router:   router,
		accounts: accounts,
		tokens:   tokens,
		resets:   resets,
		notifier: notifier,
		codec:    codec,
		sessions: sessions,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body
}

func (e *testEnv) register(t *testing.T, email string) (string, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]any{
		"firstName": "Jordan",
		"lastName":  "Reyes",
		"email":     email,
		"password":  "Str0ng!Passphrase",
		"role":      "user",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	access, _ := body["accessToken"].(string)
	refresh, _ := body["refreshToken"].(string)
	if access == "" || refresh == "" {
		t.Fatalf("register response missing tokens: %s", rec.Body.String())
	}
	return access, refresh
}
