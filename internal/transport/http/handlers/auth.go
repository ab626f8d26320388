package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

// AuthHandler exposes registration and session endpoints.
type AuthHandler struct {
	sessions *usecase.SessionService
	logger   *zap.Logger
	isDev    bool
}

// AuthHandlerOption configures optional AuthHandler behaviour.
type AuthHandlerOption func(*AuthHandler)

// WithDevMode toggles development-only behaviour (e.g. error detail on 500s).
func WithDevMode(isDev bool) AuthHandlerOption {
	return func(h *AuthHandler) {
		h.isDev = isDev
	}
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(sessions *usecase.SessionService, logger *zap.Logger, opts ...AuthHandlerOption) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := &AuthHandler{
		sessions: sessions,
		logger:   logger,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}

	return handler
}

// RegisterRoutes binds session routes, applying optional middleware ahead of login.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, loginMiddlewares ...gin.HandlerFunc) {
	r.POST("/register", h.register)

	if len(loginMiddlewares) > 0 {
		chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
		chain = append(chain, h.login)
		r.POST("/login", chain...)
	} else {
		r.POST("/login", h.login)
	}

	r.POST("/refresh-token", h.refresh)
	r.POST("/logout", h.logout)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid registration payload")
		return
	}

	input := usecase.RegisterInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    req.Password,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	}

	account, pair, err := h.sessions.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, usecase.ErrPasswordPolicyViolation) {
			respondBadRequest(c, policyMessage(err))
			return
		}
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrEmailTaken}, Status: http.StatusBadRequest, Message: "an account with this email already exists"},
			{Errs: []error{usecase.ErrInvalidRole}, Status: http.StatusBadRequest, Message: "role must be either user or recruiter"},
			{Errs: []error{usecase.ErrCompanyNameRequired}, Status: http.StatusBadRequest, Message: "company name is required for recruiter accounts"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message:      "account registered successfully",
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         newUserSummary(account),
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid login payload")
		return
	}

	account, pair, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrInvalidCredentials}, Status: http.StatusBadRequest, Message: "invalid credentials"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         newUserSummary(account),
	})
}

func (h *AuthHandler) refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh token is required")
		return
	}

	accessToken, err := h.sessions.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrExpiredRefreshToken}, Status: http.StatusUnauthorized, Message: "refresh token has expired"},
			{Errs: []error{usecase.ErrInvalidRefreshToken}, Status: http.StatusUnauthorized, Message: "invalid refresh token"},
			{Errs: []error{usecase.ErrAccountNotFound}, Status: http.StatusUnauthorized, Message: "invalid refresh token"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

func (h *AuthHandler) logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh token is required")
		return
	}

	if err := h.sessions.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondServerError(c, h.logger, err, h.isDev)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}
