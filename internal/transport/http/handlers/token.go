package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

// TokenHandler exposes access-token validation for sibling services.
type TokenHandler struct {
	sessions *usecase.SessionService
}

// NewTokenHandler constructs TokenHandler.
func NewTokenHandler(sessions *usecase.SessionService) *TokenHandler {
	return &TokenHandler{sessions: sessions}
}

// RegisterRoutes binds token routes.
func (h *TokenHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/validate-token", h.validate)
}

// validate checks an access token and echoes its identity claims. Invalid and
// expired tokens get the same shape so callers only branch on "valid".
func (h *TokenHandler) validate(c *gin.Context) {
	var req ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "token is required")
		return
	}

	claims, err := h.sessions.ValidateAccessToken(req.Token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ValidateTokenResponse{Valid: false})
		return
	}

	c.JSON(http.StatusOK, ValidateTokenResponse{
		Valid:     true,
		UserID:    claims.AccountID,
		Role:      claims.Role,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	})
}
