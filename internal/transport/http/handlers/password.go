package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

// PasswordHandler exposes the password recovery endpoints.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
	logger *zap.Logger
	isDev  bool
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(resets *usecase.PasswordResetService, logger *zap.Logger, isDev bool) *PasswordHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PasswordHandler{resets: resets, logger: logger, isDev: isDev}
}

// RegisterRoutes binds recovery routes, applying optional middleware ahead of
// forgot-password.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, forgotMiddlewares ...gin.HandlerFunc) {
	if len(forgotMiddlewares) > 0 {
		chain := append([]gin.HandlerFunc{}, forgotMiddlewares...)
		chain = append(chain, h.forgotPassword)
		r.POST("/forgot-password", chain...)
	} else {
		r.POST("/forgot-password", h.forgotPassword)
	}

	r.POST("/reset-password", h.resetPassword)
}

// forgotPassword always answers with the same message whether or not the email
// is registered, so the endpoint cannot be used to enumerate accounts.
func (h *PasswordHandler) forgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "a valid email is required")
		return
	}

	if err := h.resets.RequestReset(c.Request.Context(), req.Email); err != nil {
		respondServerError(c, h.logger, err, h.isDev)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: "if an account with this email exists, a password reset link has been sent",
	})
}

func (h *PasswordHandler) resetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "token, email, and new password are required")
		return
	}

	err := h.resets.ResetPassword(c.Request.Context(), req.Token, req.Email, req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrPasswordPolicyViolation) {
			respondBadRequest(c, policyMessage(err))
			return
		}
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrResetTokenInvalid}, Status: http.StatusBadRequest, Message: "invalid or expired reset token"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset successfully"})
}
