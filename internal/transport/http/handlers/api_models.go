package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/core/domain"
	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/transport/http/middleware"
)

// ErrorResponse is the uniform error payload: a message plus the request id
// for correlation. Detail is only populated outside production.
type ErrorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

// NewErrorResponse creates an error response carrying the request id.
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	return ErrorResponse{
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the account view returned by the API. The password hash never
// leaves the service.
type UserSummary struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	CompanyName *string `json:"companyName,omitempty"`
	Status      string  `json:"status"`
}

func newUserSummary(account domain.Account) UserSummary {
	return UserSummary{
		ID:          account.ID,
		FirstName:   account.FirstName,
		LastName:    account.LastName,
		Email:       account.Email,
		Role:        string(account.Role),
		CompanyName: account.CompanyName,
		Status:      string(account.Status),
	}
}

// RegisterRequest defines the account registration payload.
type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	CompanyName string `json:"companyName"`
}

// RegisterResponse is returned for a successful registration.
type RegisterResponse struct {
	Message      string      `json:"message"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
}

// LoginRequest defines the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// LoginResponse is returned for a successful login.
type LoginResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
}

// RefreshRequest defines the refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshResponse carries the newly minted access token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// LogoutRequest defines the logout payload.
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ValidateTokenRequest defines the validate-token payload.
type ValidateTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// ValidateTokenResponse is returned for a valid access token.
type ValidateTokenResponse struct {
	Valid     bool   `json:"valid"`
	UserID    string `json:"userId,omitempty"`
	Role      string `json:"role,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// ForgotPasswordRequest defines the forgot-password payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest defines the reset-password payload.
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdateProfileRequest defines the internal profile update payload.
type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// BlockRequest defines the internal block payload.
type BlockRequest struct {
	Reason string `json:"reason"`
}
