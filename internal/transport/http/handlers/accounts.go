package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/usecase"
)

// AccountHandler exposes internal account administration endpoints. They are
// reachable only behind the internal API key middleware.
type AccountHandler struct {
	accounts *usecase.AccountService
	logger   *zap.Logger
	isDev    bool
}

// NewAccountHandler constructs AccountHandler.
func NewAccountHandler(accounts *usecase.AccountService, logger *zap.Logger, isDev bool) *AccountHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountHandler{accounts: accounts, logger: logger, isDev: isDev}
}

// RegisterRoutes binds the internal account routes.
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.PUT("/users/:id/profile", h.updateProfile)
	r.POST("/users/:id/block", h.block)
	r.POST("/users/:id/unblock", h.unblock)
}

func (h *AccountHandler) updateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid profile payload")
		return
	}

	if req.FirstName == nil && req.LastName == nil {
		respondBadRequest(c, "at least one of firstName or lastName is required")
		return
	}

	account, err := h.accounts.UpdateProfile(c.Request.Context(), c.Param("id"), req.FirstName, req.LastName)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrAccountNotFound}, Status: http.StatusNotFound, Message: "account not found"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, newUserSummary(account))
}

func (h *AccountHandler) block(c *gin.Context) {
	var req BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBadRequest(c, "invalid block payload")
		return
	}

	account, err := h.accounts.Block(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrAccountNotFound}, Status: http.StatusNotFound, Message: "account not found"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, newUserSummary(account))
}

func (h *AccountHandler) unblock(c *gin.Context) {
	account, err := h.accounts.Unblock(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Errs: []error{usecase.ErrAccountNotFound}, Status: http.StatusNotFound, Message: "account not found"},
		}, h.isDev)
		return
	}

	c.JSON(http.StatusOK, newUserSummary(account))
}
