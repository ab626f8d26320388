package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/RutikKulkarni/ReferralNetworkHub-sub001/internal/infra/security"
)

// ErrorCase maps one or more service errors onto an HTTP status and client
// message.
type ErrorCase struct {
	Errs    []error
	Status  int
	Message string
}

// RespondWithMappedError walks the cases in order and writes the first match.
// Unmatched errors fall through to a 500 whose detail is only exposed outside
// production.
func RespondWithMappedError(c *gin.Context, log *zap.Logger, err error, cases []ErrorCase, devMode bool) {
	for _, ec := range cases {
		for _, target := range ec.Errs {
			if errors.Is(err, target) {
				message := ec.Message
				if message == "" {
					message = err.Error()
				}
				c.JSON(ec.Status, NewErrorResponse(c, message))
				return
			}
		}
	}
	respondServerError(c, log, err, devMode)
}

func respondServerError(c *gin.Context, log *zap.Logger, err error, devMode bool) {
	log.Error("unhandled service error", zap.Error(err), zap.String("path", c.FullPath()))
	resp := NewErrorResponse(c, "internal server error")
	if devMode {
		resp.Detail = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// respondBadRequest writes a 400 with the given message.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, NewErrorResponse(c, message))
}

// policyMessage extracts the human-readable rule message from a password
// policy violation, falling back to a generic message.
func policyMessage(err error) string {
	var verr *security.PasswordValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return "password does not meet the password policy"
}
