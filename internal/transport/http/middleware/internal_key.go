package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const internalKeyHeader = "X-Internal-API-Key"

// InternalKey guards service-to-service endpoints with a shared API key.
// Comparison is constant-time so the key cannot be probed byte by byte.
func InternalKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"message":   "internal API is not configured",
				"requestId": GetRequestID(c),
			})
			return
		}

		provided := c.GetHeader(internalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message":   "invalid internal API key",
				"requestId": GetRequestID(c),
			})
			return
		}

		c.Next()
	}
}
