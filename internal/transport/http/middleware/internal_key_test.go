package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newInternalRouter(expected string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(InternalKey(expected))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestInternalKeyAllowsMatchingKey(t *testing.T) {
	router := newInternalRouter("secret-key")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Internal-API-Key", "secret-key")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestInternalKeyRejectsMissingOrWrongKey(t *testing.T) {
	router := newInternalRouter("secret-key")

	cases := []struct {
		name string
		key  string
	}{
		{"missing", ""},
		{"wrong", "other-key"},
		{"prefix", "secret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.key != "" {
				req.Header.Set("X-Internal-API-Key", tc.key)
			}
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rr.Code)
			}
		})
	}
}

func TestInternalKeyUnavailableWhenUnconfigured(t *testing.T) {
	router := newInternalRouter("")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Internal-API-Key", "anything")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}
