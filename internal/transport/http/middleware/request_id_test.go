package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newRequestIDRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		*capture = GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestRequestIDEchoesProvidedHeader(t *testing.T) {
	var seen string
	router := newRequestIDRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "incoming-id")
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if seen != "incoming-id" {
		t.Fatalf("handler saw request id %q, want incoming-id", seen)
	}
	if got := rr.Header().Get("X-Request-ID"); got != "incoming-id" {
		t.Fatalf("response header %q, want incoming-id", got)
	}
}

func TestRequestIDGeneratesWhenAbsent(t *testing.T) {
	var seen string
	router := newRequestIDRouter(&seen)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected a generated request id")
	}
	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("generated id %q is not a UUID: %v", seen, err)
	}
	if got := rr.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("response header %q does not match handler's id %q", got, seen)
	}
}
