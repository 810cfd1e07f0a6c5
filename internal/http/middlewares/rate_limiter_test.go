package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type failingCounter struct{}

func (failingCounter) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func newLimitedEngine(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/ping", rl.RateLimiterMiddleware(KeyByIP), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	engine := newLimitedEngine(NewRateLimiter("api", 2, time.Minute, NewMemoryCounter(), nil))

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
	if got := rr.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Fatalf("expected remaining 0, got %q", got)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	engine := newLimitedEngine(NewRateLimiter("api", 1, time.Minute, failingCounter{}, nil))

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200 with broken counter, got %d", rr.Code)
		}
	}
}

func TestMemoryCounter_WindowResets(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()

	n, _, _ := c.Hit(ctx, "k", 20*time.Millisecond)
	if n != 1 {
		t.Fatalf("expected 1, got %d", n)
	}
	n, _, _ = c.Hit(ctx, "k", 20*time.Millisecond)
	if n != 2 {
		t.Fatalf("expected 2, got %d", n)
	}

	time.Sleep(30 * time.Millisecond)

	n, _, _ = c.Hit(ctx, "k", 20*time.Millisecond)
	if n != 1 {
		t.Fatalf("expected window reset, got %d", n)
	}
}
