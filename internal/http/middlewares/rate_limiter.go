package middlewares

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/geocoder89/homage/internal/observability"
	"github.com/gin-gonic/gin"
)

// Counter tracks hits per key inside fixed windows.
type Counter interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int, resetIn time.Duration, err error)
}

type RateLimiter struct {
	name    string
	limit   int
	window  time.Duration
	counter Counter
	prom    *observability.Prom
}

func NewRateLimiter(name string, limit int, window time.Duration, counter Counter, prom *observability.Prom) *RateLimiter {
	if counter == nil {
		counter = NewMemoryCounter()
	}

	return &RateLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		counter: counter,
		prom:    prom,
	}
}

// Middleware returns a gin.HandlerFunc that enforces rate limit for a derived key

func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived

			key = clientIP(c)
		}

		count, resetIn, err := rl.counter.Hit(c.Request.Context(), rl.name+":"+key, rl.window)

		if err != nil {
			// fail open, a broken counter must not take the API down
			slog.Default().WarnContext(c.Request.Context(), "rate_limiter_unavailable", "limiter", rl.name, "err", err)
			c.Next()
			return
		}

		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > rl.limit {
			retryAfter := int(resetIn.Seconds())

			if retryAfter < 0 {
				retryAfter = 0
			}

			rl.prom.ObserveRateLimited(rl.name)

			c.Header("Retry-After", strconv.Itoa(retryAfter))

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    http.StatusTooManyRequests,
					"message": "Too Many Attempts.",
				},
			})

			return
		}

		c.Next()
	}
}

// MemoryCounter keeps windows in process memory. Used when no redis is
// configured and in tests.
type MemoryCounter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
}

type clientBucket struct {
	count     int
	windowEnd time.Time
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		clients: make(map[string]*clientBucket),
	}
}

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.clients[key]

	if !ok || now.After(b.windowEnd) {
		m.clients[key] = &clientBucket{
			count:     1,
			windowEnd: now.Add(window),
		}

		m.sweep(now)

		return 1, window, nil
	}

	b.count++

	return b.count, b.windowEnd.Sub(now), nil
}

// drops expired buckets once the map grows, caller holds mu
func (m *MemoryCounter) sweep(now time.Time) {
	if len(m.clients) < 10000 {
		return
	}

	for key, b := range m.clients {
		if now.After(b.windowEnd) {
			delete(m.clients, key)
		}
	}
}

// helper functions

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return "ip:" + clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available

func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return "ip:" + clientIP(c)
}

func clientIP(c *gin.Context) string {
	// Gin’s ClientIP respects X-Forwarded-For / X-Real-IP if configured.
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}
