package middleware

import (
	"net/http"
	"sync"
	"time"

	"binhoard-api/internal/config"
	"binhoard-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity for per-user limits
const UserIDHeader = "X-User-ID"

// rateWindow counts requests inside one fixed hourly window
type rateWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter enforces a fixed per-user hourly request budget on the
// assistant routes. Counts live in memory; a restart resets all windows.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*rateWindow
	limit   int
	enabled bool
	logger  *logger.Logger
	now     func() time.Time
}

// NewRateLimiter creates a rate limiter from config
func NewRateLimiter(cfg config.RateLimitConfig, logger *logger.Logger) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		limit:   cfg.RequestsPerHour,
		enabled: cfg.Enabled,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow records one request for the user and reports whether it fits the
// current window
func (rl *RateLimiter) Allow(userID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	window, exists := rl.windows[userID]
	if !exists || now.Sub(window.windowStart) >= time.Hour {
		rl.windows[userID] = &rateWindow{count: 1, windowStart: now}
		return true
	}

	if window.count >= rl.limit {
		return false
	}
	window.count++
	return true
}

// Handler returns the gin middleware enforcing the budget
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.enabled {
			c.Next()
			return
		}

		userID := c.GetHeader(UserIDHeader)
		if userID == "" {
			c.Next()
			return
		}

		if !rl.Allow(userID) {
			rl.logger.Warn("Rate limit exceeded", "user_id", userID)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "hourly request limit reached, try again later",
				"code":  "RATE_LIMITED",
			})
			return
		}

		c.Next()
	}
}
