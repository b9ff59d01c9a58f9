package middleware

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/config"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per organization
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.Burst,
	}
}

func (l *RateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Allow reports whether the organization may make another request now
func (l *RateLimiter) Allow(orgID string) bool {
	return l.limiterFor(orgID).Allow()
}

// RateLimitMiddleware rejects requests over the organization's rate. It must
// run after RequestIDMiddleware so the organization is known.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	limiter := NewRateLimiter(cfg.RateLimit)
	return func(c *gin.Context) {
		orgID := types.GetOrganizationID(c.Request.Context())
		if !limiter.Allow(orgID) {
			c.Error(ierr.NewError("rate limit exceeded").
				WithHint("Too many requests, please retry shortly").
				WithReportableDetails(map[string]any{"organization_id": orgID}).
				Mark(ierr.ErrRateLimited))
			c.Abort()
			return
		}
		c.Next()
	}
}
