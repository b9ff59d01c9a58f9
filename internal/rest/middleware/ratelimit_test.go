package middleware

import (
	"testing"

	"github.com/lensprice/lensprice/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterIsPerOrganization(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})

	assert.True(t, limiter.Allow("org_a"))
	assert.True(t, limiter.Allow("org_a"))
	assert.False(t, limiter.Allow("org_a"))

	assert.True(t, limiter.Allow("org_b"))
}
