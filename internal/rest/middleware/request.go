package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/types"
)

// RequestIDMiddleware puts the request id, organization and store on the
// request context. A missing organization header falls back to the default
// organization.
func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}
	ctx = types.SetRequestID(ctx, requestID)

	orgID := c.GetHeader(types.HeaderOrganizationID)
	if orgID == "" {
		orgID = types.DefaultOrganizationID
	}
	ctx = types.SetOrganizationID(ctx, orgID)

	if storeID := c.GetHeader(types.HeaderStoreID); storeID != "" {
		ctx = types.SetStoreID(ctx, storeID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// LoggingMiddleware writes one line per request
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		log.Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", types.GetRequestID(ctx),
			"organization_id", types.GetOrganizationID(ctx),
			"store_id", types.GetStoreID(ctx))
	}
}
