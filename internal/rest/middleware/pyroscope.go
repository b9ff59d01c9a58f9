package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lensprice/lensprice/internal/pyroscope"
	"github.com/lensprice/lensprice/internal/types"
)

// PyroscopeMiddleware labels the profiles of each request with its route and
// organization
func PyroscopeMiddleware(svc *pyroscope.Service) gin.HandlerFunc {
	if !svc.IsEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		labels := map[string]string{
			"method":          c.Request.Method,
			"endpoint":        c.FullPath(),
			"organization_id": types.GetOrganizationID(c.Request.Context()),
		}

		svc.TagWrapper(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
