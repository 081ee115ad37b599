package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/distill/models"
)

const (
	apiKeyHeader = "X-API-Key"
	bearerPrefix = "Bearer "
)

// Auth returns API-key middleware accepting either the X-API-Key header or
// an Authorization bearer token. With no configured keys it admits
// everything. The accepted key is stored on the context under "api_key" so
// the rate limiter can bucket by key instead of client IP.
func Auth(apiKeys []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			allowed[k] = true
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, bearerPrefix) {
				key = strings.TrimPrefix(auth, bearerPrefix)
			}
		}

		switch {
		case key == "":
			rejectUnauthorized(c, "missing API key: provide X-API-Key header or Authorization: Bearer <key>")
		case !allowed[key]:
			rejectUnauthorized(c, "invalid API key")
		default:
			c.Set("api_key", key)
			c.Next()
		}
	}
}

func rejectUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.CleanResponse{
		Success: false,
		Error: &models.ErrorDetail{
			Code:    models.ErrCodeUnauthorized,
			Message: message,
		},
	})
}
