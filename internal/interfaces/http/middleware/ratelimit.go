package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakot-io/hakot/internal/infrastructure/ratelimit"
	"github.com/hakot-io/hakot/internal/shared/logger"
	"github.com/hakot-io/hakot/internal/shared/utils"
)

// RateLimit guards a route with the given limiter, keyed by client IP.
// A limiter backend failure lets the request through; protecting the
// webhook path matters less than dropping legitimate gateway deliveries.
func RateLimit(limiter ratelimit.Limiter, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Warnw("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
