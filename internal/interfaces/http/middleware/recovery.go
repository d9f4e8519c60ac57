package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hakot-io/hakot/internal/shared/logger"
	"github.com/hakot-io/hakot/internal/shared/utils"
)

// Recovery turns panics into 500 responses with a structured log entry.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered",
					"panic", r,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
