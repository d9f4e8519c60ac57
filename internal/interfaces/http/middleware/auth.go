package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hakot-io/hakot/internal/infrastructure/auth"
	"github.com/hakot-io/hakot/internal/shared/logger"
	"github.com/hakot-io/hakot/internal/shared/utils"
)

// UserIDKey is the gin context key holding the authenticated user ID.
const UserIDKey = "user_id"

// AuthMiddleware verifies the bearer token and stores the trusted
// principal on the request context. Credential mechanics live with the
// auth collaborator; this core only consumes the verified user ID.
type AuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth rejects requests without a valid access token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != auth.TokenTypeAccess {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid token type")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID from the gin context.
func GetUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := v.(uint)
	return userID, ok
}
