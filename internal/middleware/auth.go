package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/pkg/models"
)

const (
	ContextUserID   = "user_id"
	ContextUserTier = "user_tier"
)

// Authenticator is the part of services.AuthService the middleware needs.
type Authenticator interface {
	ValidateAPIKey(apiKey string) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*models.JWTClaims, error)
}

// Auth accepts either a session JWT or a client API key. API-key callers act on behalf of the
// user named in X-User-ID.
func Auth(authService Authenticator, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "MISSING_AUTHORIZATION", "Authorization header is required")
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "INVALID_AUTHORIZATION_FORMAT", "Authorization header must be in format 'Bearer <token>'")
			return
		}

		tokenString := tokenParts[1]

		// API keys never contain dots; JWTs always do.
		if !strings.Contains(tokenString, ".") {
			userTier, err := authService.ValidateAPIKey(tokenString)
			if err != nil {
				logger.WithError(err).Warn("Invalid API key")
				abort(c, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API key")
				return
			}

			userID, err := uuid.Parse(c.GetHeader("X-User-ID"))
			if err != nil {
				abort(c, http.StatusBadRequest, "INVALID_USER_ID", "X-User-ID header must be a valid UUID")
				return
			}

			c.Set(ContextUserID, userID)
			c.Set(ContextUserTier, userTier)
			c.Next()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.WithError(err).Warn("Invalid JWT token")
			abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserTier, claims.UserTier)
		c.Next()
	}
}

// GetUserFromContext returns the authenticated user id and tier.
func GetUserFromContext(c *gin.Context) (uuid.UUID, string, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, "", false
	}
	userID, ok := v.(uuid.UUID)
	if !ok {
		return uuid.Nil, "", false
	}
	tier := c.GetString(ContextUserTier)
	if tier == "" {
		tier = "free"
	}
	return userID, tier, true
}

func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
