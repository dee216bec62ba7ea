package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/pkg/models"
)

// Limiter is the part of services.RateLimitService the middleware needs.
type Limiter interface {
	IsAllowed(ctx context.Context, userID, userTier string) (bool, *models.RateLimitInfo, error)
}

func RateLimit(rateLimitService Limiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, userTier, ok := GetUserFromContext(c)
		if !ok {
			logger.Error("Rate limit middleware called without user context")
			c.Next()
			return
		}

		allowed, info, err := rateLimitService.IsAllowed(c.Request.Context(), userID.String(), userTier)
		if err != nil {
			logger.WithError(err).Error("Failed to check rate limit")
			// Continue on error to avoid blocking requests when Redis is down
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime, 10))

		if !allowed {
			logger.WithFields(logrus.Fields{
				"user_id":   userID,
				"user_tier": userTier,
				"limit":     info.Limit,
			}).Warn("Rate limit exceeded")

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "Rate limit exceeded. Please try again later.",
				},
				"rate_limit": info,
			})
			return
		}

		c.Next()
	}
}
