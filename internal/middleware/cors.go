package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/temcen/closetmood/internal/config"
)

// CORS builds the cross-origin policy from security.cors. A "*" origin allows any origin, in
// which case credentials are not allowed.
func CORS(cfg *config.Config) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods: cfg.Security.CORS.AllowedMethods,
		AllowHeaders: append([]string{"Authorization", "Content-Type", "X-User-ID", HeaderRequestID}, cfg.Security.CORS.AllowedHeaders...),
		ExposeHeaders: []string{
			"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", HeaderRequestID,
		},
		MaxAge: 12 * time.Hour,
	}

	if allowsAnyOrigin(cfg.Security.CORS.AllowedOrigins) {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Security.CORS.AllowedOrigins
		corsConfig.AllowCredentials = true
	}

	return cors.New(corsConfig)
}

func allowsAnyOrigin(origins []string) bool {
	if len(origins) == 0 {
		return true
	}
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
