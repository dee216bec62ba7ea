package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRequestID  = "X-Request-ID"
	ContextRequestID = "request_id"
)

// Logger tags every request with an id and logs it once the handler chain is done. Server errors
// log at error level and client errors at warn.
func Logger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(ContextRequestID, requestID)
		c.Header(HeaderRequestID, requestID)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := logrus.Fields{
			"request_id":  requestID,
			"status_code": c.Writer.Status(),
			"latency_ms":  time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"user_agent":  c.Request.UserAgent(),
		}
		if userID, _, ok := GetUserFromContext(c); ok {
			fields["user_id"] = userID.String()
		}
		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
		}

		entry := logger.WithFields(fields)
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("HTTP Request")
		case status >= http.StatusBadRequest:
			entry.Warn("HTTP Request")
		default:
			entry.Info("HTTP Request")
		}
	}
}

func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		requestID := c.GetString(ContextRequestID)
		logger.WithFields(logrus.Fields{
			"panic":      recovered,
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"client_ip":  c.ClientIP(),
		}).Error("Panic recovered")

		body := gin.H{
			"code":    "INTERNAL_SERVER_ERROR",
			"message": "Internal server error",
		}
		if requestID != "" {
			body["details"] = gin.H{"request_id": requestID}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": body})
	})
}
