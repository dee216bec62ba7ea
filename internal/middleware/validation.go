package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/temcen/closetmood/internal/validation"
)

const maxBodyBytes = 1 << 20

// ValidationMiddleware checks JSON request bodies against the embedded schemas before the
// handler binds them.
type ValidationMiddleware struct {
	validator *validation.SchemaValidator
}

func NewValidationMiddleware(validator *validation.SchemaValidator) *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validator,
	}
}

func (vm *ValidationMiddleware) ValidateRecommendationRequest() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaRecommendationRequest, true)
}

func (vm *ValidationMiddleware) ValidateGarment() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaGarment, false)
}

func (vm *ValidationMiddleware) ValidateFeedback() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaFeedback, false)
}

func (vm *ValidationMiddleware) ValidateTokenRequest() gin.HandlerFunc {
	return vm.validateRequestBody(validation.SchemaTokenRequest, false)
}

// validateRequestBody validates the body against schemaName. When allowEmpty is set, an empty
// body is treated as "{}".
func (vm *ValidationMiddleware) validateRequestBody(schemaName string, allowEmpty bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes+1))
		if err != nil {
			vm.sendValidationError(c, http.StatusBadRequest, "BODY_READ_ERROR", "Failed to read request body", err.Error())
			return
		}
		if len(bodyBytes) > maxBodyBytes {
			vm.sendValidationError(c, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body is too large", nil)
			return
		}

		if len(bytes.TrimSpace(bodyBytes)) == 0 {
			if !allowEmpty {
				vm.sendValidationError(c, http.StatusBadRequest, "EMPTY_BODY", "Request body is required", nil)
				return
			}
			bodyBytes = []byte("{}")
		}

		// Restore request body for downstream handlers
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

		if !json.Valid(bodyBytes) {
			vm.sendValidationError(c, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", nil)
			return
		}

		result := vm.validator.ValidateJSON(schemaName, bodyBytes)
		if !result.Valid {
			c.AbortWithStatusJSON(http.StatusBadRequest, result.ToAPIError())
			return
		}

		c.Next()
	}
}

func (vm *ValidationMiddleware) sendValidationError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
