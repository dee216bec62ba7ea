package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/pkg/models"
)

type TokenIssuer interface {
	IssueToken(ctx context.Context, req *models.TokenRequest) (*models.TokenResponse, error)
}

type AuthHandler struct {
	issuer    TokenIssuer
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewAuthHandler(issuer TokenIssuer, validate *validator.Validate, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		issuer:    issuer,
		validator: validate,
		logger:    logger,
	}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var request models.TokenRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondValidationFailed(c, err)
		return
	}

	resp, err := h.issuer.IssueToken(c.Request.Context(), &request)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAPIKey) {
			respondError(c, http.StatusUnauthorized, "INVALID_API_KEY", "Invalid API key", nil)
			return
		}
		h.logger.WithError(err).Error("Failed to issue token")
		respondError(c, http.StatusInternalServerError, "TOKEN_ISSUE_FAILED", "Failed to issue token", nil)
		return
	}

	c.JSON(http.StatusOK, resp)
}
