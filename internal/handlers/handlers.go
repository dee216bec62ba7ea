package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/services"
)

type Handlers struct {
	Health   *HealthHandler
	Outfit   *OutfitHandler
	Garment  *GarmentHandler
	Feedback *FeedbackHandler
	Auth     *AuthHandler
}

func New(logger *logrus.Logger, svc *services.Services) *Handlers {
	validate := validator.New()

	return &Handlers{
		Health:   NewHealthHandler(logger, svc.Health),
		Outfit:   NewOutfitHandler(svc.Outfits, validate, logger),
		Garment:  NewGarmentHandler(svc.Wardrobe, svc.Pairings, validate, logger),
		Feedback: NewFeedbackHandler(svc.Feedback, validate, logger),
		Auth:     NewAuthHandler(svc.Auth, validate, logger),
	}
}

func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	body := gin.H{
		"code":    code,
		"message": message,
	}
	if details != nil {
		body["details"] = details
	}
	c.JSON(status, gin.H{"error": body})
}

func respondInvalidJSON(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format", err.Error())
}

func respondValidationFailed(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())
}

func respondUnauthenticated(c *gin.Context) {
	respondError(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Authenticated user required", nil)
}
