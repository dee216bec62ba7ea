package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/middleware"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/pkg/models"
)

type OutfitHandler struct {
	outfits   services.OutfitServiceInterface
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewOutfitHandler(outfits services.OutfitServiceInterface, validate *validator.Validate, logger *logrus.Logger) *OutfitHandler {
	return &OutfitHandler{
		outfits:   outfits,
		validator: validate,
		logger:    logger,
	}
}

// Recommend handles POST /api/v1/outfits/recommendations. An empty body asks for default
// recommendations.
func (h *OutfitHandler) Recommend(c *gin.Context) {
	userID, _, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var request models.RecommendationRequest
	if err := c.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		respondInvalidJSON(c, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		respondValidationFailed(c, err)
		return
	}

	output, err := h.outfits.Recommend(c.Request.Context(), request.ToInput(userID.String()))
	if err != nil {
		if errors.Is(err, services.ErrMissingUser) {
			respondUnauthenticated(c)
			return
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to generate outfit recommendations")
		respondError(c, http.StatusInternalServerError, "RECOMMENDATION_FAILED", "Failed to generate outfit recommendations", nil)
		return
	}

	c.JSON(http.StatusOK, output)
}
