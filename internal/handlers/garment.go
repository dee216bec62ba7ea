package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/middleware"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/pkg/models"
)

type GarmentHandler struct {
	wardrobe  services.WardrobeServiceInterface
	pairings  services.PairingGraphInterface
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewGarmentHandler(
	wardrobe services.WardrobeServiceInterface,
	pairings services.PairingGraphInterface,
	validate *validator.Validate,
	logger *logrus.Logger,
) *GarmentHandler {
	return &GarmentHandler{
		wardrobe:  wardrobe,
		pairings:  pairings,
		validator: validate,
		logger:    logger,
	}
}

func (h *GarmentHandler) List(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	garments, err := h.wardrobe.ListGarments(c.Request.Context(), userID)
	if err != nil {
		h.internalError(c, err, "Failed to list garments")
		return
	}

	c.JSON(http.StatusOK, models.GarmentListResponse{Garments: garments, Total: len(garments)})
}

func (h *GarmentHandler) Get(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	garment, err := h.wardrobe.GetGarment(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.handleError(c, err, "Failed to get garment")
		return
	}

	c.JSON(http.StatusOK, garment)
}

func (h *GarmentHandler) Create(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	request, ok := h.bind(c)
	if !ok {
		return
	}

	garment, err := h.wardrobe.CreateGarment(c.Request.Context(), userID, request)
	if err != nil {
		h.handleError(c, err, "Failed to create garment")
		return
	}

	c.JSON(http.StatusCreated, garment)
}

func (h *GarmentHandler) Update(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	request, ok := h.bind(c)
	if !ok {
		return
	}

	garment, err := h.wardrobe.UpdateGarment(c.Request.Context(), userID, c.Param("id"), request)
	if err != nil {
		h.handleError(c, err, "Failed to update garment")
		return
	}

	c.JSON(http.StatusOK, garment)
}

func (h *GarmentHandler) Delete(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	if err := h.wardrobe.DeleteGarment(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.handleError(c, err, "Failed to delete garment")
		return
	}

	c.Status(http.StatusNoContent)
}

// Pairings handles GET /garments/:id/pairings. The garment must belong to the caller.
func (h *GarmentHandler) Pairings(c *gin.Context) {
	userID, ok := h.user(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			respondError(c, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	garmentID := c.Param("id")
	if _, err := h.wardrobe.GetGarment(c.Request.Context(), userID, garmentID); err != nil {
		h.handleError(c, err, "Failed to get garment")
		return
	}

	pairings, err := h.pairings.TopPairings(c.Request.Context(), userID, garmentID, limit)
	if err != nil {
		h.logger.WithError(err).WithField("garment_id", garmentID).Error("Failed to read garment pairings")
		respondError(c, http.StatusServiceUnavailable, "PAIRINGS_UNAVAILABLE", "Garment pairings are temporarily unavailable", nil)
		return
	}

	c.JSON(http.StatusOK, models.PairingResponse{GarmentID: garmentID, Pairings: pairings})
}

func (h *GarmentHandler) user(c *gin.Context) (string, bool) {
	userID, _, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondUnauthenticated(c)
		return "", false
	}
	return userID.String(), true
}

func (h *GarmentHandler) bind(c *gin.Context) (*models.GarmentRequest, bool) {
	var request models.GarmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidJSON(c, err)
		return nil, false
	}
	if err := h.validator.Struct(&request); err != nil {
		respondValidationFailed(c, err)
		return nil, false
	}
	return &request, true
}

func (h *GarmentHandler) handleError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrGarmentNotFound):
		respondError(c, http.StatusNotFound, "GARMENT_NOT_FOUND", "Garment not found", nil)
	case errors.Is(err, services.ErrInvalidGarment):
		respondError(c, http.StatusBadRequest, "INVALID_GARMENT", "Invalid garment", err.Error())
	default:
		h.internalError(c, err, message)
	}
}

func (h *GarmentHandler) internalError(c *gin.Context, err error, message string) {
	h.logger.WithError(err).Error(message)
	respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", message, nil)
}
