package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/middleware"
	"github.com/temcen/closetmood/internal/services"
	"github.com/temcen/closetmood/pkg/models"
)

type FeedbackHandler struct {
	recorder  services.FeedbackRecorder
	validator *validator.Validate
	logger    *logrus.Logger
}

func NewFeedbackHandler(recorder services.FeedbackRecorder, validate *validator.Validate, logger *logrus.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		recorder:  recorder,
		validator: validate,
		logger:    logger,
	}
}

func (h *FeedbackHandler) Record(c *gin.Context) {
	userID, _, ok := middleware.GetUserFromContext(c)
	if !ok {
		respondUnauthenticated(c)
		return
	}

	var request models.FeedbackRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidJSON(c, err)
		return
	}
	if err := h.validator.Struct(&request); err != nil {
		respondValidationFailed(c, err)
		return
	}

	stored, err := h.recorder.Record(c.Request.Context(), models.RecommendationLog{
		UserID:     userID.String(),
		OutfitID:   request.OutfitID,
		GarmentIDs: request.GarmentIDs,
		Action:     models.FeedbackAction(request.Action),
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidFeedback) {
			respondError(c, http.StatusBadRequest, "INVALID_FEEDBACK", "Invalid feedback", err.Error())
			return
		}
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to record feedback")
		respondError(c, http.StatusInternalServerError, "FEEDBACK_FAILED", "Failed to record feedback", nil)
		return
	}

	c.JSON(http.StatusCreated, stored)
}
