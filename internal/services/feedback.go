package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/pkg/models"
)

const insertRecommendationLog = `INSERT INTO recommendation_logs (id, user_id, outfit_id, garment_ids, action, timestamp)
	VALUES ($1, $2, $3, $4, $5, $6)`

// FeedbackService records what users did with recommended outfits.
type FeedbackService struct {
	db        DatabaseQuerier
	publisher FeedbackPublisher
	metrics   *MetricsCollector
	logger    *logrus.Logger
	now       func() time.Time
}

func NewFeedbackService(db DatabaseQuerier, publisher FeedbackPublisher, metrics *MetricsCollector, logger *logrus.Logger) *FeedbackService {
	return &FeedbackService{
		db:        db,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Record stores one feedback entry and publishes it to the feedback topic. A publish failure
// is logged and does not fail the call; the stored row is authoritative.
func (s *FeedbackService) Record(ctx context.Context, log models.RecommendationLog) (*models.RecommendationLog, error) {
	if err := validateLog(log); err != nil {
		return nil, err
	}

	log.ID = uuid.New()
	log.Timestamp = s.now().UTC()

	if err := s.insert(ctx, log); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordFeedback(log.Action)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishFeedback(ctx, log); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"outfit_id": log.OutfitID,
				"action":    log.Action,
			}).Warn("Feedback stored but not published")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":   log.UserID,
		"outfit_id": log.OutfitID,
		"action":    log.Action,
	}).Info("Feedback recorded")

	return &log, nil
}

// RecordShown stores a "shown" entry for every outfit in a response. Shown entries are not
// published; nothing downstream consumes them.
func (s *FeedbackService) RecordShown(ctx context.Context, userID string, outfits []models.Outfit) error {
	now := s.now().UTC()
	for _, o := range outfits {
		log := models.RecommendationLog{
			ID:         uuid.New(),
			UserID:     userID,
			OutfitID:   o.ID,
			GarmentIDs: o.GarmentIDs,
			Action:     models.ActionShown,
			Timestamp:  now,
		}
		if err := s.insert(ctx, log); err != nil {
			return err
		}
	}
	return nil
}

func (s *FeedbackService) insert(ctx context.Context, log models.RecommendationLog) error {
	_, err := s.db.Exec(ctx, insertRecommendationLog,
		log.ID, log.UserID, log.OutfitID, log.GarmentIDs, string(log.Action), log.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recommendation log: %w", err)
	}
	return nil
}

func validateLog(log models.RecommendationLog) error {
	switch {
	case log.UserID == "":
		return fmt.Errorf("%w: user id is required", ErrInvalidFeedback)
	case log.OutfitID == "":
		return fmt.Errorf("%w: outfit id is required", ErrInvalidFeedback)
	case !log.Action.Valid():
		return fmt.Errorf("%w: unknown action %q", ErrInvalidFeedback, log.Action)
	case len(log.GarmentIDs) < 2:
		return fmt.Errorf("%w: an outfit has at least two garments", ErrInvalidFeedback)
	}
	return nil
}
