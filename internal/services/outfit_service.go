package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/internal/engine"
	"github.com/temcen/closetmood/pkg/models"
)

var ErrMissingUser = errors.New("user id is required")

// OutfitService serves one recommendation request: it loads the wardrobe, runs the engine
// and records what was shown. Every call recomputes from the current wardrobe.
type OutfitService struct {
	wardrobe     WardrobeServiceInterface
	engine       *engine.Engine
	shown        ShownRecorder
	metrics      *MetricsCollector
	defaultLimit int
	maxLimit     int
	persistShown bool
	logger       *logrus.Logger
}

func NewOutfitService(
	wardrobe WardrobeServiceInterface,
	eng *engine.Engine,
	shown ShownRecorder,
	metrics *MetricsCollector,
	cfg *config.Config,
	logger *logrus.Logger,
) *OutfitService {
	defaultLimit := cfg.Recommendation.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = engine.DefaultLimit
	}
	maxLimit := cfg.Recommendation.MaxLimit
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}

	return &OutfitService{
		wardrobe:     wardrobe,
		engine:       eng,
		shown:        shown,
		metrics:      metrics,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		persistShown: cfg.Recommendation.PersistShown && shown != nil,
		logger:       logger,
	}
}

func (s *OutfitService) Recommend(ctx context.Context, input models.RecommendationInput) (*models.RecommendationOutput, error) {
	if input.UserID == "" {
		return nil, ErrMissingUser
	}

	start := time.Now()
	input.LimitCount = s.clampLimit(input.LimitCount)

	garments, err := s.wardrobe.ListGarments(ctx, input.UserID)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordRecommendationError()
		}
		return nil, fmt.Errorf("failed to load wardrobe: %w", err)
	}

	result := s.engine.Recommend(garments, input)
	summary := SummarizeScores(result.Output.Outfits)
	latency := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordRecommendation(latency, result.Candidates, string(result.EmptyReason), summary)
	}

	fields := logrus.Fields{
		"user_id":         input.UserID,
		"mood":            input.Mood,
		"weather":         input.Weather,
		"wardrobe_size":   len(garments),
		"admissible":      result.Admissible,
		"candidates":      result.Candidates,
		"total_generated": result.Output.TotalGenerated,
		"latency_ms":      latency.Milliseconds(),
	}
	if result.EmptyReason != engine.EmptyNone {
		fields["empty_reason"] = result.EmptyReason
		s.logger.WithFields(fields).Info("No outfits generated")
		return result.Output, nil
	}

	fields["score_mean"] = summary.Mean
	fields["score_stddev"] = summary.StdDev
	fields["score_max"] = summary.Max
	s.logger.WithFields(fields).Info("Outfits generated")

	if s.persistShown {
		if err := s.shown.RecordShown(ctx, input.UserID, result.Output.Outfits); err != nil {
			s.logger.WithError(err).WithField("user_id", input.UserID).Warn("Failed to record shown outfits")
		}
	}

	return result.Output, nil
}

func (s *OutfitService) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.defaultLimit
	case limit > s.maxLimit:
		return s.maxLimit
	}
	return limit
}
