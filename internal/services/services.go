package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/internal/database"
	"github.com/temcen/closetmood/internal/engine"
	"github.com/temcen/closetmood/internal/messaging"
)

type Services struct {
	Auth        *AuthService
	Health      *HealthService
	RateLimit   *RateLimitService
	Metrics     *MetricsCollector
	FeedbackBus *messaging.FeedbackBus
	Wardrobe    *WardrobeService
	Feedback    *FeedbackService
	Outfits     *OutfitService
	Pairings    *PairingGraph
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	metrics := NewMetricsCollector(prometheus.DefaultRegisterer)
	feedbackBus := messaging.NewFeedbackProducer(cfg, logger)

	wardrobe := NewWardrobeService(db.PG, cfg, logger)
	feedback := NewFeedbackService(db.PG, feedbackBus, metrics, logger)
	outfits := NewOutfitService(wardrobe, engine.New(), feedback, metrics, cfg, logger)

	return &Services{
		Auth:        NewAuthService(cfg, logger, db.Redis),
		Health:      NewHealthService(cfg, logger, db),
		RateLimit:   NewRateLimitService(cfg, logger, db.Redis),
		Metrics:     metrics,
		FeedbackBus: feedbackBus,
		Wardrobe:    wardrobe,
		Feedback:    feedback,
		Outfits:     outfits,
		Pairings:    NewPairingGraph(db.Neo4j, cfg.Recommendation.MaxPairings, logger),
	}, nil
}

func (s *Services) Close() error {
	return s.FeedbackBus.Close()
}
