// Package worker turns recorded outfit feedback into pairing graph updates.
package worker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/messaging"
)

type PairingRecorder interface {
	RecordOutfit(ctx context.Context, userID string, garmentIDs []string) error
}

type PairingMetrics interface {
	RecordPairingUpdate(err error)
}

type PairingHandler struct {
	graph   PairingRecorder
	metrics PairingMetrics
	logger  *logrus.Logger
}

func NewPairingHandler(graph PairingRecorder, metrics PairingMetrics, logger *logrus.Logger) *PairingHandler {
	return &PairingHandler{
		graph:   graph,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle is a messaging.FeedbackBus handler. Only saved and worn outfits become edges;
// other actions are acknowledged without touching the graph.
func (h *PairingHandler) Handle(ctx context.Context, event messaging.FeedbackEvent) error {
	log := event.Log
	if !log.Action.BuildsPairings() {
		h.logger.WithFields(logrus.Fields{
			"event_id": event.EventID,
			"action":   log.Action,
		}).Debug("Skipping feedback event without pairing signal")
		return nil
	}

	if len(log.GarmentIDs) < 2 {
		h.logger.WithField("event_id", event.EventID).Warn("Feedback event has fewer than two garments")
		return nil
	}

	err := h.graph.RecordOutfit(ctx, log.UserID, log.GarmentIDs)
	h.metrics.RecordPairingUpdate(err)
	if err != nil {
		return fmt.Errorf("failed to record pairings for outfit %s: %w", log.OutfitID, err)
	}

	h.logger.WithFields(logrus.Fields{
		"event_id":  event.EventID,
		"outfit_id": log.OutfitID,
		"garments":  len(log.GarmentIDs),
	}).Info("Pairing graph updated")

	return nil
}
