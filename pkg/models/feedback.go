package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackAction string

const (
	ActionShown   FeedbackAction = "shown"
	ActionSaved   FeedbackAction = "saved"
	ActionSkipped FeedbackAction = "skipped"
	ActionWorn    FeedbackAction = "worn"
)

func (a FeedbackAction) Valid() bool {
	switch a {
	case ActionShown, ActionSaved, ActionSkipped, ActionWorn:
		return true
	}
	return false
}

// BuildsPairings reports whether the action means the pieces were actually put together.
func (a FeedbackAction) BuildsPairings() bool {
	return a == ActionSaved || a == ActionWorn
}

type RecommendationLog struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	UserID     string         `json:"user_id" db:"user_id"`
	OutfitID   string         `json:"outfit_id" db:"outfit_id"`
	GarmentIDs []string       `json:"garment_ids" db:"garment_ids"`
	Action     FeedbackAction `json:"action" db:"action"`
	Timestamp  time.Time      `json:"timestamp" db:"timestamp"`
}

type FeedbackRequest struct {
	OutfitID   string   `json:"outfit_id" validate:"required,max=100"`
	GarmentIDs []string `json:"garment_ids" validate:"required,min=2,max=4,dive,required"`
	Action     string   `json:"action" validate:"required,oneof=shown saved skipped worn"`
}

type Pairing struct {
	GarmentID string `json:"garment_id"`
	Count     int64  `json:"count"`
}

type PairingResponse struct {
	GarmentID string    `json:"garment_id"`
	Pairings  []Pairing `json:"pairings"`
}
