package services

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/temcen/closetmood/pkg/models"
)

var (
	ErrGarmentNotFound = errors.New("garment not found")
	ErrInvalidGarment  = errors.New("invalid garment")
	ErrInvalidFeedback = errors.New("invalid feedback")
)

// DatabaseQuerier is the subset of pgxpool.Pool the stores use. pgxmock satisfies it in tests.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// WardrobeServiceInterface is the garment store the outfit service and handlers depend on.
type WardrobeServiceInterface interface {
	ListGarments(ctx context.Context, userID string) ([]models.Garment, error)
	GetGarment(ctx context.Context, userID, garmentID string) (*models.Garment, error)
	CreateGarment(ctx context.Context, userID string, req *models.GarmentRequest) (*models.Garment, error)
	UpdateGarment(ctx context.Context, userID, garmentID string, req *models.GarmentRequest) (*models.Garment, error)
	DeleteGarment(ctx context.Context, userID, garmentID string) error
}

// OutfitServiceInterface produces recommendations for one request.
type OutfitServiceInterface interface {
	Recommend(ctx context.Context, input models.RecommendationInput) (*models.RecommendationOutput, error)
}

// FeedbackRecorder persists a feedback action and fans it out to the event bus.
type FeedbackRecorder interface {
	Record(ctx context.Context, log models.RecommendationLog) (*models.RecommendationLog, error)
}

// FeedbackPublisher is implemented by messaging.FeedbackBus.
type FeedbackPublisher interface {
	PublishFeedback(ctx context.Context, log models.RecommendationLog) error
}

// PairingGraphInterface stores and reads garment co-occurrence edges.
type PairingGraphInterface interface {
	RecordOutfit(ctx context.Context, userID string, garmentIDs []string) error
	TopPairings(ctx context.Context, userID, garmentID string, limit int) ([]models.Pairing, error)
}

// ShownRecorder stores impressions of outfits returned to a client.
type ShownRecorder interface {
	RecordShown(ctx context.Context, userID string, outfits []models.Outfit) error
}
