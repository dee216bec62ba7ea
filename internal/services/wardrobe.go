package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/temcen/closetmood/internal/config"
	"github.com/temcen/closetmood/pkg/models"
)

const garmentColumns = `id, user_id, name, category, primary_color, secondary_color, material,
	season, image_url, tags, created_at, updated_at`

// WardrobeService stores each user's garments in PostgreSQL.
type WardrobeService struct {
	db         DatabaseQuerier
	normalizer *GarmentNormalizer
	maxItems   int
	logger     *logrus.Logger
	now        func() time.Time
}

func NewWardrobeService(db DatabaseQuerier, cfg *config.Config, logger *logrus.Logger) *WardrobeService {
	maxItems := cfg.Recommendation.MaxWardrobeSize
	if maxItems <= 0 {
		maxItems = 500
	}
	return &WardrobeService{
		db:         db,
		normalizer: NewGarmentNormalizer(),
		maxItems:   maxItems,
		logger:     logger,
		now:        time.Now,
	}
}

// ListGarments returns the user's garments, newest first.
func (s *WardrobeService) ListGarments(ctx context.Context, userID string) ([]models.Garment, error) {
	query := `SELECT ` + garmentColumns + `
		FROM garments
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, userID, s.maxItems)
	if err != nil {
		return nil, fmt.Errorf("failed to query garments: %w", err)
	}
	defer rows.Close()

	garments := make([]models.Garment, 0)
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan garment: %w", err)
		}
		garments = append(garments, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read garments: %w", err)
	}

	return garments, nil
}

func (s *WardrobeService) GetGarment(ctx context.Context, userID, garmentID string) (*models.Garment, error) {
	query := `SELECT ` + garmentColumns + `
		FROM garments
		WHERE id = $1 AND user_id = $2`

	g, err := scanGarment(s.db.QueryRow(ctx, query, garmentID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGarmentNotFound
		}
		return nil, fmt.Errorf("failed to get garment: %w", err)
	}
	return &g, nil
}

func (s *WardrobeService) CreateGarment(ctx context.Context, userID string, req *models.GarmentRequest) (*models.Garment, error) {
	g, err := s.normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	g.ID = uuid.New().String()
	g.UserID = userID
	g.CreatedAt = now
	g.UpdatedAt = now

	query := `INSERT INTO garments (` + garmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err = s.db.Exec(ctx, query,
		g.ID, g.UserID, g.Name, string(g.Category), g.PrimaryColor, g.SecondaryColor, g.Material,
		string(g.Season), g.ImageURL, g.Tags, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert garment: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"garment_id": g.ID,
		"category":   g.Category,
	}).Info("Garment created")

	return &g, nil
}

func (s *WardrobeService) UpdateGarment(ctx context.Context, userID, garmentID string, req *models.GarmentRequest) (*models.Garment, error) {
	g, err := s.normalizer.Normalize(req)
	if err != nil {
		return nil, err
	}

	query := `UPDATE garments
		SET name = $3, category = $4, primary_color = $5, secondary_color = $6, material = $7,
			season = $8, image_url = $9, tags = $10, updated_at = $11
		WHERE id = $1 AND user_id = $2
		RETURNING ` + garmentColumns

	updated, err := scanGarment(s.db.QueryRow(ctx, query,
		garmentID, userID, g.Name, string(g.Category), g.PrimaryColor, g.SecondaryColor, g.Material,
		string(g.Season), g.ImageURL, g.Tags, s.now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGarmentNotFound
		}
		return nil, fmt.Errorf("failed to update garment: %w", err)
	}

	return &updated, nil
}

func (s *WardrobeService) DeleteGarment(ctx context.Context, userID, garmentID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM garments WHERE id = $1 AND user_id = $2`, garmentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete garment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrGarmentNotFound
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"garment_id": garmentID,
	}).Info("Garment deleted")

	return nil
}

func scanGarment(row pgx.Row) (models.Garment, error) {
	var (
		g        models.Garment
		category string
		season   string
	)
	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &category, &g.PrimaryColor, &g.SecondaryColor, &g.Material,
		&season, &g.ImageURL, &g.Tags, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return models.Garment{}, err
	}
	g.Category = models.Category(category)
	g.Season = models.Season(season)
	if g.Tags == nil {
		g.Tags = []string{}
	}
	return g, nil
}
