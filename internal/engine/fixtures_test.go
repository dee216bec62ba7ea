package engine

import (
	"time"

	"github.com/temcen/closetmood/pkg/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func garment(id string, category models.Category, color, material string, season models.Season, tags ...string) models.Garment {
	g := models.Garment{
		ID:           id,
		UserID:       "test-user",
		Name:         "Test " + string(category),
		Category:     category,
		PrimaryColor: color,
		Season:       season,
		Tags:         tags,
		CreatedAt:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if material != "" {
		g.Material = strPtr(material)
	}
	return g
}

// testWardrobe is three tops, three bottoms, one pair of shoes and a coat.
func testWardrobe() []models.Garment {
	return []models.Garment{
		garment("top-1", models.CategoryTop, "white", "cotton", models.SeasonSummer, "casual", "basic"),
		garment("top-2", models.CategoryTop, "blue", "cotton", models.SeasonAllSeason, "formal"),
		garment("top-3", models.CategoryTop, "navy", "wool", models.SeasonWinter, "warm", "cozy"),
		garment("bottom-1", models.CategoryBottom, "black", "denim", models.SeasonAllSeason, "casual"),
		garment("bottom-2", models.CategoryBottom, "beige", "cotton", models.SeasonAllSeason, "smart-casual"),
		garment("bottom-3", models.CategoryBottom, "gray", "wool", models.SeasonWinter, "formal", "warm"),
		garment("shoes-1", models.CategoryShoes, "white", "leather", models.SeasonAllSeason, "casual"),
		garment("outer-1", models.CategoryOuterwear, "gray", "wool", models.SeasonWinter, "formal", "warm"),
	}
}

func ids(garments []models.Garment) []string {
	out := make([]string, len(garments))
	for i, g := range garments {
		out[i] = g.ID
	}
	return out
}

func byCategory(garments []models.Garment, c models.Category) map[string]bool {
	out := make(map[string]bool)
	for _, g := range garments {
		if g.Category == c {
			out[g.ID] = true
		}
	}
	return out
}
