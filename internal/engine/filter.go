package engine

import (
	"slices"
	"strings"

	"github.com/temcen/closetmood/pkg/models"
)

// Filter narrows the wardrobe to garments admissible under the input's weather
// and temperature. An axis that was not supplied applies no exclusion. The
// result preserves wardrobe order and may be empty.
func Filter(garments []models.Garment, input models.RecommendationInput) []models.Garment {
	filtered := make([]models.Garment, 0, len(garments))
	for _, g := range garments {
		if input.Weather != "" && !seasonAdmits(g.Season, input.Weather) {
			continue
		}
		if input.Temperature != nil && !temperatureAdmits(g, *input.Temperature) {
			continue
		}
		filtered = append(filtered, g)
	}
	return filtered
}

func seasonAdmits(season models.Season, weather models.WeatherCondition) bool {
	if season == models.SeasonAllSeason {
		return true
	}
	return slices.Contains(weatherSeasons[weather], season)
}

// temperatureAdmits applies the hot/cold material rules. The 10 and 25 degree
// boundaries themselves are mild.
func temperatureAdmits(g models.Garment, celsius float64) bool {
	material := strings.ToLower(g.MaterialOrEmpty())

	switch {
	case celsius > hotThreshold:
		return g.Category != models.CategoryOuterwear && !containsAny(material, heavyMaterials)
	case celsius < coldThreshold:
		return g.Category == models.CategoryOuterwear || containsAny(material, insulatingMaterials)
	default:
		return true
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
