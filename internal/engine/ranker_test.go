package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/temcen/closetmood/pkg/models"
)

func TestRank(t *testing.T) {
	candidates := []Candidate{
		{GarmentIDs: []string{"a"}, Score: 60},
		{GarmentIDs: []string{"b"}, Score: 80},
		{GarmentIDs: []string{"c"}, Score: 60},
		{GarmentIDs: []string{"d"}, Score: 90},
		{GarmentIDs: []string{"e"}, Score: 80},
		{GarmentIDs: []string{"f"}, Score: 50},
		{GarmentIDs: []string{"g"}, Score: 60},
	}

	t.Run("stable descending with default limit", func(t *testing.T) {
		got := Rank(candidates, 0)
		assert.Equal(t, [][]string{{"d"}, {"b"}, {"e"}, {"a"}, {"c"}}, candidateIDs(got))
	})

	t.Run("explicit limit", func(t *testing.T) {
		got := Rank(candidates, 2)
		assert.Equal(t, [][]string{{"d"}, {"b"}}, candidateIDs(got))
	})

	t.Run("limit larger than candidates", func(t *testing.T) {
		got := Rank(candidates, 50)
		assert.Len(t, got, len(candidates))
		assert.Equal(t, []string{"f"}, got[len(got)-1].GarmentIDs)
	})

	t.Run("input order untouched", func(t *testing.T) {
		_ = Rank(candidates, 3)
		assert.Equal(t, []string{"a"}, candidates[0].GarmentIDs)
		assert.Equal(t, []string{"d"}, candidates[3].GarmentIDs)
	})
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name  string
		input models.RecommendationInput
		want  string
	}{
		{
			name:  "weather mood and temperature",
			input: models.RecommendationInput{Weather: models.WeatherSunny, Mood: models.MoodCasual, Temperature: floatPtr(22)},
			want:  "Recommended for sunny weather with a casual vibe (22°C). Mix and match pieces or shuffle for more options.",
		},
		{
			name:  "mood only",
			input: models.RecommendationInput{Mood: models.MoodCozy},
			want:  "Recommended for you with a cozy vibe. Mix and match pieces or shuffle for more options.",
		},
		{
			name:  "fractional temperature",
			input: models.RecommendationInput{Weather: models.WeatherRainy, Temperature: floatPtr(12.5)},
			want:  "Recommended for rainy weather (12.5°C). Mix and match pieces or shuffle for more options.",
		},
		{
			name:  "zero degrees is still supplied",
			input: models.RecommendationInput{Temperature: floatPtr(0)},
			want:  "Recommended for you (0°C). Mix and match pieces or shuffle for more options.",
		},
		{
			name:  "mood and temperature without weather",
			input: models.RecommendationInput{Mood: models.MoodCasual, Temperature: floatPtr(22)},
			want:  "Recommended for you with a casual vibe (22°C). Mix and match pieces or shuffle for more options.",
		},
		{
			name:  "nothing supplied",
			input: models.RecommendationInput{UserID: "u"},
			want:  "Outfit recommendations based on your wardrobe.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Explain(tt.input))
		})
	}
}
