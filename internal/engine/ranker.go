package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/temcen/closetmood/pkg/models"
)

// DefaultLimit is the number of outfits returned when the request names none.
const DefaultLimit = 5

// ReasonSeparator joins candidate reasons into an outfit explanation.
const ReasonSeparator = " • "

// Rank orders candidates by score, highest first, keeping generation order
// between equal scores, and truncates to limit. A non-positive limit means
// DefaultLimit. The input slice is not modified.
func Rank(candidates []Candidate, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// materialize turns ranked candidates into outfits. Ids combine the call time
// with the ordinal, so they never collide within one call.
func materialize(ranked []Candidate, input models.RecommendationInput, now time.Time) []models.Outfit {
	outfits := make([]models.Outfit, len(ranked))
	for i, c := range ranked {
		outfits[i] = models.Outfit{
			ID:             fmt.Sprintf("outfit-%d-%d", now.UnixNano(), i),
			UserID:         input.UserID,
			GarmentIDs:     append([]string(nil), c.GarmentIDs...),
			ContextWeather: input.Weather,
			ContextMood:    input.Mood,
			Explanation:    strings.Join(c.Reasons, ReasonSeparator),
			Score:          c.Score,
			CreatedAt:      now,
		}
	}
	return outfits
}

// Explain builds the response-level sentence from whichever of weather, mood
// and temperature were supplied.
func Explain(input models.RecommendationInput) string {
	if input.Weather == "" && input.Mood == "" && input.Temperature == nil {
		return "Outfit recommendations based on your wardrobe."
	}

	parts := []string{"for you"}
	if input.Weather != "" {
		parts[0] = fmt.Sprintf("for %s weather", input.Weather)
	}
	if input.Mood != "" {
		parts = append(parts, fmt.Sprintf("with a %s vibe", input.Mood))
	}
	if input.Temperature != nil {
		parts = append(parts, fmt.Sprintf("(%s°C)", strconv.FormatFloat(*input.Temperature, 'f', -1, 64)))
	}
	return "Recommended " + strings.Join(parts, " ") + ". Mix and match pieces or shuffle for more options."
}
