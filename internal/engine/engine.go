// Package engine produces ranked, explained outfit recommendations from a
// wardrobe and a mood/weather context. Every call is a pure function of its
// arguments apart from the ids and timestamps stamped on the outfits, so an
// Engine is safe for concurrent use and needs no per-user state.
package engine

import (
	"time"

	"github.com/temcen/closetmood/pkg/models"
)

const (
	NoGarmentsExplanation        = "No garments found in wardrobe. Please add items first."
	NoSuitableOutfitsExplanation = "No suitable outfits found for the current weather and mood combination."
)

// EmptyReason says why a response carries no outfits.
type EmptyReason string

const (
	EmptyNone         EmptyReason = ""
	EmptyWardrobe     EmptyReason = "empty_wardrobe"
	EmptyAfterFilter  EmptyReason = "filtered_out"
	EmptyMissingRoles EmptyReason = "missing_top_or_bottom"
)

// Result is the engine output plus bookkeeping the caller may want for
// logging and metrics. Output is what clients see.
type Result struct {
	Output      *models.RecommendationOutput
	Admissible  int
	Candidates  int
	EmptyReason EmptyReason
}

type Engine struct {
	now func() time.Time
}

func New() *Engine {
	return &Engine{now: time.Now}
}

// NewWithClock returns an engine that stamps outfits using now.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// GenerateOutfits runs filter, generate, score and rank over the wardrobe.
// It never fails: empty results carry an explanatory message and
// TotalGenerated == 0.
func (e *Engine) GenerateOutfits(garments []models.Garment, input models.RecommendationInput) *models.RecommendationOutput {
	return e.Recommend(garments, input).Output
}

// Recommend is GenerateOutfits with pipeline statistics attached.
func (e *Engine) Recommend(garments []models.Garment, input models.RecommendationInput) *Result {
	if len(garments) == 0 {
		return emptyResult(NoGarmentsExplanation, EmptyWardrobe, 0)
	}

	admissible := Filter(garments, input)
	if len(admissible) == 0 {
		return emptyResult(NoSuitableOutfitsExplanation, EmptyAfterFilter, 0)
	}

	mood := input.Mood
	if mood == "" {
		mood = models.DefaultMood
	}

	candidates := Generate(admissible, mood)
	if len(candidates) == 0 {
		return emptyResult(NoSuitableOutfitsExplanation, EmptyMissingRoles, len(admissible))
	}

	outfits := materialize(Rank(candidates, input.LimitCount), input, e.now())
	return &Result{
		Output: &models.RecommendationOutput{
			Outfits:        outfits,
			Explanation:    Explain(input),
			TotalGenerated: len(outfits),
		},
		Admissible: len(admissible),
		Candidates: len(candidates),
	}
}

func emptyResult(explanation string, reason EmptyReason, admissible int) *Result {
	return &Result{
		Output: &models.RecommendationOutput{
			Outfits:     []models.Outfit{},
			Explanation: explanation,
		},
		Admissible:  admissible,
		EmptyReason: reason,
	}
}
