package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/temcen/closetmood/pkg/models"
)

const (
	baseScore = 50
	maxScore  = 100

	complementaryBonus = 15
	monochromeBonus    = 10
	neutralBonus       = 8
	maxColorBonus      = 20

	moodTokenBonus = 3
	maxMoodBonus   = 20

	fullOutfitBonus  = 10
	basicOutfitBonus = 5
	fullOutfitPieces = 3
)

// Score rates a set of pieces for a mood and explains the rating. It is a pure
// function of its arguments and always returns a value in [0, 100].
func Score(pieces []models.Garment, mood models.Mood) (int, []string) {
	score := baseScore +
		colorHarmony(pieces) +
		moodAlignment(pieces, mood) +
		diversity(pieces)

	return min(score, maxScore), reasons(pieces, mood)
}

func primaryColors(pieces []models.Garment) []string {
	colors := make([]string, len(pieces))
	for i, p := range pieces {
		colors[i] = strings.ToLower(strings.TrimSpace(p.PrimaryColor))
	}
	return colors
}

func colorHarmony(pieces []models.Garment) int {
	if len(pieces) < 2 {
		return 0
	}
	colors := primaryColors(pieces)

	bonus := 0
	for _, pair := range complementaryPairs {
		if slices.Contains(colors, pair[0]) && slices.Contains(colors, pair[1]) {
			bonus += complementaryBonus
		}
	}

	monochrome := true
	for _, c := range colors[1:] {
		if c != colors[0] {
			monochrome = false
			break
		}
	}
	if monochrome {
		bonus += monochromeBonus
	}

	neutrals := 0
	for _, c := range colors {
		if IsNeutralColor(c) {
			neutrals++
		}
	}
	if neutrals >= len(colors)-1 {
		bonus += neutralBonus
	}

	return min(bonus, maxColorBonus)
}

// moodAlignment counts, per piece, the material and tag tokens that contain a
// mood keyword. Unknown moods have no keywords and score zero.
func moodAlignment(pieces []models.Garment, mood models.Mood) int {
	keywords := moodKeywords[mood]
	if len(keywords) == 0 {
		return 0
	}

	bonus := 0
	for _, p := range pieces {
		tokens := make([]string, 0, len(p.Tags)+1)
		tokens = append(tokens, strings.ToLower(p.MaterialOrEmpty()))
		for _, t := range p.Tags {
			tokens = append(tokens, strings.ToLower(t))
		}

		for _, tok := range tokens {
			if containsAny(tok, keywords) {
				bonus += moodTokenBonus
			}
		}
	}
	return min(bonus, maxMoodBonus)
}

func diversity(pieces []models.Garment) int {
	if len(pieces) >= fullOutfitPieces {
		return fullOutfitBonus
	}
	return basicOutfitBonus
}

func reasons(pieces []models.Garment, mood models.Mood) []string {
	var out []string
	if len(pieces) >= fullOutfitPieces {
		out = append(out, fmt.Sprintf("Well-balanced outfit with %d pieces", len(pieces)))
	}
	if slices.ContainsFunc(primaryColors(pieces), IsNeutralColor) {
		out = append(out, "Neutral base for easy coordination")
	}
	return append(out, MoodDescription(mood))
}
