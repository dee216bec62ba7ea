package engine

import "github.com/temcen/closetmood/pkg/models"

// weatherSeasons lists the seasons admissible under each weather condition.
var weatherSeasons = map[models.WeatherCondition][]models.Season{
	models.WeatherSunny:  {models.SeasonSpring, models.SeasonSummer, models.SeasonAllSeason},
	models.WeatherCloudy: {models.SeasonSpring, models.SeasonSummer, models.SeasonFall, models.SeasonAllSeason},
	models.WeatherRainy:  {models.SeasonSpring, models.SeasonFall, models.SeasonWinter, models.SeasonAllSeason},
	models.WeatherSnowy:  {models.SeasonWinter, models.SeasonAllSeason},
	models.WeatherWindy:  {models.SeasonFall, models.SeasonWinter, models.SeasonAllSeason},
	models.WeatherHot:    {models.SeasonSummer, models.SeasonAllSeason},
	models.WeatherCold:   {models.SeasonWinter, models.SeasonAllSeason},
}

var moodKeywords = map[models.Mood][]string{
	models.MoodCasual:      {"cotton", "denim", "relaxed"},
	models.MoodFormal:      {"silk", "wool", "structured"},
	models.MoodAdventurous: {"bold", "colorful", "unique"},
	models.MoodCozy:        {"fleece", "warm", "soft"},
	models.MoodEnergetic:   {"bright", "bold", "dynamic"},
	models.MoodMinimalist:  {"neutral", "simple", "clean"},
	models.MoodBold:        {"vibrant", "statement", "eye-catching"},
}

var moodDescriptions = map[models.Mood]string{
	models.MoodCasual:      "Perfect for a relaxed day",
	models.MoodFormal:      "Polished and professional",
	models.MoodAdventurous: "Ready for an adventure",
	models.MoodCozy:        "Comfortable and warm",
	models.MoodEnergetic:   "Energizing and uplifting",
	models.MoodMinimalist:  "Clean and simple",
	models.MoodBold:        "Statement-making outfit",
}

const fallbackMoodDescription = "Well-coordinated look"

var complementaryPairs = [][2]string{
	{"blue", "orange"},
	{"red", "green"},
	{"yellow", "purple"},
}

var neutralColors = map[string]struct{}{
	"black": {},
	"white": {},
	"gray":  {},
	"beige": {},
	"navy":  {},
}

var (
	// heavyMaterials are dropped above hotThreshold.
	heavyMaterials = []string{"wool", "fleece"}
	// insulatingMaterials are the only non-outerwear pieces kept below coldThreshold.
	insulatingMaterials = []string{"wool", "fleece", "down", "synthetic"}
)

const (
	hotThreshold  = 25.0
	coldThreshold = 10.0
)

// SeasonsFor returns the seasons admissible under the given weather. Unknown
// weather yields nil, which admits only all-season garments.
func SeasonsFor(weather models.WeatherCondition) []models.Season {
	return append([]models.Season(nil), weatherSeasons[weather]...)
}

// MoodKeywords returns the material/tag keywords that align with a mood.
func MoodKeywords(mood models.Mood) []string {
	return append([]string(nil), moodKeywords[mood]...)
}

// MoodDescription returns the canned sentence for a mood, or a generic one.
func MoodDescription(mood models.Mood) string {
	if d, ok := moodDescriptions[mood]; ok {
		return d
	}
	return fallbackMoodDescription
}

// IsNeutralColor reports whether a lower-cased color is in the neutral set.
func IsNeutralColor(color string) bool {
	_, ok := neutralColors[color]
	return ok
}
