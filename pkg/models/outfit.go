package models

import "time"

type Mood string

const (
	MoodCasual      Mood = "casual"
	MoodFormal      Mood = "formal"
	MoodAdventurous Mood = "adventurous"
	MoodCozy        Mood = "cozy"
	MoodEnergetic   Mood = "energetic"
	MoodMinimalist  Mood = "minimalist"
	MoodBold        Mood = "bold"
)

// DefaultMood is used for scoring when a request carries no mood.
const DefaultMood = MoodCasual

type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "sunny"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRainy  WeatherCondition = "rainy"
	WeatherSnowy  WeatherCondition = "snowy"
	WeatherWindy  WeatherCondition = "windy"
	WeatherHot    WeatherCondition = "hot"
	WeatherCold   WeatherCondition = "cold"
)

// RecommendationInput is the per-request context handed to the engine.
// Empty Mood/Weather and a nil Temperature mean "not supplied".
type RecommendationInput struct {
	UserID      string           `json:"user_id"`
	Mood        Mood             `json:"mood,omitempty"`
	Weather     WeatherCondition `json:"weather,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	Occasion    string           `json:"occasion,omitempty"`
	LimitCount  int              `json:"limit_count,omitempty"`
}

type Outfit struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	GarmentIDs     []string         `json:"garment_ids"`
	ContextWeather WeatherCondition `json:"context_weather,omitempty"`
	ContextMood    Mood             `json:"context_mood,omitempty"`
	Explanation    string           `json:"explanation"`
	Score          int              `json:"score"`
	CreatedAt      time.Time        `json:"created_at"`
}

type RecommendationOutput struct {
	Outfits        []Outfit `json:"outfits"`
	Explanation    string   `json:"explanation"`
	TotalGenerated int      `json:"total_generated"`
}

// RecommendationRequest is the HTTP body for outfit recommendations. The user
// comes from the auth context, never from the body.
type RecommendationRequest struct {
	Mood        string   `json:"mood,omitempty" validate:"omitempty,oneof=casual formal adventurous cozy energetic minimalist bold"`
	Weather     string   `json:"weather,omitempty" validate:"omitempty,oneof=sunny cloudy rainy snowy windy hot cold"`
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,min=-60,max=60"`
	Occasion    string   `json:"occasion,omitempty" validate:"omitempty,max=60"`
	LimitCount  int      `json:"limit_count,omitempty" validate:"omitempty,min=1,max=50"`
}

// ToInput converts the request into engine input for the given user.
func (r RecommendationRequest) ToInput(userID string) RecommendationInput {
	return RecommendationInput{
		UserID:      userID,
		Mood:        Mood(r.Mood),
		Weather:     WeatherCondition(r.Weather),
		Temperature: r.Temperature,
		Occasion:    r.Occasion,
		LimitCount:  r.LimitCount,
	}
}
