package models

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryTop       Category = "top"
	CategoryBottom    Category = "bottom"
	CategoryShoes     Category = "shoes"
	CategoryOuterwear Category = "outerwear"
	CategoryAccessory Category = "accessory"
)

// categoryAliases maps the plural names used by the web client onto the canonical categories.
var categoryAliases = map[string]Category{
	"top":         CategoryTop,
	"tops":        CategoryTop,
	"bottom":      CategoryBottom,
	"bottoms":     CategoryBottom,
	"shoe":        CategoryShoes,
	"shoes":       CategoryShoes,
	"outerwear":   CategoryOuterwear,
	"accessory":   CategoryAccessory,
	"accessories": CategoryAccessory,
}

// ParseCategory resolves a category name, accepting singular and plural spellings.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

type Season string

const (
	SeasonSpring    Season = "spring"
	SeasonSummer    Season = "summer"
	SeasonFall      Season = "fall"
	SeasonWinter    Season = "winter"
	SeasonAllSeason Season = "all-season"
)

func (s Season) Valid() bool {
	switch s {
	case SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter, SeasonAllSeason:
		return true
	}
	return false
}

type Garment struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Category       Category  `json:"category" db:"category"`
	PrimaryColor   string    `json:"primary_color" db:"primary_color"`
	SecondaryColor *string   `json:"secondary_color,omitempty" db:"secondary_color"`
	Material       *string   `json:"material,omitempty" db:"material"`
	Season         Season    `json:"season" db:"season"`
	ImageURL       *string   `json:"image_url,omitempty" db:"image_url"`
	Tags           []string  `json:"tags" db:"tags"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// MaterialOrEmpty returns the garment material, or "" when none is recorded.
func (g Garment) MaterialOrEmpty() string {
	if g.Material == nil {
		return ""
	}
	return *g.Material
}

type GarmentRequest struct {
	Name           string   `json:"name" validate:"required,min=1,max=100"`
	Category       string   `json:"category" validate:"required,oneof=top tops bottom bottoms shoes outerwear accessory accessories"`
	PrimaryColor   string   `json:"primary_color" validate:"required,max=40"`
	SecondaryColor *string  `json:"secondary_color,omitempty" validate:"omitempty,max=40"`
	Material       *string  `json:"material,omitempty" validate:"omitempty,max=60"`
	Season         string   `json:"season" validate:"required,oneof=spring summer fall winter all-season"`
	ImageURL       *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	Tags           []string `json:"tags,omitempty" validate:"max=20,dive,max=40"`
}

type GarmentListResponse struct {
	Garments []Garment `json:"garments"`
	Total    int       `json:"total"`
}
