package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/temcen/closetmood/pkg/models"
)

// GarmentNormalizer canonicalizes free-text garment attributes before they are stored, so the
// engine's color, material and keyword lookups see one spelling per value.
type GarmentNormalizer struct {
	lower cases.Caser
}

func NewGarmentNormalizer() *GarmentNormalizer {
	return &GarmentNormalizer{lower: cases.Lower(language.Und)}
}

// Normalize validates req and builds the garment fields it describes. ID, owner and
// timestamps are left to the caller.
func (n *GarmentNormalizer) Normalize(req *models.GarmentRequest) (models.Garment, error) {
	name := n.text(req.Name)
	if name == "" {
		return models.Garment{}, fmt.Errorf("%w: name is required", ErrInvalidGarment)
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return models.Garment{}, fmt.Errorf("%w: unknown category %q", ErrInvalidGarment, req.Category)
	}

	season := models.Season(n.token(req.Season))
	if !season.Valid() {
		return models.Garment{}, fmt.Errorf("%w: unknown season %q", ErrInvalidGarment, req.Season)
	}

	color := n.token(req.PrimaryColor)
	if color == "" {
		return models.Garment{}, fmt.Errorf("%w: primary color is required", ErrInvalidGarment)
	}

	return models.Garment{
		Name:           name,
		Category:       category,
		PrimaryColor:   color,
		SecondaryColor: n.optionalToken(req.SecondaryColor),
		Material:       n.optionalToken(req.Material),
		Season:         season,
		ImageURL:       n.optionalText(req.ImageURL),
		Tags:           n.Tags(req.Tags),
	}, nil
}

// Tags lower-cases and de-duplicates tags, dropping blanks and keeping first-seen order.
func (n *GarmentNormalizer) Tags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = n.token(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (n *GarmentNormalizer) text(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

func (n *GarmentNormalizer) token(s string) string {
	return n.lower.String(n.text(s))
}

func (n *GarmentNormalizer) optionalToken(s *string) *string {
	if s == nil {
		return nil
	}
	v := n.token(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (n *GarmentNormalizer) optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
