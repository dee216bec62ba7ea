package engine

import "github.com/temcen/closetmood/pkg/models"

// maxAccessories bounds how many accessories are tried per top/bottom pair.
// Accessories are combined with the first shoe only, not the full shoe list.
const maxAccessories = 2

// Candidate is a scored garment combination produced during one invocation.
type Candidate struct {
	GarmentIDs []string
	Score      int
	Reasons    []string
}

// roles holds the wardrobe partitioned by category, in wardrobe order.
type roles struct {
	tops        []models.Garment
	bottoms     []models.Garment
	shoes       []models.Garment
	outerwear   []models.Garment
	accessories []models.Garment
}

func partition(garments []models.Garment) roles {
	var r roles
	for _, g := range garments {
		switch g.Category {
		case models.CategoryTop:
			r.tops = append(r.tops, g)
		case models.CategoryBottom:
			r.bottoms = append(r.bottoms, g)
		case models.CategoryShoes:
			r.shoes = append(r.shoes, g)
		case models.CategoryOuterwear:
			r.outerwear = append(r.outerwear, g)
		case models.CategoryAccessory:
			r.accessories = append(r.accessories, g)
		}
	}
	return r
}

// Generate enumerates scored outfit candidates from an already filtered
// wardrobe. Every candidate has exactly one top and one bottom; without both
// roles the result is empty. Growth is tops x bottoms x max(shoes, 1) plus at
// most two accessory variants per pair.
func Generate(garments []models.Garment, mood models.Mood) []Candidate {
	r := partition(garments)
	if len(r.tops) == 0 || len(r.bottoms) == 0 {
		return nil
	}

	shoeOptions := make([]*models.Garment, 0, len(r.shoes))
	for i := range r.shoes {
		shoeOptions = append(shoeOptions, &r.shoes[i])
	}
	if len(shoeOptions) == 0 {
		shoeOptions = append(shoeOptions, nil)
	}
	firstShoe := shoeOptions[0]

	accessories := r.accessories
	if len(accessories) > maxAccessories {
		accessories = accessories[:maxAccessories]
	}

	candidates := make([]Candidate, 0, len(r.tops)*len(r.bottoms)*(len(shoeOptions)+len(accessories)))
	for _, top := range r.tops {
		for _, bottom := range r.bottoms {
			for _, shoe := range shoeOptions {
				candidates = append(candidates, newCandidate(assemble(top, bottom, shoe, nil), mood))
			}
			for i := range accessories {
				candidates = append(candidates, newCandidate(assemble(top, bottom, firstShoe, &accessories[i]), mood))
			}
		}
	}
	return candidates
}

// assemble lists the real pieces of an outfit in top, bottom, shoe, accessory order.
func assemble(top, bottom models.Garment, shoe, accessory *models.Garment) []models.Garment {
	pieces := make([]models.Garment, 0, 4)
	pieces = append(pieces, top, bottom)
	if shoe != nil {
		pieces = append(pieces, *shoe)
	}
	if accessory != nil {
		pieces = append(pieces, *accessory)
	}
	return pieces
}

func newCandidate(pieces []models.Garment, mood models.Mood) Candidate {
	ids := make([]string, len(pieces))
	for i, p := range pieces {
		ids[i] = p.ID
	}
	score, reasons := Score(pieces, mood)
	return Candidate{GarmentIDs: ids, Score: score, Reasons: reasons}
}
