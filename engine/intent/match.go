package intent

import (
	"strings"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// Matches reports whether a record satisfies every hard constraint in the
// intent. Feature requests are soft signals for ranking and are not enforced
// here, except "luxury" which is expressed as the price floor set by Extract.
func (it Intent) Matches(rec domain.VehicleRecord) bool {
	if it.Make != "" && !strings.EqualFold(rec.Make, it.Make) {
		return false
	}
	if it.Model != "" && !strings.Contains(strings.ToLower(rec.Model), it.Model) {
		return false
	}
	if it.Year != 0 && rec.Year != it.Year {
		return false
	}
	if it.MinPrice != 0 && rec.Price < it.MinPrice {
		return false
	}
	if it.MaxPrice != 0 && rec.Price > it.MaxPrice {
		return false
	}
	if it.BodyType != "" && !matchesBody(rec, it.BodyType) {
		return false
	}
	return true
}

// bodyTypeModels maps body types to model names known to belong to them.
// Records carry no explicit body-type attribute, so classification falls back
// to the model catalog plus the record's own feature tags.
var bodyTypeModels = map[string][]string{
	"suv":   {"land cruiser", "prado", "rav4", "highlander", "pilot", "cr-v", "crv", "x5", "x3", "gle", "glc", "q5", "q7", "pathfinder", "rogue", "explorer", "escape", "model y", "bronco"},
	"sedan": {"camry", "corolla", "accord", "civic", "altima", "a4", "a6", "model 3"},
	"truck": {"f-150", "tundra", "silverado", "ranger", "hilux"},
}

func matchesBody(rec domain.VehicleRecord, body string) bool {
	model := strings.ToLower(rec.Model)
	for _, m := range bodyTypeModels[body] {
		if strings.Contains(model, m) {
			return true
		}
	}
	for _, f := range rec.Features {
		if strings.EqualFold(f, body) {
			return true
		}
	}
	return false
}
