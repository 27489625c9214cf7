// Package intent extracts structured search constraints (make, model, year,
// price bounds, requested features) from canonical query text. The search
// service applies the hard constraints as exact post-filters so a result can
// never contradict something the user explicitly asked for.
package intent

import (
	"regexp"
	"strings"
)

// Intent holds the structured constraints found in a query. Zero values mean
// "not specified".
type Intent struct {
	Make     string   `json:"make,omitempty"`
	Model    string   `json:"model,omitempty"`
	Year     int      `json:"year,omitempty"`
	MinPrice float64  `json:"min_price,omitempty"`
	MaxPrice float64  `json:"max_price,omitempty"`
	Features []string `json:"features,omitempty"`
	BodyType string   `json:"body_type,omitempty"`
}

// HasConstraints reports whether any hard constraint was extracted.
func (it Intent) HasConstraints() bool {
	return it.Make != "" || it.Model != "" || it.Year != 0 ||
		it.MinPrice != 0 || it.MaxPrice != 0 || it.BodyType != ""
}

// makeAliases maps abbreviations/nicknames to canonical make names.
var makeAliases = map[string]string{
	"toyota": "Toyota", "honda": "Honda", "nissan": "Nissan", "ford": "Ford",
	"bmw": "BMW", "mercedes": "Mercedes", "benz": "Mercedes",
	"mercedes-benz": "Mercedes", "audi": "Audi", "lexus": "Lexus",
	"tesla": "Tesla", "hyundai": "Hyundai", "kia": "Kia", "byd": "BYD",
	"mazda": "Mazda", "chevrolet": "Chevrolet", "chevy": "Chevrolet",
	"volkswagen": "Volkswagen", "vw": "Volkswagen", "porsche": "Porsche",
	"land rover": "Land Rover", "range rover": "Land Rover", "jaguar": "Jaguar",
}

// knownModels are model names recognized without a make.
var knownModels = []string{
	"land cruiser", "camry", "corolla", "prado", "accord", "civic",
	"altima", "x5", "x3", "gle", "glc", "a4", "a6", "q5", "q7", "rav4",
	"highlander", "pilot", "cr-v", "crv", "pathfinder", "rogue",
	"mustang", "f-150", "explorer", "escape", "bronco", "model y", "model 3",
}

// featureKeywords maps a requested feature to the phrases that signal it.
var featureKeywords = map[string][]string{
	"family":     {"family", "families", "7 seat", "seven seat", "8 seat", "spacious"},
	"turbo":      {"turbo", "turbocharged", "performance"},
	"hybrid":     {"hybrid", "fuel efficient", "economy"},
	"electric":   {"electric", " ev ", "battery", "plug-in"},
	"luxury":     {"luxury", "premium", "high-end"},
	"safety":     {"safety", "airbag", "collision", "lane assist"},
	"comfort":    {"comfort", "leg space", "legroom", "leather"},
	"technology": {"carplay", "android auto", "touchscreen"},
	"4wd":        {"4wd", "4x4", "awd", "all-wheel", "off-road"},
	"sunroof":    {"sunroof", "panoramic", "moonroof"},
	"navigation": {"navigation", "gps"},
	"parking":    {"parking sensor", "parking camera", "360 camera", "reverse camera"},
}

var yearRe = regexp.MustCompile(`\b(20\d{2})\b`)

var underRe = regexp.MustCompile(`(?:under|below|less than|max|maximum|up ?to)\s+(?:aed\s+)?([\d.,]+\s*(?:k|lakhs?|lacs?|thousand|million|m|crores?)?)`)
var overRe = regexp.MustCompile(`(?:above|over|more than|min|minimum)\s+(?:aed\s+)?([\d.,]+\s*(?:k|lakhs?|lacs?|thousand|million|m|crores?)?)`)
var betweenRe = regexp.MustCompile(`between\s+(?:aed\s+)?([\d.,]+\s*(?:k|lakhs?|lacs?)?)\s+(?:and|to)\s+(?:aed\s+)?([\d.,]+\s*(?:k|lakhs?|lacs?)?)`)

// Extract parses the canonical (English) query text into an Intent.
func Extract(query string) Intent {
	q := " " + strings.ToLower(query) + " "
	var it Intent

	// Year: plausible model years only.
	if m := yearRe.FindStringSubmatch(q); m != nil {
		if y := atoiSafe(m[1]); y >= 2000 && y <= 2030 {
			it.Year = y
		}
	}

	// Make: longest alias first so "land rover" beats nothing shorter.
	bestAlias := ""
	for alias, canonical := range makeAliases {
		if strings.Contains(q, alias) && len(alias) > len(bestAlias) {
			bestAlias = alias
			it.Make = canonical
		}
	}

	for _, model := range knownModels {
		if strings.Contains(q, model) {
			it.Model = model
			break
		}
	}

	// Price bounds. "between" wins over single-sided patterns.
	if m := betweenRe.FindStringSubmatch(q); m != nil {
		lo, okLo := NormalizePrice(m[1])
		hi, okHi := NormalizePrice(m[2])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			it.MinPrice, it.MaxPrice = lo, hi
		}
	} else {
		if m := underRe.FindStringSubmatch(q); m != nil {
			if v, ok := NormalizePrice(m[1]); ok {
				it.MaxPrice = v
			}
		}
		if m := overRe.FindStringSubmatch(q); m != nil {
			if v, ok := NormalizePrice(m[1]); ok {
				it.MinPrice = v
			}
		}
	}

	for feature, keywords := range featureKeywords {
		for _, kw := range keywords {
			if strings.Contains(q, kw) {
				it.Features = append(it.Features, feature)
				break
			}
		}
	}

	switch {
	case containsAny(q, "suv", "sport utility", "crossover"):
		it.BodyType = "suv"
	case containsAny(q, "sedan", "saloon"):
		it.BodyType = "sedan"
	case containsAny(q, "truck", "pickup", "pick-up"):
		it.BodyType = "truck"
	}

	// Luxury implies a price floor when none was given, mirroring the
	// catalog's premium segment.
	if it.MinPrice == 0 && hasFeature(it.Features, "luxury") {
		it.MinPrice = 200_000
	}

	return it
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hasFeature(features []string, want string) bool {
	for _, f := range features {
		if f == want {
			return true
		}
	}
	return false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
