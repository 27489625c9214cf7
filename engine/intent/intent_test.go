package intent

import (
	"testing"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"20k", 20_000, true},
		{"300K", 300_000, true},
		{"2 lakh", 200_000, true},
		{"2 lakhs", 200_000, true},
		{"3 lacs", 300_000, true},
		{"1.5 crore", 15_000_000, true},
		{"2m", 2_000_000, true},
		{"1.5 million", 1_500_000, true},
		{"AED 180,000", 180_000, true},
		{"$95000", 95_000, true},
		{"150000", 150_000, true},
		{"two lakh", 200_000, true},
		{"five thousand", 5_000, true},
		{"", 0, false},
		{"cheap", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizePrice(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("NormalizePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		query string
		check func(t *testing.T, it Intent)
	}{
		{"make and year", "2024 Toyota for the family", func(t *testing.T, it Intent) {
			if it.Make != "Toyota" {
				t.Errorf("make = %q", it.Make)
			}
			if it.Year != 2024 {
				t.Errorf("year = %d", it.Year)
			}
		}},
		{"make alias", "a used merc... I mean benz", func(t *testing.T, it Intent) {
			if it.Make != "Mercedes" {
				t.Errorf("make = %q", it.Make)
			}
		}},
		{"model", "land cruiser with sunroof", func(t *testing.T, it Intent) {
			if it.Model != "land cruiser" {
				t.Errorf("model = %q", it.Model)
			}
			if !hasFeature(it.Features, "sunroof") {
				t.Errorf("features = %v", it.Features)
			}
		}},
		{"price under", "family SUV under 150k", func(t *testing.T, it Intent) {
			if it.MaxPrice != 150_000 {
				t.Errorf("max = %v", it.MaxPrice)
			}
			if it.MinPrice != 0 {
				t.Errorf("min = %v", it.MinPrice)
			}
			if it.BodyType != "suv" {
				t.Errorf("body = %q", it.BodyType)
			}
		}},
		{"price over", "luxury sedan above AED 250,000", func(t *testing.T, it Intent) {
			if it.MinPrice != 250_000 {
				t.Errorf("min = %v", it.MinPrice)
			}
			if it.BodyType != "sedan" {
				t.Errorf("body = %q", it.BodyType)
			}
		}},
		{"price between", "something between 100k and 200k", func(t *testing.T, it Intent) {
			if it.MinPrice != 100_000 || it.MaxPrice != 200_000 {
				t.Errorf("range = [%v, %v]", it.MinPrice, it.MaxPrice)
			}
		}},
		{"between reversed", "between 200k and 100k", func(t *testing.T, it Intent) {
			if it.MinPrice != 100_000 || it.MaxPrice != 200_000 {
				t.Errorf("range = [%v, %v]", it.MinPrice, it.MaxPrice)
			}
		}},
		{"luxury implies price floor", "a luxury car", func(t *testing.T, it Intent) {
			if it.MinPrice != 200_000 {
				t.Errorf("min = %v", it.MinPrice)
			}
		}},
		{"luxury keeps explicit floor", "luxury car above 400k", func(t *testing.T, it Intent) {
			if it.MinPrice != 400_000 {
				t.Errorf("min = %v", it.MinPrice)
			}
		}},
		{"no constraints", "something nice", func(t *testing.T, it Intent) {
			if it.HasConstraints() {
				t.Errorf("unexpected constraints: %+v", it)
			}
		}},
		{"electric feature", "an electric SUV", func(t *testing.T, it Intent) {
			if !hasFeature(it.Features, "electric") {
				t.Errorf("features = %v", it.Features)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Extract(tt.query))
		})
	}
}

func TestMatches(t *testing.T) {
	landCruiser := domain.VehicleRecord{
		ID: "V001", Make: "Toyota", Model: "Land Cruiser", Year: 2024, Price: 180000,
		Features: []string{"4WD", "7 Seater"},
	}
	modelY := domain.VehicleRecord{
		ID: "V005", Make: "Tesla", Model: "Model Y", Year: 2024, Price: 280000,
		Features: []string{"Electric", "Autopilot"},
	}

	tests := []struct {
		name string
		it   Intent
		rec  domain.VehicleRecord
		want bool
	}{
		{"make match", Intent{Make: "Toyota"}, landCruiser, true},
		{"make mismatch", Intent{Make: "Toyota"}, modelY, false},
		{"make case-insensitive", Intent{Make: "toyota"}, landCruiser, true},
		{"year match", Intent{Year: 2024}, landCruiser, true},
		{"year mismatch", Intent{Year: 2023}, landCruiser, false},
		{"max price holds", Intent{MaxPrice: 200_000}, landCruiser, true},
		{"max price excludes", Intent{MaxPrice: 200_000}, modelY, false},
		{"min price excludes", Intent{MinPrice: 200_000}, landCruiser, false},
		{"model substring", Intent{Model: "land cruiser"}, landCruiser, true},
		{"suv via model catalog", Intent{BodyType: "suv"}, landCruiser, true},
		{"no constraints match all", Intent{}, modelY, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.it.Matches(tt.rec); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}
