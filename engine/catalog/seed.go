package catalog

import (
	"context"
	"fmt"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// SeedVehicles is the demo fleet loaded on first startup. Seeding uses the
// same Upsert path as live updates, so re-running it is harmless.
var SeedVehicles = []domain.VehicleRecord{
	{
		ID: "V001", Make: "Toyota", Model: "Land Cruiser", Year: 2024, Price: 180000,
		Features: []string{"4WD", "V8 Engine", "Leather Seats", "7 Seater"},
		Stock:    5,
		Image:    "https://images.unsplash.com/photo-1519641471654-76ce0107ad1b?w=400",
		Description: "Legendary SUV with unmatched off-road capability and luxury comfort",
	},
	{
		ID: "V002", Make: "BMW", Model: "X5", Year: 2024, Price: 320000,
		Features: []string{"AWD", "Hybrid", "Premium Sound", "Panoramic Roof"},
		Stock:    3,
		Image:    "https://images.unsplash.com/photo-1555215695-3004980ad54e?w=400",
		Description: "Premium SAV with cutting-edge technology and dynamic performance",
	},
	{
		ID: "V003", Make: "Mercedes", Model: "GLE", Year: 2024, Price: 350000,
		Features: []string{"4MATIC", "MBUX System", "Air Suspension", "AMG Line"},
		Stock:    2,
		Image:    "https://images.unsplash.com/photo-1618843479313-40f8afb4b4d8?w=400",
		Description: "Sophisticated SUV combining luxury, technology, and performance",
	},
	{
		ID: "V004", Make: "Honda", Model: "CR-V", Year: 2024, Price: 95000,
		Features: []string{"AWD", "Honda Sensing", "Spacious Interior", "Fuel Efficient"},
		Stock:    8,
		Image:    "https://images.unsplash.com/photo-1619767886558-efdc259cde1a?w=400",
		Description: "Reliable and practical SUV perfect for families",
	},
	{
		ID: "V005", Make: "Tesla", Model: "Model Y", Year: 2024, Price: 280000,
		Features: []string{"Electric", "Autopilot", "Long Range", "Premium Interior"},
		Stock:    4,
		Image:    "https://images.unsplash.com/photo-1560958089-b8a1929cea89?w=400",
		Description: "All-electric SUV with incredible performance and technology",
	},
}

// Seed upserts the demo fleet.
func (s *Store) Seed(ctx context.Context) error {
	for _, rec := range SeedVehicles {
		if err := domain.ValidateRecord(rec); err != nil {
			return fmt.Errorf("catalog: seed %s: %w", rec.ID, err)
		}
		if err := s.Upsert(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}
