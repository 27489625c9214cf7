package catalog

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// MakeStats holds per-make inventory statistics.
type MakeStats struct {
	Make     string  `json:"make"`
	Vehicles int64   `json:"vehicles"`
	Stock    int64   `json:"stock"`
	AvgPrice float64 `json:"avg_price"`
}

// Stats is a catalog-wide snapshot used by the health and admin endpoints.
type Stats struct {
	Vehicles int64       `json:"vehicles"`
	MinPrice float64     `json:"min_price"`
	MaxPrice float64     `json:"max_price"`
	ByMake   []MakeStats `json:"by_make,omitempty"`
}

// CatalogStats returns vehicle counts and the price range, grouped by make.
func (s *Store) CatalogStats(ctx context.Context) (Stats, error) {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	var stats Stats

	cypher := `MATCH (v:Vehicle)
		RETURN count(v) AS vehicles, min(v.price) AS min_price, max(v.price) AS max_price`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return stats, fmt.Errorf("catalog: stats: %w", err)
	}
	if result.Next(ctx) {
		rec := result.Record()
		if n, ok := rec.Get("vehicles"); ok {
			if c, ok := n.(int64); ok {
				stats.Vehicles = c
			}
		}
		if lo, ok := rec.Get("min_price"); ok {
			stats.MinPrice = asFloat(lo)
		}
		if hi, ok := rec.Get("max_price"); ok {
			stats.MaxPrice = asFloat(hi)
		}
	}

	cypher = `MATCH (v:Vehicle)
		RETURN v.make AS make, count(v) AS vehicles, sum(v.stock) AS stock, avg(v.price) AS avg_price
		ORDER BY vehicles DESC, make`
	result, err = sess.Run(ctx, cypher, nil)
	if err != nil {
		return stats, fmt.Errorf("catalog: stats by make: %w", err)
	}
	for result.Next(ctx) {
		rec := result.Record()
		m := MakeStats{}
		if v, ok := rec.Get("make"); ok {
			if name, ok := v.(string); ok {
				m.Make = name
			}
		}
		if v, ok := rec.Get("vehicles"); ok {
			if c, ok := v.(int64); ok {
				m.Vehicles = c
			}
		}
		if v, ok := rec.Get("stock"); ok {
			if c, ok := v.(int64); ok {
				m.Stock = c
			}
		}
		if v, ok := rec.Get("avg_price"); ok {
			m.AvgPrice = asFloat(v)
		}
		stats.ByMake = append(stats.ByMake, m)
	}
	return stats, nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
