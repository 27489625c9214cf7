// Package catalog is the Neo4j-backed knowledge store for vehicle records.
// It is the system of record: the vector index is always rebuildable from it.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/pkg/repo"
)

// Store provides catalog operations on top of the generic Neo4j repository.
type Store struct {
	driver   neo4j.DriverWithContext
	vehicles *repo.Neo4jRepo[domain.VehicleRecord, string]
}

// New creates a new Store.
func New(driver neo4j.DriverWithContext) *Store {
	return &Store{
		driver:   driver,
		vehicles: repo.NewNeo4jRepo[domain.VehicleRecord, string](driver, "Vehicle", recordToMap, recordFromNeo4j),
	}
}

// GetByID returns a vehicle by ID. Returns domain.ErrNotFound when the ID is
// not in the catalog.
func (s *Store) GetByID(ctx context.Context, id string) (domain.VehicleRecord, error) {
	rec, err := s.vehicles.Get(ctx, id)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return domain.VehicleRecord{}, fmt.Errorf("catalog: get %s: %w", id, domain.ErrNotFound)
		}
		return domain.VehicleRecord{}, fmt.Errorf("catalog: get %s: %w", id, err)
	}
	return rec, nil
}

// GetAll returns every vehicle in the catalog ordered by ID. Used by index
// rebuilds, so it pages through the full set rather than applying a cap.
func (s *Store) GetAll(ctx context.Context) ([]domain.VehicleRecord, error) {
	var all []domain.VehicleRecord
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		batch, err := s.vehicles.List(ctx, repo.ListOpts{Offset: offset, Limit: pageSize})
		if err != nil {
			return nil, fmt.Errorf("catalog: list: %w", err)
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
}

// Upsert creates or updates a vehicle node keyed on its ID. The record must
// have passed domain.ValidateRecord before reaching the store.
func (s *Store) Upsert(ctx context.Context, rec domain.VehicleRecord) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	cypher := `MERGE (v:Vehicle {id: $id}) SET v += $props, v.updated_at = datetime()`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":    rec.ID,
		"props": recordToMap(rec),
	})
	if err != nil {
		return fmt.Errorf("catalog: upsert %s: %w", rec.ID, err)
	}
	return nil
}

// Delete removes a vehicle node. Deleting an absent ID is not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.vehicles.Delete(ctx, id); err != nil {
		return fmt.Errorf("catalog: delete %s: %w", id, err)
	}
	return nil
}

// recordToMap converts a record to Neo4j node properties.
func recordToMap(rec domain.VehicleRecord) map[string]any {
	props := map[string]any{
		"id":          rec.ID,
		"make":        rec.Make,
		"model":       rec.Model,
		"year":        rec.Year,
		"price":       rec.Price,
		"features":    rec.Features,
		"stock":       rec.Stock,
		"image":       rec.Image,
		"description": rec.Description,
	}
	if !rec.UpdatedAt.IsZero() {
		props["updated_at"] = rec.UpdatedAt
	}
	return props
}

// recordFromNeo4j constructs a record from a result row containing node "n".
func recordFromNeo4j(r *neo4j.Record) (domain.VehicleRecord, error) {
	node, _, err := neo4j.GetRecordValue[dbtype.Node](r, "n")
	if err != nil {
		return domain.VehicleRecord{}, err
	}
	return recordFromProps(node.Props), nil
}

// recordFromProps constructs a record from Neo4j node properties. Numeric
// properties come back as int64 or float64 depending on how they were stored.
func recordFromProps(props map[string]any) domain.VehicleRecord {
	rec := domain.VehicleRecord{
		ID:          strProp(props, "id"),
		Make:        strProp(props, "make"),
		Model:       strProp(props, "model"),
		Year:        int(intProp(props, "year")),
		Price:       floatProp(props, "price"),
		Stock:       int(intProp(props, "stock")),
		Image:       strProp(props, "image"),
		Description: strProp(props, "description"),
	}
	if raw, ok := props["features"].([]any); ok {
		for _, f := range raw {
			if s, ok := f.(string); ok {
				rec.Features = append(rec.Features, s)
			}
		}
	}
	switch at := props["updated_at"].(type) {
	case time.Time:
		rec.UpdatedAt = at
	case dbtype.LocalDateTime:
		rec.UpdatedAt = at.Time()
	}
	return rec
}

func strProp(props map[string]any, key string) string {
	if s, ok := props[key].(string); ok {
		return s
	}
	return ""
}

func intProp(props map[string]any, key string) int64 {
	switch v := props[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	}
	return 0
}

func floatProp(props map[string]any, key string) float64 {
	switch v := props[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	}
	return 0
}
