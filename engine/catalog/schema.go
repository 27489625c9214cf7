package catalog

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// schemaStatements are idempotent: IF NOT EXISTS makes repeated startup safe.
var schemaStatements = []string{
	"CREATE CONSTRAINT vehicle_id IF NOT EXISTS FOR (v:Vehicle) REQUIRE v.id IS UNIQUE",
	"CREATE INDEX vehicle_make IF NOT EXISTS FOR (v:Vehicle) ON (v.make)",
	"CREATE INDEX vehicle_price IF NOT EXISTS FOR (v:Vehicle) ON (v.price)",
	"CREATE INDEX vehicle_year IF NOT EXISTS FOR (v:Vehicle) ON (v.year)",
}

// InitSchema creates the uniqueness constraint and lookup indexes.
func (s *Store) InitSchema(ctx context.Context) error {
	sess := s.driver.NewSession(ctx, neo4j.SessionConfig{})
	defer sess.Close(ctx)

	for _, stmt := range schemaStatements {
		if _, err := sess.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("catalog: init schema: %w", err)
		}
	}
	return nil
}
