// Package ingest feeds catalog records into the engine, either in bulk from a
// heterogeneous upload or incrementally from NATS delta messages. Every
// record passes domain validation before it can reach the store or the index;
// rejects are reported with a reason, never silently dropped.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/pkg/fn"
)

// Indexer is the slice of the search service the ingester needs.
type Indexer interface {
	IndexUpsert(ctx context.Context, rec domain.VehicleRecord) error
	IndexDelete(ctx context.Context, id string) error
}

// RecordError is one rejected record in a bulk report.
type RecordError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkReport summarizes a bulk ingestion run.
type BulkReport struct {
	Accepted int           `json:"accepted"`
	Rejected []RecordError `json:"rejected,omitempty"`
}

// Validate is the pipeline gate: malformed records stop here.
var Validate fn.Stage[domain.VehicleRecord, domain.VehicleRecord] = func(_ context.Context, rec domain.VehicleRecord) fn.Result[domain.VehicleRecord] {
	if err := domain.ValidateRecord(rec); err != nil {
		return fn.Err[domain.VehicleRecord](err)
	}
	return fn.Ok(rec)
}

// NewStore creates the stage that persists a validated record and refreshes
// its index entry.
func NewStore(indexer Indexer) fn.Stage[domain.VehicleRecord, string] {
	return func(ctx context.Context, rec domain.VehicleRecord) fn.Result[string] {
		if err := indexer.IndexUpsert(ctx, rec); err != nil {
			return fn.Err[string](fmt.Errorf("store %s: %w", rec.ID, err))
		}
		return fn.Ok(rec.ID)
	}
}

// NewPipeline composes Validate → Store with tracing.
func NewPipeline(indexer Indexer) fn.Stage[domain.VehicleRecord, string] {
	return fn.Then(
		fn.TracedStage("ingest.validate", Validate),
		fn.TracedStage("ingest.store", NewStore(indexer)),
	)
}

// Bulk runs every record through the pipeline with the given parallelism and
// reports the accept/reject split. The report preserves input order for
// rejects so callers can line errors up with their upload.
func Bulk(ctx context.Context, indexer Indexer, records []domain.VehicleRecord, workers int, logger *slog.Logger) BulkReport {
	if logger == nil {
		logger = slog.Default()
	}
	pipeline := NewPipeline(indexer)

	type outcome struct {
		id  string
		err error
	}
	results := fn.ParMap(records, workers, func(rec domain.VehicleRecord) outcome {
		_, err := pipeline(ctx, rec).Unwrap()
		return outcome{id: rec.ID, err: err}
	})

	var report BulkReport
	for _, out := range results {
		if out.err != nil {
			report.Rejected = append(report.Rejected, RecordError{ID: out.id, Reason: out.err.Error()})
			logger.Warn("ingest: record rejected", "id", out.id, "reason", out.err)
			continue
		}
		report.Accepted++
		logger.Debug("ingest: record accepted", "id", out.id)
	}
	return report
}
