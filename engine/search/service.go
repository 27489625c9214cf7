// Package search composes the retrieval pipeline: normalize the query, embed
// it, rank the catalog against the current index snapshot, enforce extracted
// hard constraints, filter by relevance, and paginate. It is the only package
// API callers touch.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ShowroomAI/showroom-mvp/engine/accuracy"
	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/engine/index"
	"github.com/ShowroomAI/showroom-mvp/engine/intent"
	"github.com/ShowroomAI/showroom-mvp/engine/normalize"
	"github.com/ShowroomAI/showroom-mvp/engine/page"
	"github.com/ShowroomAI/showroom-mvp/engine/relevance"
	"github.com/ShowroomAI/showroom-mvp/pkg/metrics"
	"github.com/ShowroomAI/showroom-mvp/pkg/resilience"
)

// DefaultPageSize matches the showroom UI's five-per-page layout.
const DefaultPageSize = 5

// searchK bounds the pre-filter candidate pool.
const searchK = 100

// CatalogStore is the slice of the knowledge store the service needs.
type CatalogStore interface {
	GetAll(ctx context.Context) ([]domain.VehicleRecord, error)
	GetByID(ctx context.Context, id string) (domain.VehicleRecord, error)
	Upsert(ctx context.Context, rec domain.VehicleRecord) error
	Delete(ctx context.Context, id string) error
}

// Request is one search invocation.
type Request struct {
	Query        string           `json:"query"`
	LanguageHint string           `json:"language_hint,omitempty"`
	Page         int              `json:"page,omitempty"`
	PageSize     int              `json:"page_size,omitempty"`
	Policy       *relevance.Policy `json:"policy,omitempty"`
}

// Service wires the pipeline stages together.
type Service struct {
	normalizer *normalize.Normalizer
	index      *index.Index
	store      CatalogStore
	embedder   index.Embedder
	breaker    *resilience.Breaker
	policy     relevance.Policy
	logger     *slog.Logger
	tracer     trace.Tracer

	searches   *metrics.Counter
	errorsCt   *metrics.Counter
	latency    *metrics.Histogram
	resultSize *metrics.Histogram
}

// Options configures optional service collaborators.
type Options struct {
	// Policy overrides the default relevance policy.
	Policy relevance.Policy
	// Breaker guards the embedding provider. Nil disables circuit breaking.
	Breaker *resilience.Breaker
	// Metrics registers service counters. Nil disables instrumentation.
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// New creates a Service.
func New(normalizer *normalize.Normalizer, ix *index.Index, store CatalogStore, embedder index.Embedder, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.Policy
	if policy == (relevance.Policy{}) {
		policy = relevance.DefaultPolicy
	}

	s := &Service{
		normalizer: normalizer,
		index:      ix,
		store:      store,
		embedder:   embedder,
		breaker:    opts.Breaker,
		policy:     policy,
		logger:     logger,
		tracer:     otel.Tracer("search"),
	}
	if reg := opts.Metrics; reg != nil {
		s.searches = reg.Counter("search_requests_total", "Total search requests")
		s.errorsCt = reg.Counter("search_errors_total", "Search requests that failed")
		s.latency = reg.Histogram("search_duration_seconds", "Search latency", nil)
		s.resultSize = reg.Histogram("search_results", "Post-filter result count per search", []float64{0, 1, 2, 5, 10, 20, 50, 100})
	}
	return s
}

// Search runs the full pipeline and returns one page of ranked candidates
// with the accuracy report for the whole result set.
func (s *Service) Search(ctx context.Context, req Request) (domain.PagedResult, error) {
	ctx, span := s.tracer.Start(ctx, "search.Search")
	defer span.End()
	start := time.Now()
	if s.searches != nil {
		s.searches.Inc()
	}

	result, err := s.search(ctx, req)
	if err != nil {
		if s.errorsCt != nil {
			s.errorsCt.Inc()
		}
		span.RecordError(err)
		return domain.PagedResult{}, err
	}

	if s.latency != nil {
		s.latency.Since(start)
	}
	if s.resultSize != nil {
		s.resultSize.Observe(float64(result.Total))
	}
	span.SetAttributes(
		attribute.Int("search.total", result.Total),
		attribute.String("search.lang", result.Query.DetectedLanguage),
	)
	return result, nil
}

func (s *Service) search(ctx context.Context, req Request) (domain.PagedResult, error) {
	query, err := s.normalizer.Normalize(ctx, req.Query, req.LanguageHint)
	if err != nil {
		return domain.PagedResult{}, err
	}

	pageNum := req.Page
	if pageNum < 1 {
		pageNum = 1
	}
	pageSize := req.PageSize
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}
	query.Page = pageNum
	query.PageSize = pageSize

	policy := s.policy
	if req.Policy != nil {
		if err := req.Policy.Validate(); err != nil {
			return domain.PagedResult{}, err
		}
		policy = *req.Policy
	}

	vec, err := s.embed(ctx, query.Canonical)
	if err != nil {
		return domain.PagedResult{}, fmt.Errorf("search: %w: %v", domain.ErrSearchUnavailable, err)
	}

	candidates, err := s.searchIndex(ctx, vec)
	if err != nil {
		return domain.PagedResult{}, err
	}
	searched := len(candidates)

	candidates, err = s.applyIntent(ctx, query.Canonical, candidates)
	if err != nil {
		return domain.PagedResult{}, err
	}

	kept := relevance.Filter(candidates, policy)
	report := accuracy.Observe(kept, searched)

	pg, err := page.Paginate(kept, pageNum, pageSize)
	if err != nil {
		return domain.PagedResult{}, err
	}

	return domain.PagedResult{
		Items:      pg.Items,
		Total:      pg.Total,
		TotalPages: pg.TotalPages,
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		Query:      query,
		Accuracy:   report,
	}, nil
}

// embed routes the embedding call through the circuit breaker when present.
func (s *Service) embed(ctx context.Context, text string) ([]float32, error) {
	if s.breaker == nil {
		return s.embedder.Embed(ctx, text)
	}
	var vec []float32
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		vec, err = s.embedder.Embed(ctx, text)
		return err
	})
	return vec, err
}

// searchIndex queries the current snapshot. An inconsistent index triggers
// one rebuild from the knowledge store before giving up.
func (s *Service) searchIndex(ctx context.Context, vec []float32) ([]domain.RankedCandidate, error) {
	candidates, err := s.index.Search(vec, searchK)
	if err == nil {
		return candidates, nil
	}
	if !errors.Is(err, domain.ErrIndexInconsistent) {
		return nil, err
	}

	s.logger.Warn("search: inconsistent index, rebuilding", "err", err)
	if rerr := s.index.Rebuild(ctx, s.store, 4); rerr != nil {
		return nil, fmt.Errorf("search: %w: rebuild failed: %v", domain.ErrSearchUnavailable, rerr)
	}
	return s.index.Search(vec, searchK)
}

// applyIntent drops candidates that contradict an explicit constraint in the
// query, then restores dense ranks.
func (s *Service) applyIntent(ctx context.Context, canonical string, candidates []domain.RankedCandidate) ([]domain.RankedCandidate, error) {
	it := intent.Extract(canonical)
	if !it.HasConstraints() || len(candidates) == 0 {
		return candidates, nil
	}

	kept := candidates[:0]
	for _, c := range candidates {
		rec, err := s.store.GetByID(ctx, c.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Index row without a catalog record; skip it.
				s.logger.Warn("search: candidate missing from catalog", "id", c.ID)
				continue
			}
			return nil, fmt.Errorf("search: %w: %v", domain.ErrSearchUnavailable, err)
		}
		if it.Matches(rec) {
			kept = append(kept, c)
		}
	}
	for i := range kept {
		kept[i].Rank = i + 1
	}
	return kept, nil
}

// Evaluate runs the retrieval pipeline for a query and scores the kept set
// against a ground-truth judgment. Pagination is skipped: the judgment is
// about the whole result set.
func (s *Service) Evaluate(ctx context.Context, raw string, judgment domain.RelevanceJudgment) (domain.AccuracyReport, error) {
	ctx, span := s.tracer.Start(ctx, "search.Evaluate")
	defer span.End()

	query, err := s.normalizer.Normalize(ctx, raw, "")
	if err != nil {
		return domain.AccuracyReport{}, err
	}
	vec, err := s.embed(ctx, query.Canonical)
	if err != nil {
		return domain.AccuracyReport{}, fmt.Errorf("search: %w: %v", domain.ErrSearchUnavailable, err)
	}
	candidates, err := s.searchIndex(ctx, vec)
	if err != nil {
		return domain.AccuracyReport{}, err
	}
	candidates, err = s.applyIntent(ctx, query.Canonical, candidates)
	if err != nil {
		return domain.AccuracyReport{}, err
	}
	kept := relevance.Filter(candidates, s.policy)
	return accuracy.Evaluate(kept, judgment), nil
}

// IndexUpsert validates a record, writes it to the knowledge store, and
// refreshes its index entry. On embedding failure the store write stands and
// the previous index entry is retained; a later rebuild reconciles the two.
func (s *Service) IndexUpsert(ctx context.Context, rec domain.VehicleRecord) error {
	ctx, span := s.tracer.Start(ctx, "search.IndexUpsert")
	defer span.End()

	if err := domain.ValidateRecord(rec); err != nil {
		return err
	}
	if err := s.store.Upsert(ctx, rec); err != nil {
		return err
	}
	if err := s.index.Upsert(ctx, rec.ID, domain.EmbedText(rec)); err != nil {
		s.logger.Warn("index entry stale after store write", "id", rec.ID, "err", err)
		return err
	}
	return nil
}

// IndexDelete removes a record from the knowledge store and the index.
// Deleting an absent ID is a no-op.
func (s *Service) IndexDelete(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "search.IndexDelete")
	defer span.End()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.index.Delete(id)
	return nil
}

// Rebuild re-embeds the full catalog into a fresh index version.
func (s *Service) Rebuild(ctx context.Context, workers int) error {
	ctx, span := s.tracer.Start(ctx, "search.Rebuild")
	defer span.End()
	return s.index.Rebuild(ctx, s.store, workers)
}
