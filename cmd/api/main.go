// Package main implements the Showroom search API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ShowroomAI/showroom-mvp/engine/catalog"
	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/engine/index"
	"github.com/ShowroomAI/showroom-mvp/engine/ingest"
	"github.com/ShowroomAI/showroom-mvp/engine/normalize"
	"github.com/ShowroomAI/showroom-mvp/engine/relevance"
	"github.com/ShowroomAI/showroom-mvp/engine/search"
	"github.com/ShowroomAI/showroom-mvp/pkg/metrics"
	"github.com/ShowroomAI/showroom-mvp/pkg/mid"
	"github.com/ShowroomAI/showroom-mvp/pkg/ollama"
	"github.com/ShowroomAI/showroom-mvp/pkg/resilience"
	"github.com/ShowroomAI/showroom-mvp/pkg/translate"
)

// Config holds all environment-based configuration.
type Config struct {
	Port         string
	MetricsPort  int
	Neo4jURL     string
	Neo4jUser    string
	Neo4jPass    string
	OllamaURL    string
	EmbedModel   string
	TranslateURL string
	TranslateKey string
	NatsURL      string
	CORSOrigin   string
	SeedCatalog  bool
	TauMin       float64
	Margin       float64
}

func loadConfig() Config {
	return Config{
		Port:         envOr("PORT", "8080"),
		MetricsPort:  envInt("METRICS_PORT", 9090),
		Neo4jURL:     envOr("NEO4J_URL", "neo4j://localhost:7687"),
		Neo4jUser:    envOr("NEO4J_USER", "neo4j"),
		Neo4jPass:    envOr("NEO4J_PASS", "password"),
		OllamaURL:    envOr("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:   envOr("EMBED_MODEL", "nomic-embed-text"),
		TranslateURL: envOr("TRANSLATE_URL", "http://localhost:5000"),
		TranslateKey: envOr("TRANSLATE_API_KEY", ""),
		NatsURL:      envOr("NATS_URL", ""),
		CORSOrigin:   envOr("CORS_ORIGIN", "*"),
		SeedCatalog:  envOr("SEED_CATALOG", "true") == "true",
		TauMin:       envFloat("RELEVANCE_TAU_MIN", relevance.DefaultPolicy.TauMin),
		Margin:       envFloat("RELEVANCE_MARGIN", relevance.DefaultPolicy.Margin),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to Neo4j ---
	neo4jDriver, err := neo4j.NewDriverWithContext(cfg.Neo4jURL, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return fmt.Errorf("neo4j driver: %w", err)
	}
	defer neo4jDriver.Close(ctx)

	store := catalog.New(neo4jDriver)
	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	if cfg.SeedCatalog {
		if err := store.Seed(ctx); err != nil {
			return err
		}
	}

	// --- External collaborators ---
	embedder := ollama.NewEmbedClient(cfg.OllamaURL, cfg.EmbedModel)
	translator := translate.New(cfg.TranslateURL, cfg.TranslateKey)

	// --- Build pipeline ---
	reg := metrics.New()
	normalizer := normalize.New(translator, normalize.DefaultOptions(), logger)
	ix := index.New(embedder, logger)

	policy := relevance.Policy{TauMin: cfg.TauMin, Margin: cfg.Margin}
	if err := policy.Validate(); err != nil {
		return err
	}

	svc := search.New(normalizer, ix, store, embedder, search.Options{
		Policy:  policy,
		Breaker: resilience.NewBreaker(resilience.DefaultBreakerOpts),
		Metrics: reg,
		Logger:  logger,
	})

	if err := svc.Rebuild(ctx, 4); err != nil {
		// Start anyway: the index stays empty until the embedder recovers
		// and a later rebuild or upsert fills it.
		logger.Warn("startup index rebuild failed", "err", err)
	}

	// --- NATS delta consumer (optional) ---
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL, nats.Name("showroom-api"))
		if err != nil {
			return fmt.Errorf("nats connect: %w", err)
		}
		defer nc.Drain()

		consumer := ingest.NewConsumer(nc, svc, logger)
		if err := consumer.Start(); err != nil {
			return err
		}
		defer consumer.Stop()
	}

	// --- Build HTTP server ---
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", handleHealth(ix))
	mux.HandleFunc("GET /api/stats", handleStats(store, logger))
	mux.HandleFunc("POST /api/search", handleSearch(svc, logger))
	mux.HandleFunc("POST /api/evaluate", handleEvaluate(svc, logger))
	mux.HandleFunc("POST /api/vehicles", handleUpsert(svc, logger))
	mux.HandleFunc("DELETE /api/vehicles/{id}", handleDelete(svc, logger))

	reg.ServeAsync(cfg.MetricsPort)

	handler := mid.Chain(mux,
		mid.Recover(logger),
		mid.Logger(logger),
		mid.CORS(cfg.CORSOrigin),
		mid.OTel("showroom-api"),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// --- Graceful shutdown ---
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

// --- Handlers ---

func handleHealth(ix *index.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":        "ok",
			"index_version": ix.Version(),
			"index_size":    ix.Size(),
		})
	}
}

func handleStats(store *catalog.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.CatalogStats(r.Context())
		if err != nil {
			logger.Error("catalog stats failed", "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func handleSearch(svc *search.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req search.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := svc.Search(r.Context(), req)
		if err != nil {
			writeSearchError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// EvaluateRequest is the JSON body for POST /api/evaluate.
type EvaluateRequest struct {
	Query    string                   `json:"query"`
	Judgment domain.RelevanceJudgment `json:"judgment"`
}

func handleEvaluate(svc *search.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EvaluateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		report, err := svc.Evaluate(r.Context(), req.Query, req.Judgment)
		if err != nil {
			writeSearchError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func handleUpsert(svc *search.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec domain.VehicleRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.IndexUpsert(r.Context(), rec); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) || errors.Is(err, domain.ErrInvalidRecord) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logger.Error("vehicle upsert failed", "id", rec.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": rec.ID, "status": "indexed"})
	}
}

func handleDelete(svc *search.Service, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "id is required")
			return
		}

		if err := svc.IndexDelete(r.Context(), id); err != nil {
			logger.Error("vehicle delete failed", "id", id, "err", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
	}
}

// writeSearchError maps pipeline errors to HTTP statuses.
func writeSearchError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuery),
		errors.Is(err, domain.ErrQueryInjection),
		errors.Is(err, domain.ErrInvalidPageSize):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrSearchUnavailable):
		logger.Error("search unavailable", "err", err)
		writeError(w, http.StatusServiceUnavailable, "search temporarily unavailable")
	default:
		logger.Error("search failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
