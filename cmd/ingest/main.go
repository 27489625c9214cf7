// Command ingest loads a vehicle catalog file into the engine. By default
// records are written straight to Neo4j; with -nats they are published as
// delta messages for the API server's consumer to apply.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ShowroomAI/showroom-mvp/engine/catalog"
	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/engine/ingest"
	"github.com/ShowroomAI/showroom-mvp/pkg/metrics"
	"github.com/ShowroomAI/showroom-mvp/pkg/natsutil"
)

var met = metrics.New()

var (
	mAccepted = met.Counter("showroom_ingest_accepted_total", "Records accepted")
	mRejected = met.Counter("showroom_ingest_rejected_total", "Records rejected")
)

func main() {
	var (
		file      = flag.String("file", "", "JSON catalog file to load")
		seed      = flag.Bool("seed", false, "load the built-in demo fleet instead of a file")
		natsURL   = flag.String("nats", "", "publish records over NATS instead of writing to Neo4j")
		neo4jURL  = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass = flag.String("neo4j-pass", "password", "Neo4j password")
		workers   = flag.Int("workers", 4, "parallel ingestion workers")
		metricsPt = flag.Int("metrics-port", 9091, "metrics port")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	met.ServeAsync(*metricsPt)

	records, err := loadRecords(*file, *seed)
	if err != nil {
		log.Error("load catalog failed", "file", *file, "err", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		log.Error("nothing to ingest: pass -file or -seed")
		os.Exit(1)
	}

	if *natsURL != "" {
		if err := publish(ctx, *natsURL, records, log); err != nil {
			log.Error("publish failed", "err", err)
			os.Exit(1)
		}
		return
	}

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "err", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Error("neo4j verify failed", "err", err)
		os.Exit(1)
	}

	store := catalog.New(driver)
	if err := store.InitSchema(ctx); err != nil {
		log.Error("init schema failed", "err", err)
		os.Exit(1)
	}

	report := ingest.Bulk(ctx, &storeIndexer{store: store}, records, *workers, log)
	mAccepted.Add(int64(report.Accepted))
	mRejected.Add(int64(len(report.Rejected)))

	out, _ := json.MarshalIndent(report, "", "  ")
	os.Stdout.Write(append(out, '\n'))

	log.Info("ingest done", "accepted", report.Accepted, "rejected", len(report.Rejected))
	if len(report.Rejected) > 0 {
		os.Exit(2)
	}
}

func loadRecords(file string, seed bool) ([]domain.VehicleRecord, error) {
	if seed {
		return catalog.SeedVehicles, nil
	}
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ingest.ParseRecords(data)
}

// publish sends each record as an upsert delta. Validation still happens on
// the consumer side; this path only moves bytes.
func publish(ctx context.Context, url string, records []domain.VehicleRecord, log *slog.Logger) error {
	nc, err := nats.Connect(url, nats.Name("showroom-ingest"))
	if err != nil {
		return err
	}
	defer nc.Drain()

	for _, rec := range records {
		if err := natsutil.Publish(ctx, nc, ingest.UpsertSubject, rec); err != nil {
			return err
		}
		mAccepted.Inc()
	}
	log.Info("published catalog deltas", "count", len(records), "subject", ingest.UpsertSubject)
	return nil
}

// storeIndexer applies ingested records to the knowledge store only. The API
// server's index catches up through its startup rebuild or NATS consumer.
type storeIndexer struct {
	store *catalog.Store
}

func (si *storeIndexer) IndexUpsert(ctx context.Context, rec domain.VehicleRecord) error {
	if err := domain.ValidateRecord(rec); err != nil {
		return err
	}
	return si.store.Upsert(ctx, rec)
}

func (si *storeIndexer) IndexDelete(ctx context.Context, id string) error {
	return si.store.Delete(ctx, id)
}
