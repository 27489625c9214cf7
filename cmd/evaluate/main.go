// Command evaluate replays judged queries against the live catalog and
// reports retrieval precision, recall, and F1 per query and overall.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ShowroomAI/showroom-mvp/engine/accuracy"
	"github.com/ShowroomAI/showroom-mvp/engine/catalog"
	"github.com/ShowroomAI/showroom-mvp/engine/domain"
	"github.com/ShowroomAI/showroom-mvp/engine/index"
	"github.com/ShowroomAI/showroom-mvp/engine/normalize"
	"github.com/ShowroomAI/showroom-mvp/engine/search"
	"github.com/ShowroomAI/showroom-mvp/pkg/ollama"
	"github.com/ShowroomAI/showroom-mvp/pkg/translate"
)

// judgedQuery pairs a raw query with its ground-truth relevant IDs.
type judgedQuery struct {
	Query    string                   `json:"query"`
	Judgment domain.RelevanceJudgment `json:"judgment"`
}

func main() {
	var (
		file         = flag.String("file", "", "JSON file of judged queries")
		neo4jURL     = flag.String("neo4j", "neo4j://localhost:7687", "Neo4j bolt URL")
		neo4jUser    = flag.String("neo4j-user", "neo4j", "Neo4j username")
		neo4jPass    = flag.String("neo4j-pass", "password", "Neo4j password")
		ollamaURL    = flag.String("ollama", "http://localhost:11434", "Ollama base URL")
		embedModel   = flag.String("model", "nomic-embed-text", "Ollama embedding model")
		translateURL = flag.String("translate", "", "LibreTranslate base URL (optional)")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *file == "" {
		log.Error("judgments file is required: pass -file")
		os.Exit(1)
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error("read judgments failed", "err", err)
		os.Exit(1)
	}
	var queries []judgedQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		log.Error("parse judgments failed", "err", err)
		os.Exit(1)
	}

	driver, err := neo4j.NewDriverWithContext(*neo4jURL, neo4j.BasicAuth(*neo4jUser, *neo4jPass, ""))
	if err != nil {
		log.Error("neo4j connect failed", "err", err)
		os.Exit(1)
	}
	defer driver.Close(ctx)

	store := catalog.New(driver)
	embedder := ollama.NewEmbedClient(*ollamaURL, *embedModel)

	var translator normalize.Translator
	if *translateURL != "" {
		translator = translate.New(*translateURL, "")
	}
	normalizer := normalize.New(translator, normalize.DefaultOptions(), log)

	ix := index.New(embedder, log)
	svc := search.New(normalizer, ix, store, embedder, search.Options{Logger: log})

	if err := svc.Rebuild(ctx, 4); err != nil {
		log.Error("index rebuild failed", "err", err)
		os.Exit(1)
	}

	var sumP, sumR, sumF float64
	evaluated := 0
	for _, jq := range queries {
		report, err := svc.Evaluate(ctx, jq.Query, jq.Judgment)
		if err != nil {
			log.Error("evaluate failed", "query_id", jq.Judgment.QueryID, "err", err)
			continue
		}
		evaluated++
		sumP += report.Precision
		sumR += report.Recall
		sumF += report.F1
		fmt.Printf("%-12s precision=%s recall=%s f1=%s retained=%d\n",
			jq.Judgment.QueryID,
			accuracy.FormatPercent(report.Precision),
			accuracy.FormatPercent(report.Recall),
			accuracy.FormatPercent(report.F1),
			report.Retained,
		)
	}

	if evaluated == 0 {
		log.Error("no queries evaluated")
		os.Exit(1)
	}
	n := float64(evaluated)
	fmt.Printf("\noverall (%d queries): precision=%s recall=%s f1=%s\n",
		evaluated,
		accuracy.FormatPercent(sumP/n),
		accuracy.FormatPercent(sumR/n),
		accuracy.FormatPercent(sumF/n),
	)
}
