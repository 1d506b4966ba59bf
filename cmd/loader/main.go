package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/coverdrive-ai/coverdrive/internal/adapter/ai"
	"github.com/coverdrive-ai/coverdrive/internal/adapter/store"
	"github.com/coverdrive-ai/coverdrive/internal/ingest"
	"github.com/coverdrive-ai/coverdrive/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "loader",
		Usage: "scrape the cricket source pages and load the vector collection",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "create",
				Usage: "create the collection (extension, table, metric index) before loading",
			},
			&cli.StringFlag{
				Name:  "policy",
				Usage: "per-item failure policy: skip or abort",
			},
			&cli.StringSliceFlag{
				Name:  "source",
				Usage: "source URL to ingest (repeatable, defaults to the built-in cricket list)",
			},
			&cli.DurationFlag{
				Name:  "fetch-timeout",
				Usage: "HTTP timeout per page fetch",
				Value: 30 * time.Second,
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("loader failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg := config.Load()
	if policy := c.String("policy"); policy != "" {
		cfg.IngestFailurePolicy = policy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pgStore.Close()

	metric, err := store.ParseMetric(cfg.SimilarityMetric)
	if err != nil {
		return err
	}
	vectorStore, err := store.NewVectorStore(pgStore, cfg.Collection, metric, cfg.EmbeddingDimension)
	if err != nil {
		return err
	}

	if c.Bool("create") {
		if err := vectorStore.EnsureCollection(c.Context); err != nil {
			return err
		}
		slog.Info("collection ready",
			"collection", cfg.Collection,
			"metric", cfg.SimilarityMetric,
			"dimension", cfg.EmbeddingDimension,
		)
	}

	openAI := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		EmbedModel: cfg.EmbedModel,
		ChatModel:  cfg.ChatModel,
	})

	policy, err := ingest.ParsePolicy(cfg.IngestFailurePolicy)
	if err != nil {
		return err
	}

	pipeline := ingest.NewPipeline(
		ingest.NewPageFetcher(c.Duration("fetch-timeout")),
		ingest.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		openAI,
		vectorStore,
		policy,
	)

	sources := c.StringSlice("source")
	if len(sources) == 0 {
		sources = ingest.DefaultSources
	}

	slog.Info("starting ingestion", "sources", len(sources), "policy", policy)
	stats, err := pipeline.Run(c.Context, sources)
	slog.Info("ingestion finished",
		"pages", stats.Pages,
		"chunks", stats.Chunks,
		"written", stats.Written,
		"failed", stats.Failed,
	)
	return err
}
