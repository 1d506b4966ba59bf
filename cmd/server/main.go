package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/coverdrive-ai/coverdrive/internal/adapter/ai"
	"github.com/coverdrive-ai/coverdrive/internal/adapter/store"
	"github.com/coverdrive-ai/coverdrive/internal/handler"
	"github.com/coverdrive-ai/coverdrive/internal/service"
	"github.com/coverdrive-ai/coverdrive/pkg/config"

	_ "github.com/lib/pq"
)

func main() {
	// ── Load .env file ───────────────────────────────────────────────────
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	// ── Configuration ────────────────────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("🏏 Starting CoverDrive AI",
		"port", cfg.Port,
		"collection", cfg.Collection,
		"metric", cfg.SimilarityMetric,
		"embed_model", cfg.EmbedModel,
		"chat_model", cfg.ChatModel,
	)

	// ── Database ─────────────────────────────────────────────────────────
	pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()

	metric, err := store.ParseMetric(cfg.SimilarityMetric)
	if err != nil {
		slog.Error("invalid similarity metric", "error", err)
		os.Exit(1)
	}
	vectorStore, err := store.NewVectorStore(pgStore, cfg.Collection, metric, cfg.EmbeddingDimension)
	if err != nil {
		slog.Error("failed to create vector store", "error", err)
		os.Exit(1)
	}

	// ── Adapters & Services ─────────────────────────────────────────────
	openAI := ai.NewOpenAIProvider(ai.OpenAIConfig{
		APIKey:     cfg.OpenAIAPIKey,
		EmbedModel: cfg.EmbedModel,
		ChatModel:  cfg.ChatModel,
	})

	ragService := service.NewRAGService(openAI, vectorStore, cfg.RetrievalLimit)

	// ── Fiber App ────────────────────────────────────────────────────────
	app := fiber.New(fiber.Config{
		AppName:     cfg.AppName,
		ReadTimeout: 30 * time.Second,
		// No WriteTimeout: completions stream for as long as the provider
		// keeps producing output.
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	// ── Routes ───────────────────────────────────────────────────────────
	api := app.Group("/api/v1")

	api.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"app":     cfg.AppName,
			"version": "1.0.0",
		})
	})

	chatHandler := handler.NewChatHandler(ragService)
	chatHandler.Register(api)

	// ── Start ────────────────────────────────────────────────────────────
	slog.Info("🌐 Fiber listening", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
