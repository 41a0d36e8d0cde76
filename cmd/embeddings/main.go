package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"perfumeprj/internal/config"
	"perfumeprj/internal/db"
	"perfumeprj/internal/embeddings"
	"perfumeprj/internal/logger"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/repository"
)

func main() {
	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer log.Sync()
	observability.Start(cfg.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}
	if cfg.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer sqlDB.Close()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database pool failed", zap.Error(err))
	}
	defer pool.Close()

	products, err := (&repository.ProductRepository{DB: sqlDB}).ListAll(ctx)
	if err != nil {
		log.Fatal("listing perfumes failed", zap.Error(err))
	}
	log.Info("building embeddings", zap.Int("perfumes", len(products)), zap.Int("workers", cfg.WorkerCount))

	res := embeddings.RunWorkers(ctx, products,
		embeddings.NewOpenAIEmbedder(cfg.OpenAIKey),
		&repository.VectorRepository{DB: pool},
		cfg.WorkerCount, log)

	if err := observability.Push(cfg.PushgatewayURL, "perfume_embeddings"); err != nil {
		log.Warn("metrics push failed", zap.Error(err))
	}
	fmt.Printf("Done. processed=%d, failed=%d\n", res.Processed, res.Failed)
}
