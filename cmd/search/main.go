package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"perfumeprj/internal/config"
	"perfumeprj/internal/db"
	"perfumeprj/internal/embeddings"
	"perfumeprj/internal/logger"
	"perfumeprj/internal/repository"
)

// go run ./cmd/search -q "warm vanilla for winter evenings" -limit 5
func main() {
	q := flag.String("q", "", "free-text description of the scent")
	limit := flag.Int("limit", 5, "results to show")
	minScore := flag.Float64("min-score", 0.2, "minimum cosine similarity")
	brand := flag.String("brand", "", "restrict to brands matching this text")
	flag.Parse()

	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer log.Sync()

	if strings.TrimSpace(*q) == "" {
		log.Fatal("-q is required")
	}
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database pool failed", zap.Error(err))
	}
	defer pool.Close()

	start := time.Now()
	vec, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey).Embed(ctx, *q)
	if err != nil {
		log.Fatal("embedding query failed", zap.Error(err))
	}

	results, err := (&repository.VectorRepository{DB: pool}).SearchSimilar(ctx, vec, *minScore, max(*limit, 1), *brand)
	if err != nil {
		log.Fatal("search failed", zap.Error(err))
	}
	log.Debug("search done", zap.Int("results", len(results)), zap.Duration("took", time.Since(start)))

	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for i, r := range results {
		fmt.Printf("%d. %s - %s (%.3f)\n", i+1, r.Brand, r.Name, r.Score)
		if r.AmazonURL != "" {
			fmt.Println("   " + r.AmazonURL)
		}
	}
}
