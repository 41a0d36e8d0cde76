package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"perfumeprj/internal/config"
	"perfumeprj/internal/crawler"
	"perfumeprj/internal/db"
	"perfumeprj/internal/extract"
	"perfumeprj/internal/ingest"
	"perfumeprj/internal/logger"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/repository"
	"perfumeprj/internal/throttle"
)

const (
	minDelay    = 250 * time.Millisecond
	recordDelay = 200 * time.Millisecond
)

// go run ./cmd/scraper -query "tom ford oud wood" -pages 2 -dry-run
// go run ./cmd/scraper -brands "Dior perfume,Creed perfume" -strategy browser
func main() {
	query := flag.String("query", "", "single search query")
	brands := flag.String("brands", "", "comma-separated brand queries, e.g. \"Dior perfume,Chanel perfume\"")
	pages := flag.Int("pages", 1, "result pages per query")
	dryRun := flag.Bool("dry-run", false, "print mapped records instead of writing them")
	delay := flag.Duration("delay", 1500*time.Millisecond, "pause between page requests (min 250ms)")
	strategy := flag.String("strategy", "", "http or browser (default FETCH_STRATEGY)")
	batch := flag.Int("batch", ingest.DefaultBatchSize, "records per upsert batch")
	flag.Parse()

	cfg := config.Load()
	if *strategy != "" {
		cfg.FetchStrategy = strings.ToLower(*strategy)
	}

	log := logger.Must(cfg.Env)
	defer log.Sync()
	observability.Start(cfg.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queries, fromBrands := resolveQueries(*query, *brands)

	fetcher, err := crawler.NewFetcher(cfg, throttle.New(throttle.Clamp(*delay, minDelay)), log)
	if err != nil {
		log.Fatal("fetcher setup failed", zap.Error(err))
	}
	defer fetcher.Close()

	var (
		dispatcher *ingest.Dispatcher
		runs       *repository.RunRepository
	)
	if !*dryRun {
		if err := cfg.RequireDatabase(); err != nil {
			log.Fatal("database not configured", zap.Error(err))
		}
		sqlDB, err := db.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		defer sqlDB.Close()
		if err := sqlDB.PingContext(ctx); err != nil {
			log.Fatal("database connection failed", zap.Error(err))
		}
		dispatcher = ingest.NewDispatcher(&repository.ProductRepository{DB: sqlDB}, log, cfg.DefaultCurrency, recordDelay)
		runs = &repository.RunRepository{DB: sqlDB}
	}

	pipeline := ingest.NewPipeline(extract.New(), dispatcher, log, ingest.Options{
		BatchSize: max(*batch, 1),
		DryRun:    *dryRun,
		Out:       os.Stdout,
	})

	log.Info("scraper starting",
		zap.Strings("queries", queries),
		zap.Int("pages", max(*pages, 1)),
		zap.Bool("dry_run", *dryRun),
		zap.String("via", fetcher.Name()),
	)

	started := time.Now().UTC()
	summary := crawler.Run(ctx, fetcher, pipeline, log, crawler.RunOptions{
		Queries:        queries,
		Pages:          max(*pages, 1),
		BrandFromQuery: fromBrands,
		BaseURL:        cfg.AmazonBaseURL,
	})

	if runs != nil {
		run := repository.NewRun("scraper", strings.Join(queries, ","), summary, started, time.Now().UTC())
		if err := runs.Record(context.Background(), run); err != nil {
			log.Warn("recording run failed", zap.Error(err))
		}
	}
	if err := observability.Push(cfg.PushgatewayURL, "perfume_scraper"); err != nil {
		log.Warn("metrics push failed", zap.Error(err))
	}

	fmt.Println("Done. " + summary.String())
}

// resolveQueries reports whether the queries came from a brand list, which is
// when the query itself names the brand.
func resolveQueries(query, brands string) ([]string, bool) {
	if q := strings.TrimSpace(query); q != "" {
		return []string{q}, false
	}
	var list []string
	for _, b := range strings.Split(brands, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	if len(list) == 0 {
		list = crawler.DefaultBrandQueries
	}
	return list, true
}
