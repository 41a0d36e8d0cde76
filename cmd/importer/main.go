package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"perfumeprj/internal/config"
	"perfumeprj/internal/db"
	"perfumeprj/internal/extract"
	"perfumeprj/internal/ingest"
	"perfumeprj/internal/logger"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/repository"
	"perfumeprj/internal/sheet"
)

const minBatch = 10

// go run ./cmd/importer -dry-run
// go run ./cmd/importer -file amazon_web_scrapes/export.xlsx -clear
// go run ./cmd/importer -last-runs 5
func main() {
	file := flag.String("file", "", "spreadsheet, CSV or JSON feed to import")
	dir := flag.String("dir", "amazon_web_scrapes", "directory searched for the newest export when -file is not given")
	dryRun := flag.Bool("dry-run", false, "print mapped records instead of writing them")
	batch := flag.Int("batch", 200, "records per upsert batch (min 10)")
	clearAll := flag.Bool("clear", false, "delete every stored perfume before importing")
	lastRuns := flag.Int("last-runs", 0, "print the N most recent recorded runs and exit")
	flag.Parse()

	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer log.Sync()
	observability.Start(cfg.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *lastRuns > 0 {
		printRecentRuns(ctx, cfg, log, *lastRuns)
		return
	}

	path := *file
	if path == "" {
		latest, err := sheet.Latest(*dir)
		if err != nil {
			log.Fatal("no input file; pass -file or place an export under "+*dir, zap.Error(err))
		}
		path = latest
	}

	log.Info("reading", zap.String("file", path))
	rows, err := sheet.Read(path)
	if err != nil {
		log.Fatal("reading input failed", zap.String("file", path), zap.Error(err))
	}

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
		dispatcher = ingest.NewDispatcher(&repository.ProductRepository{DB: sqlDB}, log, cfg.DefaultCurrency, 0)
		runs = &repository.RunRepository{DB: sqlDB}
	}

	pipeline := ingest.NewPipeline(extract.New(), dispatcher, log, ingest.Options{
		BatchSize: max(*batch, minBatch),
		DryRun:    *dryRun,
		Out:       os.Stdout,
	})

	if *clearAll {
		if *dryRun {
			log.Info("dry run, not clearing existing perfumes")
		} else {
			n, err := pipeline.Clear(ctx)
			if err != nil {
				log.Fatal("clearing perfumes failed", zap.Error(err))
			}
			log.Info("cleared existing perfumes", zap.Int64("deleted", n))
		}
	}

	started := time.Now().UTC()
	summary := pipeline.Process(ctx, rows)

	if runs != nil {
		run := repository.NewRun("importer", path, summary, started, time.Now().UTC())
		if err := runs.Record(context.Background(), run); err != nil {
			log.Warn("recording run failed", zap.Error(err))
		}
	}
	if err := observability.Push(cfg.PushgatewayURL, "perfume_importer"); err != nil {
		log.Warn("metrics push failed", zap.Error(err))
	}

	fmt.Println("Done. " + summary.String())
}

func printRecentRuns(ctx context.Context, cfg *config.Config, log *zap.Logger, limit int) {
	if err := cfg.RequireDatabase(); err != nil {
		log.Fatal("database not configured", zap.Error(err))
	}
	sqlDB, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer sqlDB.Close()

	list, err := (&repository.RunRepository{DB: sqlDB}).Recent(ctx, limit)
	if err != nil {
		log.Fatal("listing runs failed", zap.Error(err))
	}
	for _, run := range list {
		fmt.Println(formatRun(run))
	}
}

func formatRun(run repository.Run) string {
	return fmt.Sprintf("%s  %-9s %s (%s)  found=%d inserted=%d updated=%d skipped=%d failed=%d page errors=%d",
		run.StartedAt.Format(time.RFC3339), run.Command, run.Source,
		run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		run.Found, run.Inserted, run.Updated, run.Skipped, run.Failed, run.PageErrors)
}
