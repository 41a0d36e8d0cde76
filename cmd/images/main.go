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
	"perfumeprj/internal/crawler"
	"perfumeprj/internal/db"
	"perfumeprj/internal/ingest"
	"perfumeprj/internal/logger"
	"perfumeprj/internal/observability"
	"perfumeprj/internal/repository"
	"perfumeprj/internal/sheet"
	"perfumeprj/internal/throttle"
)

// go run ./cmd/images                      refresh products without an image
// go run ./cmd/images -asin B0XXXXXXXX     refresh one product
// go run ./cmd/images -overrides imageOverrides.json
func main() {
	asin := flag.String("asin", "", "refresh a single product by ASIN")
	overrides := flag.String("overrides", "", "JSON file of {brand, name, image_url} overrides to apply")
	limit := flag.Int("limit", ingest.DefaultImageLimit, "max products to refresh")
	delay := flag.Duration("delay", 1500*time.Millisecond, "pause between product pages (min 250ms)")
	flag.Parse()

	cfg := config.Load()
	log := logger.Must(cfg.Env)
	defer log.Sync()
	observability.Start(cfg.MetricsPort)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	pages := crawler.NewProductPageScraper(cfg.AmazonBaseURL, cfg.RequestTimeout, throttle.New(throttle.Clamp(*delay, 250*time.Millisecond)))
	refresher := ingest.NewImageRefresher(&repository.ProductRepository{DB: sqlDB}, pages, log)

	var summary ingest.ImageSummary
	switch {
	case *overrides != "":
		list, err := sheet.ReadOverrides(*overrides)
		if err != nil {
			log.Fatal("reading overrides failed", zap.Error(err))
		}
		summary = refresher.ApplyOverrides(ctx, list)
	case *asin != "":
		summary, err = refresher.RefreshASIN(ctx, *asin)
		if err != nil {
			log.Fatal("refresh failed", zap.String("asin", *asin), zap.Error(err))
		}
	default:
		summary, err = refresher.RefreshMissing(ctx, *limit)
		if err != nil {
			log.Fatal("refresh failed", zap.Error(err))
		}
	}

	if err := observability.Push(cfg.PushgatewayURL, "perfume_images"); err != nil {
		log.Warn("metrics push failed", zap.Error(err))
	}
	fmt.Println("Done. " + summary.String())
}
