package crawler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"perfumeprj/internal/brand"
	"perfumeprj/internal/ingest"
	"perfumeprj/internal/model"
	"perfumeprj/internal/observability"
)

// DefaultBrandQueries is searched when no query is given.
var DefaultBrandQueries = []string{
	"Dior perfume", "Chanel perfume", "YSL perfume", "Tom Ford perfume", "Creed perfume",
	"Armani perfume", "Versace perfume", "Gucci perfume", "Paco Rabanne perfume", "Montblanc perfume",
}

// Processor is the part of the ingest pipeline the crawler feeds.
type Processor interface {
	Process(ctx context.Context, rows []model.RawRow) ingest.Summary
}

type RunOptions struct {
	Queries []string
	Pages   int
	// BrandFromQuery attaches "Dior" from "Dior perfume" to rows that carry
	// no brand of their own.
	BrandFromQuery bool
	BaseURL        string
}

// Run walks every query over pages 1..Pages. A page that fails to fetch or
// parse is logged and contributes no rows; the run carries on.
func Run(ctx context.Context, f Fetcher, proc Processor, log *zap.Logger, opts RunOptions) ingest.Summary {
	if opts.Pages < 1 {
		opts.Pages = 1
	}

	var total ingest.Summary
	for _, q := range opts.Queries {
		var perQuery ingest.Summary
		log.Info("scraping", zap.String("query", q), zap.Int("pages", opts.Pages), zap.String("via", f.Name()))

		for page := 1; page <= opts.Pages; page++ {
			if ctx.Err() != nil {
				total.Add(perQuery)
				return total
			}

			rows, err := fetchPage(ctx, f, q, page, opts.BaseURL)
			if err != nil {
				observability.PagesTotal.WithLabelValues(f.Name(), "failed").Inc()
				log.Error("search page failed",
					zap.String("query", q),
					zap.Int("page", page),
					zap.Error(err),
				)
				perQuery.AddPageError(fmt.Errorf("%s p%d: %w", q, page, err))
				continue
			}
			observability.PagesTotal.WithLabelValues(f.Name(), "ok").Inc()

			for i := range rows {
				rows[i].Source = fmt.Sprintf("%s p%d %s", q, page, rows[i].Source)
				if opts.BrandFromQuery && !rows[i].Has(KeyBrand) {
					if b := brand.FromQuery(q); b != "" {
						rows[i].Add(KeyBrand, b)
					}
				}
			}
			perQuery.Add(proc.Process(ctx, rows))
		}

		log.Info("query done", zap.String("query", q), zap.String("result", perQuery.String()))
		total.Add(perQuery)
	}
	return total
}

func fetchPage(ctx context.Context, f Fetcher, query string, page int, base string) ([]model.RawRow, error) {
	html, err := f.FetchSearchPage(ctx, query, page)
	if err != nil {
		return nil, err
	}
	return ParseSearchResults(html, base)
}
