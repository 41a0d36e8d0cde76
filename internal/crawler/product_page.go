package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"perfumeprj/internal/model"
	"perfumeprj/internal/throttle"
)

// ProductPageScraper reads image and availability from /dp/ pages.
type ProductPageScraper struct {
	base      string
	pace      *throttle.Throttle
	collector *colly.Collector
}

func NewProductPageScraper(base string, timeout time.Duration, pace *throttle.Throttle) *ProductPageScraper {
	c := colly.NewCollector(
		colly.UserAgent(desktopUA),
		colly.AllowURLRevisit(),
	)
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}
	return &ProductPageScraper{base: base, pace: pace, collector: c}
}

func (s *ProductPageScraper) Scrape(ctx context.Context, asin string) (model.ProductPage, error) {
	if err := s.pace.Wait(ctx); err != nil {
		return model.ProductPage{}, err
	}

	// Clone shares the transport but not callbacks, so each call gets its own.
	c := s.collector.Clone()

	var (
		page     model.ProductPage
		parseErr error
	)
	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", acceptLanguage)
	})
	c.OnResponse(func(r *colly.Response) {
		page, parseErr = ParseProductPage(string(r.Body))
	})

	target := ProductURL(s.base, asin)
	if err := c.Visit(target); err != nil {
		return model.ProductPage{}, fmt.Errorf("visit %s: %w", target, err)
	}
	if err := ctx.Err(); err != nil {
		return model.ProductPage{}, err
	}
	if parseErr != nil {
		return model.ProductPage{}, fmt.Errorf("parse %s: %w", target, parseErr)
	}
	if page.ASIN == "" {
		page.ASIN = asin
	}
	return page, nil
}
