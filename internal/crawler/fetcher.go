// Package crawler fetches Amazon search and product pages and turns them into
// raw rows for the ingest pipeline.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"perfumeprj/internal/config"
	"perfumeprj/internal/throttle"
)

const (
	StrategyHTTP    = "http"
	StrategyBrowser = "browser"

	desktopUA      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
	mobileUA       = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	acceptLanguage = "en-ZA,en;q=0.9"
)

var (
	ErrStatus          = errors.New("unexpected status")
	ErrUnknownStrategy = errors.New("unknown fetch strategy")
)

// Fetcher returns the HTML of one search results page. Implementations are
// used from a single goroutine.
type Fetcher interface {
	FetchSearchPage(ctx context.Context, query string, page int) (string, error)
	Name() string
	Close() error
}

// SearchURL builds {base}/s?k=query&page=n.
func SearchURL(base, query string, page int) string {
	q := url.Values{}
	q.Set("k", query)
	q.Set("page", strconv.Itoa(page))
	return base + "/s?" + q.Encode()
}

// ProductURL builds {base}/dp/{asin}.
func ProductURL(base, asin string) string {
	return base + "/dp/" + url.PathEscape(asin)
}

// NewFetcher picks the strategy named in cfg.FetchStrategy and wraps it in a
// page cache when Redis and a TTL are configured.
func NewFetcher(cfg *config.Config, pace *throttle.Throttle, log *zap.Logger) (Fetcher, error) {
	var f Fetcher
	switch cfg.FetchStrategy {
	case "", StrategyHTTP:
		f = NewHTTPFetcher(HTTPOptions{
			BaseURL:      cfg.AmazonBaseURL,
			ScrapeAPIURL: cfg.ScrapeAPIURL,
			ScrapeAPIKey: cfg.ScrapeAPIKey,
			Timeout:      cfg.RequestTimeout,
			Pace:         pace,
		})
	case StrategyBrowser:
		f = NewBrowserFetcher(BrowserOptions{
			BaseURL:  cfg.AmazonBaseURL,
			Headless: cfg.BrowserHeadless,
			Cookies:  cfg.AmazonCookies,
			Timeout:  cfg.RequestTimeout,
			Pace:     pace,
			Log:      log,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, cfg.FetchStrategy)
	}

	if cfg.RedisURL == "" || cfg.PageCacheTTL <= 0 {
		return f, nil
	}
	cache, err := NewRedisPageCache(cfg.RedisURL)
	if err != nil {
		log.Warn("page cache disabled", zap.Error(err))
		return f, nil
	}
	return NewCachedFetcher(f, cache, cfg.PageCacheTTL, cfg.AmazonBaseURL, log), nil
}
