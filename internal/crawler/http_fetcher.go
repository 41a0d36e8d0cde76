package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"perfumeprj/internal/throttle"
)

const maxPageBytes = 10 << 20

type HTTPOptions struct {
	BaseURL string
	// ScrapeAPIKey routes requests through the scrape proxy when set.
	ScrapeAPIURL string
	ScrapeAPIKey string
	Timeout      time.Duration
	Pace         *throttle.Throttle
	Client       *http.Client
}

// HTTPFetcher does plain GETs, directly or through the scrape proxy.
type HTTPFetcher struct {
	opts   HTTPOptions
	client *http.Client
}

func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPFetcher{opts: opts, client: client}
}

func (f *HTTPFetcher) Name() string {
	if f.opts.ScrapeAPIKey != "" {
		return "scrapeapi"
	}
	return StrategyHTTP
}

func (f *HTTPFetcher) Close() error { return nil }

func (f *HTTPFetcher) FetchSearchPage(ctx context.Context, query string, page int) (string, error) {
	return f.Get(ctx, SearchURL(f.opts.BaseURL, query, page))
}

// Get waits for the throttle, then fetches target within the per-request timeout.
func (f *HTTPFetcher) Get(ctx context.Context, target string) (string, error) {
	if err := f.opts.Pace.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.opts.Timeout)
	defer cancel()

	reqURL, err := f.requestURL(target)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", target, err)
	}
	if f.opts.ScrapeAPIKey == "" {
		req.Header.Set("User-Agent", desktopUA)
		req.Header.Set("Accept-Language", acceptLanguage)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w %d for %s", ErrStatus, resp.StatusCode, target)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", target, err)
	}
	return string(b), nil
}

func (f *HTTPFetcher) requestURL(target string) (string, error) {
	if f.opts.ScrapeAPIKey == "" {
		return target, nil
	}
	u, err := url.Parse(f.opts.ScrapeAPIURL)
	if err != nil {
		return "", fmt.Errorf("scrape api url: %w", err)
	}
	q := u.Query()
	q.Set("api_key", f.opts.ScrapeAPIKey)
	q.Set("url", target)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
