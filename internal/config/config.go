package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")

type Config struct {
	DatabaseURL    string
	RedisURL       string
	OpenAIKey      string
	MetricsPort    string
	PushgatewayURL string
	Env            string
	WorkerCount    int

	FetchStrategy   string
	AmazonBaseURL   string
	ScrapeAPIKey    string
	ScrapeAPIURL    string
	DefaultCurrency string
	RequestTimeout  time.Duration
	PageCacheTTL    time.Duration
	BrowserHeadless bool
	AmazonCookies   map[string]string
}

func Load() *Config {
	// .env at the project root when run via `go run cmd/x/main.go` from a subdir
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()
	return &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		MetricsPort:     os.Getenv("METRICS_PORT"),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		Env:             getEnv("APP_ENV", "development"),
		WorkerCount:     getInt("WORKER_COUNT", 5),
		FetchStrategy:   strings.ToLower(getEnv("FETCH_STRATEGY", "http")),
		AmazonBaseURL:   strings.TrimRight(getEnv("AMAZON_BASE_URL", "https://www.amazon.co.za"), "/"),
		ScrapeAPIKey:    os.Getenv("SCRAPE_API_KEY"),
		ScrapeAPIURL:    getEnv("SCRAPE_API_URL", "https://scrape.abstractapi.com/v1/"),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "ZAR"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 60*time.Second),
		PageCacheTTL:    getDuration("PAGE_CACHE_TTL", 0),
		BrowserHeadless: getBool("BROWSER_HEADLESS", true),
		AmazonCookies:   amazonCookies(),
	}
}

// RequireDatabase reports a setup error when no store credentials are configured.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

// amazonCookies maps AMZ_COOKIE_* variables to the cookie names the storefront expects.
func amazonCookies() map[string]string {
	names := map[string]string{
		"AMZ_COOKIE_SESSION_ID":      "session-id",
		"AMZ_COOKIE_SESSION_ID_TIME": "session-id-time",
		"AMZ_COOKIE_SESSION_TOKEN":   "session-token",
		"AMZ_COOKIE_UBID_ACZA":       "ubid-acza",
	}
	cookies := make(map[string]string)
	for env, name := range names {
		if v := os.Getenv(env); v != "" {
			cookies[name] = v
		}
	}
	return cookies
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return d
	}
	return v
}

// getDuration accepts Go durations ("90s") or a bare number of milliseconds.
func getDuration(k string, d time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}

func getBool(k string, d bool) bool {
	v, err := strconv.ParseBool(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}
