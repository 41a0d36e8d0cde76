package crawler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchURL(t *testing.T) {
	assert.Equal(t, "https://www.amazon.co.za/s?k=Tom+Ford+perfume&page=2",
		SearchURL("https://www.amazon.co.za", "Tom Ford perfume", 2))
}

func TestHTTPFetcher_Direct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/s", r.URL.Path)
		assert.Equal(t, "dior perfume", r.URL.Query().Get("k"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Contains(t, r.Header.Get("Accept-Language"), "en-ZA")
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(`<div class="s-main-slot"></div>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{BaseURL: srv.URL})
	html, err := f.FetchSearchPage(context.Background(), "dior perfume", 3)
	require.NoError(t, err)
	assert.Equal(t, `<div class="s-main-slot"></div>`, html)
	assert.Equal(t, "http", f.Name())
}

func TestHTTPFetcher_ScrapeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.Equal(t, "https://www.amazon.co.za/s?k=creed&page=1", r.URL.Query().Get("url"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(HTTPOptions{
		BaseURL:      "https://www.amazon.co.za",
		ScrapeAPIURL: srv.URL + "/v1/",
		ScrapeAPIKey: "secret",
	})
	html, err := f.FetchSearchPage(context.Background(), "creed", 1)
	require.NoError(t, err)
	assert.Equal(t, "ok", html)
	assert.Equal(t, "scrapeapi", f.Name())
}

func TestHTTPFetcher_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(HTTPOptions{BaseURL: srv.URL}).FetchSearchPage(context.Background(), "x", 1)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := NewHTTPFetcher(HTTPOptions{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := f.FetchSearchPage(context.Background(), "x", 1)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
