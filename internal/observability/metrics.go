package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

var (
	PagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfume_pages_total",
			Help: "Search pages fetched, by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfume_records_total",
			Help: "Pipeline records by outcome (mapped, rejected, inserted, updated, failed)",
		},
		[]string{"outcome"},
	)

	ImagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perfume_images_total",
			Help: "Image refresh attempts by outcome",
		},
		[]string{"outcome"},
	)

	EmbeddingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "embeddings_total",
			Help: "Embedding chunks generated",
		},
	)
)

var (
	registry = prometheus.NewRegistry()
	register sync.Once
)

func registerAll() {
	register.Do(func() {
		registry.MustRegister(PagesTotal, RecordsTotal, ImagesTotal, EmbeddingsTotal)
	})
}

// Start serves /metrics on port. An empty port disables the endpoint.
func Start(port string) {
	registerAll()
	if port == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go http.ListenAndServe(":"+port, mux)
}

// Push sends the run's counters to a Pushgateway; scripts exit before any
// scrape would see them otherwise.
func Push(url, job string) error {
	if url == "" {
		return nil
	}
	registerAll()
	return push.New(url, job).Gatherer(registry).Push()
}
