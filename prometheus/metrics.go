// Package prometheus exposes Prometheus collectors for crawling and serving.
package prometheus

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	fetchesTotal        *prometheus.CounterVec
	fetchBytesTotal     *prometheus.CounterVec
	fetchDuration       *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	searchesTotal       *prometheus.CounterVec
	indexWords          prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
// Passing a fresh prometheus.NewRegistry keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castindex_fetches_total",
				Help: "Total number of page fetches, labeled by site and status.",
			},
			[]string{"site", "status"},
		),
		fetchBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castindex_fetch_bytes_total",
				Help: "Total number of bytes fetched, labeled by site.",
			},
			[]string{"site"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "castindex_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies, labeled by site.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"site"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castindex_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "castindex_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "castindex_searches_total",
				Help: "Total number of queries answered, labeled by outcome.",
			},
			[]string{"outcome"},
		),
		indexWords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "castindex_index_words",
				Help: "Number of words in the loaded or saved index.",
			},
		),
	}
}

// Handler returns an http.Handler exposing the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// SanitizeSite extracts a lowercase hostname from a URL.
// It returns "unknown" if the URL has no host.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveFetch records one fetch. Status is "ok" or an error code.
func (m *Metrics) ObserveFetch(rawURL, status string, bytes int, duration time.Duration) {
	site := SanitizeSite(rawURL)
	m.fetchesTotal.WithLabelValues(site, status).Inc()
	m.fetchDuration.WithLabelValues(site).Observe(duration.Seconds())
	if bytes > 0 {
		m.fetchBytesTotal.WithLabelValues(site).Add(float64(bytes))
	}
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveSearch records one query by outcome: "greeting", "hit" or "miss".
func (m *Metrics) ObserveSearch(outcome string) {
	m.searchesTotal.WithLabelValues(outcome).Inc()
}

// SetIndexWords records the size of the current index.
func (m *Metrics) SetIndexWords(n int) {
	m.indexWords.Set(float64(n))
}
