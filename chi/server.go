// Package chi serves the query endpoint over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"net/http"

	"github.com/fwojciec/castindex"
	castprom "github.com/fwojciec/castindex/prometheus"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// SearchParam is the query parameter holding the search terms.
const SearchParam = "search"

// Server routes HTTP requests to a Searcher.
type Server struct {
	router   chi.Router
	searcher castindex.Searcher
	logger   *zap.Logger
	metrics  *castprom.Metrics
	gatherer prometheus.Gatherer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every request with logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records every request in metrics and serves the metrics
// gathered by g on /metrics.
func WithMetrics(metrics *castprom.Metrics, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = metrics
		s.gatherer = g
	}
}

// NewServer constructs a Server with middleware and routes.
func NewServer(searcher castindex.Searcher, opts ...Option) *Server {
	s := &Server{
		searcher: searcher,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	if s.metrics != nil {
		r.Use(requestMetrics(s.metrics))
	}
	r.Use(recoverer(s.logger))

	r.Get("/imdb", s.search)
	r.Get("/healthz", s.healthz)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", castprom.Handler(s.gatherer))
	}

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// search answers GET /imdb. Without search terms it replies with the
// greeting as plain text; otherwise with a JSON array of titles.
func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	resp := s.searcher.Search(r.URL.Query().Get(SearchParam))
	if resp.IsGreeting() {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(resp.Greeting)); err != nil {
			s.logger.Error("write greeting failed", zap.Error(err))
		}
		return
	}

	titles := resp.Titles
	if titles == nil {
		titles = []string{}
	}
	s.writeJSON(w, http.StatusOK, titles)
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}
