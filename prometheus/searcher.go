package prometheus

import "github.com/fwojciec/castindex"

var _ castindex.Searcher = (*MetricsSearcher)(nil)

// MetricsSearcher wraps a Searcher and counts queries by outcome.
type MetricsSearcher struct {
	next    castindex.Searcher
	metrics *Metrics
}

// NewMetricsSearcher creates a new MetricsSearcher.
func NewMetricsSearcher(next castindex.Searcher, metrics *Metrics) *MetricsSearcher {
	return &MetricsSearcher{next: next, metrics: metrics}
}

func (s *MetricsSearcher) Search(query string) castindex.SearchResponse {
	resp := s.next.Search(query)
	switch {
	case resp.IsGreeting():
		s.metrics.ObserveSearch("greeting")
	case len(resp.Titles) == 0:
		s.metrics.ObserveSearch("miss")
	default:
		s.metrics.ObserveSearch("hit")
	}
	return resp
}
