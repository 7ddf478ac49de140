package zap

import (
	"github.com/fwojciec/castindex"
	"go.uber.org/zap"
)

var _ castindex.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging of queries.
type LoggingSearcher struct {
	next   castindex.Searcher
	logger *zap.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next castindex.Searcher, logger *zap.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

func (s *LoggingSearcher) Search(query string) castindex.SearchResponse {
	resp := s.next.Search(query)
	s.logger.Debug("search",
		zap.String("query", query),
		zap.Bool("greeting", resp.IsGreeting()),
		zap.Int("titles", len(resp.Titles)),
	)
	return resp
}
