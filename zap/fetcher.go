package zap

import (
	"context"
	"time"

	"github.com/fwojciec/castindex"
	"go.uber.org/zap"
)

// Ensure LoggingFetcher implements castindex.Fetcher.
var _ castindex.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging of every fetch.
type LoggingFetcher struct {
	next   castindex.Fetcher
	logger *zap.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next castindex.Fetcher, logger *zap.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		fields := []zap.Field{
			zap.String("url", url),
			zap.Duration("duration", time.Since(begin)),
		}
		if err != nil {
			f.logger.Warn("fetch failed", append(fields,
				zap.String("code", castindex.ErrorCode(err)),
				zap.Error(err),
			)...)
			return
		}
		f.logger.Debug("fetch", append(fields, zap.Int("bytes", len(html)))...)
	}(time.Now())

	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
