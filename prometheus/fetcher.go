package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/castindex"
)

var _ castindex.Fetcher = (*MetricsFetcher)(nil)

// MetricsFetcher wraps a Fetcher and records every fetch.
type MetricsFetcher struct {
	next    castindex.Fetcher
	metrics *Metrics
}

// NewMetricsFetcher creates a new MetricsFetcher.
func NewMetricsFetcher(next castindex.Fetcher, metrics *Metrics) *MetricsFetcher {
	return &MetricsFetcher{next: next, metrics: metrics}
}

func (f *MetricsFetcher) Fetch(ctx context.Context, url string) (string, error) {
	begin := time.Now()
	html, err := f.next.Fetch(ctx, url)
	status := "ok"
	if err != nil {
		status = castindex.ErrorCode(err)
	}
	f.metrics.ObserveFetch(url, status, len(html), time.Since(begin))
	return html, err
}

func (f *MetricsFetcher) Close() error {
	return f.next.Close()
}
