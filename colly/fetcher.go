// Package colly provides a castindex.Fetcher backed by a gocolly collector.
package colly

import (
	"context"
	"net/http"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/gocolly/colly/v2"
)

// DefaultFetchTimeout is the default timeout for a single visit.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements castindex.Fetcher at compile time.
var _ castindex.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages by visiting them with a cloned colly collector.
// Clones share the HTTP backend, so connections are pooled across visits.
type Fetcher struct {
	base *colly.Collector
}

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	// Overlapping list pages may point at the same detail page twice.
	c.AllowURLRevisit = true
	c.DetectCharset = true
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	c.SetRequestTimeout(timeout)

	return &Fetcher{base: c}
}

// Fetch visits url and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	collector := f.base.Clone()

	var (
		body     []byte
		status   int
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err == nil {
			err = fetchErr
		}
		if err != nil {
			if status != 0 && status != http.StatusOK {
				return "", castindex.Errorf(castindex.ENETWORK, "HTTP %d for %s", status, url)
			}
			return "", castindex.Errorf(castindex.ENETWORK, "GET %s: %v", url, err)
		}
	}

	if status != http.StatusOK {
		return "", castindex.Errorf(castindex.ENETWORK, "HTTP %d for %s", status, url)
	}
	return string(body), nil
}

// Close is a no-op; the collector holds no resources beyond pooled connections.
func (f *Fetcher) Close() error {
	return nil
}
