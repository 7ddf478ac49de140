// Package crawl provides catalogue crawling orchestration.
// It coordinates list-page discovery, detail-page fetching, fact extraction,
// index accumulation and persistence of the finished index.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/bloom"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// repeatFalsePositiveRate is the acceptable error when estimating repeated locations.
const repeatFalsePositiveRate = 0.001

// Crawler crawls a catalogue of list pages and the detail pages they link
// to, and saves the resulting index.
type Crawler struct {
	// Catalogue holds the list page URLs. See NewCatalogue.
	Catalogue []string

	Fetcher     castindex.Fetcher
	Links       castindex.LinkSelector
	Extractor   castindex.FactExtractor
	Store       castindex.IndexStore
	RateLimiter castindex.DomainLimiter

	// Concurrency caps concurrent detail-page tasks. Zero means no cap.
	Concurrency int

	// RetryDelays are waited between fetch attempts. Nil means one attempt.
	RetryDelays []time.Duration
}

// Result holds the outcome of a crawl run.
type Result struct {
	RunID           string
	ListPages       int
	ListPagesFailed int
	Locations       int
	Repeats         int
	Distinct        int
	Indexed         int
	Failed          int
	Words           int
	Checksum        string
}

// ProgressEvent reports progress during a crawl run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressListPageFailed
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// String returns a short name for the event type.
func (t ProgressType) String() string {
	switch t {
	case ProgressStarted:
		return "started"
	case ProgressListPageFailed:
		return "list_page_failed"
	case ProgressCompleted:
		return "completed"
	case ProgressFailed:
		return "failed"
	case ProgressFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// ProgressFunc is a callback for reporting crawl progress.
// It is always called from the goroutine running Crawl.
type ProgressFunc func(event ProgressEvent)

// listPageResult holds the outcome of processing one list page.
type listPageResult struct {
	links []string
	err   error
}

// detailResult holds the outcome of processing one detail page.
type detailResult struct {
	url string
	err error
}

// Crawl runs the two crawl phases and saves the index.
//
// All list pages are fetched before any detail page. A list page that fails
// contributes no locations, and a detail page that fails contributes no fact;
// neither stops the run. Only a failure to save the index, or cancellation
// of ctx, returns an error. A canceled run saves nothing.
func (c *Crawler) Crawl(ctx context.Context, progress ProgressFunc) (*Result, error) {
	result := &Result{
		RunID:     uuid.New().String(),
		ListPages: len(c.Catalogue),
	}

	// Phase one: discover detail locations from every list page.
	pages := c.discover(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repeats := bloom.NewRepeatCounter(uint(len(c.Catalogue)*50), repeatFalsePositiveRate)
	var locations []string
	for i, page := range pages {
		if page.err != nil {
			result.ListPagesFailed++
			if progress != nil {
				progress(ProgressEvent{
					Type:  ProgressListPageFailed,
					URL:   c.Catalogue[i],
					Error: page.err,
				})
			}
			continue
		}
		for _, link := range page.links {
			repeats.Observe(link)
			locations = append(locations, link)
		}
	}
	result.Locations = len(locations)
	result.Repeats = repeats.Repeats()
	result.Distinct = int(repeats.Distinct())

	total := len(locations)
	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	// Phase two: fetch, extract and accumulate every detail page.
	acc := NewAccumulator()
	resultCh := make(chan detailResult, len(locations))

	g, gctx := errgroup.WithContext(ctx)
	if c.Concurrency > 0 {
		g.SetLimit(c.Concurrency)
	}

	go func() {
		for _, location := range locations {
			g.Go(func() error {
				fact, err := c.processDetail(gctx, location)
				if err == nil {
					acc.Add(fact)
				}
				resultCh <- detailResult{url: location, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	completed := 0
	for res := range resultCh {
		completed++
		if res.err != nil {
			result.Failed++
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					Completed: completed,
					Total:     total,
					URL:       res.url,
					Error:     res.err,
				})
			}
			continue
		}
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCompleted,
				Completed: completed,
				Total:     total,
				URL:       res.url,
			})
		}
	}

	idx := acc.Close()
	result.Indexed = acc.Added()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := c.Store.SaveIndex(ctx, idx); err != nil {
		return nil, fmt.Errorf("save index: %w", err)
	}
	result.Words = len(idx)
	result.Checksum = Checksum(idx)

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return result, nil
}

// discover fetches every list page concurrently and returns their links in
// catalogue order.
func (c *Crawler) discover(ctx context.Context) []listPageResult {
	pages := make([]listPageResult, len(c.Catalogue))

	var g errgroup.Group
	for i, listURL := range c.Catalogue {
		g.Go(func() error {
			html, err := c.fetch(ctx, listURL)
			if err != nil {
				pages[i].err = err
				return nil
			}
			pages[i].links, pages[i].err = c.Links.ExtractLinks(html, listURL)
			return nil
		})
	}
	_ = g.Wait()

	return pages
}

// processDetail fetches and extracts a single detail page.
func (c *Crawler) processDetail(ctx context.Context, location string) (*castindex.Fact, error) {
	html, err := c.fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return c.Extractor.Extract(html)
}

// fetch waits for the rate limiter, then fetches with retry.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if c.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", castindex.Errorf(castindex.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := c.RateLimiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	return FetchWithRetry(ctx, rawURL, c.Fetcher.Fetch, c.RetryDelays)
}
