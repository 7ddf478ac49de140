package main

import (
	"fmt"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/crawl"
	"go.uber.org/zap"
)

// Run executes the crawl command.
func (c *CrawlCmd) Run(deps *Dependencies) error {
	logger := deps.Logger

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressListPageFailed:
			logger.Warn("list page skipped",
				zap.String("url", event.URL),
				zap.String("code", castindex.ErrorCode(event.Error)),
				zap.Error(event.Error),
			)
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Found %d detail pages\n", event.Total)
		case crawl.ProgressCompleted:
			logger.Info("fetched",
				zap.String("url", event.URL),
				zap.Int("completed", event.Completed),
				zap.Int("total", event.Total),
			)
		case crawl.ProgressFailed:
			logger.Warn("detail page skipped",
				zap.String("url", event.URL),
				zap.String("code", castindex.ErrorCode(event.Error)),
				zap.Error(event.Error),
			)
			fmt.Fprintf(deps.Stderr, "  skip %s: %s\n", event.URL, castindex.ErrorMessage(event.Error))
		case crawl.ProgressFinished:
			// Summary printed after crawl completes
		}
	}

	result, err := deps.Crawler.Crawl(deps.Ctx, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	deps.Metrics.SetIndexWords(result.Words)

	logger.Info("crawl finished",
		zap.String("run_id", result.RunID),
		zap.Int("list_pages", result.ListPages),
		zap.Int("list_pages_failed", result.ListPagesFailed),
		zap.Int("locations", result.Locations),
		zap.Int("repeats", result.Repeats),
		zap.Int("distinct", result.Distinct),
		zap.Int("indexed", result.Indexed),
		zap.Int("failed", result.Failed),
		zap.Int("words", result.Words),
		zap.String("checksum", result.Checksum),
	)
	fmt.Fprintf(deps.Stdout, "  Indexed %d of %d pages (about %d distinct), %d words (checksum %s)\n",
		result.Indexed, result.Locations, result.Distinct, result.Words, result.Checksum)

	return nil
}
