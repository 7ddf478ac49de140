package castindex

import "context"

// Fetcher retrieves the raw markup of a page.
type Fetcher interface {
	// Fetch returns the body of the page at url.
	// Connection failures, timeouts and non-success statuses return ENETWORK.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
