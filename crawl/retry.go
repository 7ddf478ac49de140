package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/castindex"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (string, error)

// BackoffDelays returns n retry delays doubling from one second: 1s, 2s, 4s...
// Zero or negative n returns nil, meaning a single attempt.
func BackoffDelays(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := time.Second
	for i := range delays {
		delays[i] = d
		d *= 2
	}
	return delays
}

// FetchWithRetry calls fetch once, then once more after each delay while it
// keeps failing. EINVALID errors are returned at once since a retry cannot
// fix them. It returns the last error if every attempt fails.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration) (string, error) {
	html, err := fetch(ctx, url)
	for _, delay := range delays {
		if err == nil || castindex.ErrorCode(err) == castindex.EINVALID {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		html, err = fetch(ctx, url)
	}
	if err != nil {
		return "", err
	}
	return html, nil
}
