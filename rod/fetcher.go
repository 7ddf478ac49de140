// Package rod implements castindex.Fetcher with a headless Chrome browser,
// for catalogue pages whose credits are rendered by JavaScript.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds one page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements castindex.Fetcher at compile time.
var _ castindex.Fetcher = (*Fetcher)(nil)

// Fetcher returns the rendered HTML of a page.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*fetcherConfig)

type fetcherConfig struct {
	timeout     time.Duration
	managerOpts []ManagerOption
}

// WithFetchTimeout bounds each page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *fetcherConfig) {
		c.timeout = d
	}
}

// WithUserAgent sets the browser user agent.
func WithUserAgent(ua string) Option {
	return func(c *fetcherConfig) {
		c.managerOpts = append(c.managerOpts, WithBrowserUserAgent(ua))
	}
}

// WithRecycleAfter replaces the browser after n pages.
func WithRecycleAfter(n int64) Option {
	return func(c *fetcherConfig) {
		c.managerOpts = append(c.managerOpts, WithMaxPages(n))
	}
}

// NewFetcher launches a headless browser. Close must be called to stop it.
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	cfg := &fetcherConfig{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(cfg)
	}

	manager, err := NewBrowserManager(cfg.managerOpts...)
	if err != nil {
		return nil, err
	}
	return &Fetcher{manager: manager, timeout: cfg.timeout}, nil
}

// Fetch navigates to url, waits for the load event and returns the HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.manager.Closed() {
		return "", castindex.Errorf(castindex.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", castindex.Errorf(castindex.ENETWORK, "open page for %s: %v", url, err)
	}
	defer page.Close()
	page = page.Context(ctx)

	html, err := render(page.Navigate, page.WaitLoad, page.HTML, url)
	f.manager.IncrementPageCount()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("fetch %s: %w", url, ctxErr)
		}
		return "", err
	}
	return html, nil
}

// render runs the navigation steps, classifying failures as network errors.
func render(navigate func(string) error, waitLoad func() error, html func() (string, error), url string) (string, error) {
	if err := navigate(url); err != nil {
		return "", networkError(url, err)
	}
	if err := waitLoad(); err != nil {
		return "", networkError(url, err)
	}
	out, err := html()
	if err != nil {
		return "", networkError(url, err)
	}
	return out, nil
}

func networkError(url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return castindex.Errorf(castindex.ENETWORK, "render %s: %v", url, err)
}

// LauncherPID returns the browser process ID.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// Close stops the browser. Close is safe to call more than once.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
