package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/colly"
	"github.com/fwojciec/castindex/crawl"
	"github.com/fwojciec/castindex/fs"
	"github.com/fwojciec/castindex/goquery"
	casthttp "github.com/fwojciec/castindex/http"
	castprom "github.com/fwojciec/castindex/prometheus"
	"github.com/fwojciec/castindex/rod"
	"github.com/fwojciec/castindex/sqlite"
	castviper "github.com/fwojciec/castindex/viper"
	castzap "github.com/fwojciec/castindex/zap"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Logger overrides the configured logger. Set before calling Run().
	Logger *zap.Logger

	// Listener overrides the configured port for serve.
	Listener net.Listener

	// SQLite database, opened when the sqlite index driver is configured.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("castindex"),
		kong.Description("Crawl the IMDB Top 1000 into a name index and serve queries against it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'castindex --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := castviper.Load(cli.Config)
	if err != nil {
		fmt.Fprintf(stderr, "error: %s\n", castindex.ErrorMessage(err))
		return err
	}
	deps.Config = cfg

	logger := m.Logger
	if logger == nil {
		if logger, err = castzap.NewLogger(cfg.Logging.Development); err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
	}
	deps.Logger = logger

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Registry = reg
	deps.Metrics = castprom.NewMetrics(reg)

	store, err := m.openStore(cfg.Index)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Set CASTINDEX_INDEX_PATH to use a different index location\n")
		return err
	}
	defer m.Close()
	deps.Store = castzap.NewLoggingIndexStore(store, logger)
	deps.DB = m.DB

	if kongCtx.Command() == "crawl" {
		crawler, err := newCrawler(cfg.Crawl, deps.Store, deps.Metrics, logger)
		if err != nil {
			return err
		}
		defer crawler.Fetcher.Close()
		deps.Crawler = crawler
	}

	deps.Listener = m.Listener

	return kongCtx.Run(deps)
}

// openStore opens the configured index store.
func (m *Main) openStore(cfg castviper.IndexConfig) (castindex.IndexStore, error) {
	switch cfg.Driver {
	case castviper.DriverSQLite:
		m.DB = sqlite.NewDB(cfg.Path)
		if err := m.DB.Open(); err != nil {
			return nil, fmt.Errorf("failed to open database at %q: %w", cfg.Path, err)
		}
		return sqlite.NewIndexStore(m.DB), nil
	default:
		return fs.NewIndexStore(cfg.Path), nil
	}
}

// newCrawler wires the crawl pipeline for the configured fetcher.
func newCrawler(cfg castviper.CrawlConfig, store castindex.IndexStore, metrics *castprom.Metrics, logger *zap.Logger) (*crawl.Crawler, error) {
	catalogue, err := crawl.NewCatalogue(cfg.BaseURL, crawl.ListPageCount)
	if err != nil {
		return nil, err
	}

	var fetcher castindex.Fetcher
	switch cfg.Fetcher {
	case castviper.FetcherColly:
		fetcher = colly.NewFetcher(colly.Config{
			UserAgent: cfg.UserAgent,
			Timeout:   cfg.Timeout,
		})
	case castviper.FetcherRod:
		opts := []rod.Option{
			rod.WithFetchTimeout(cfg.Timeout),
			rod.WithUserAgent(cfg.UserAgent),
		}
		if cfg.RodRecycleAfter > 0 {
			opts = append(opts, rod.WithRecycleAfter(cfg.RodRecycleAfter))
		}
		fetcher, err = rod.NewFetcher(opts...)
		if err != nil {
			return nil, castindex.Errorf(castindex.EINTERNAL, "start headless browser: %v", err)
		}
	default:
		fetcher = casthttp.NewFetcher(
			casthttp.WithTimeout(cfg.Timeout),
			casthttp.WithUserAgent(cfg.UserAgent),
		)
	}
	fetcher = castprom.NewMetricsFetcher(fetcher, metrics)
	fetcher = castzap.NewLoggingFetcher(fetcher, logger)

	return &crawl.Crawler{
		Catalogue:   catalogue,
		Fetcher:     fetcher,
		Links:       goquery.NewListSelector(goquery.DefaultListSelector),
		Extractor:   goquery.NewFactExtractor(),
		Store:       store,
		RateLimiter: crawl.NewDomainLimiter(cfg.RateLimit),
		Concurrency: cfg.Concurrency,
		RetryDelays: crawl.BackoffDelays(cfg.Retries),
	}, nil
}
