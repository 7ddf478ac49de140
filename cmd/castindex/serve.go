package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/castindex"
	castchi "github.com/fwojciec/castindex/chi"
	"github.com/fwojciec/castindex/crawl"
	castprom "github.com/fwojciec/castindex/prometheus"
	"github.com/fwojciec/castindex/search"
	castzap "github.com/fwojciec/castindex/zap"
	"go.uber.org/zap"
)

// shutdownTimeout bounds how long in-flight requests may run after a stop signal.
const shutdownTimeout = 5 * time.Second

// Run executes the serve command. It blocks until the context is canceled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	idx, err := deps.Store.LoadIndex(deps.Ctx)
	if err != nil {
		if castindex.ErrorCode(err) == castindex.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "Hint: Run 'castindex crawl' first to build the index")
		}
		return err
	}
	deps.Metrics.SetIndexWords(len(idx))
	deps.Logger.Info("index ready",
		zap.Int("words", len(idx)),
		zap.String("checksum", crawl.Checksum(idx)),
	)

	var searcher castindex.Searcher = search.NewEngine(idx)
	searcher = castprom.NewMetricsSearcher(searcher, deps.Metrics)
	searcher = castzap.NewLoggingSearcher(searcher, deps.Logger)

	server := castchi.NewServer(searcher,
		castchi.WithLogger(deps.Logger),
		castchi.WithMetrics(deps.Metrics, deps.Registry),
	)

	ln := deps.Listener
	if ln == nil {
		if ln, err = net.Listen("tcp", deps.Config.Server.Addr()); err != nil {
			return fmt.Errorf("listen on %s: %w", deps.Config.Server.Addr(), err)
		}
	}

	srv := &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		deps.Logger.Info("http server started", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()
	fmt.Fprintf(deps.Stdout, "Listening on %s\n", ln.Addr())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-deps.Ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	deps.Logger.Info("http server stopped")
	return nil
}
