package main

import (
	"context"
	"io"
	"net"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/crawl"
	castprom "github.com/fwojciec/castindex/prometheus"
	"github.com/fwojciec/castindex/sqlite"
	castviper "github.com/fwojciec/castindex/viper"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Config   castviper.Config
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *castprom.Metrics
	Store    castindex.IndexStore
	Crawler  *crawl.Crawler
	Listener net.Listener

	// DB is set only for the sqlite index driver.
	DB *sqlite.DB
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config string `short:"c" type:"path" help:"Config file (yaml, json or toml)"`

	Crawl  CrawlCmd  `cmd:"" help:"Crawl the catalogue and save the name index"`
	Serve  ServeCmd  `cmd:"" help:"Serve queries against the saved index"`
	Search SearchCmd `cmd:"" help:"Query the saved index from the command line"`
	Runs   RunsCmd   `cmd:"" help:"List saved crawl runs (sqlite index only)"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct{}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Number of runs to show (0 for all)"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Terms []string `arg:"" optional:"" help:"Name words to intersect"`
}
