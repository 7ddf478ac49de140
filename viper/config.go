// Package viper loads castindex configuration from defaults, an optional
// file and the environment.
package viper

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/castindex"
	"github.com/fwojciec/castindex/crawl"
	"github.com/fwojciec/castindex/fs"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CASTINDEX"

// Fetcher and index driver names.
const (
	FetcherHTTP  = "http"
	FetcherColly = "colly"
	FetcherRod   = "rod"

	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Config captures all configuration knobs.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Index   IndexConfig   `mapstructure:"index"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig controls the query server.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// Addr returns the listen address for the configured port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// CrawlConfig controls fetching during a crawl.
type CrawlConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	UserAgent   string        `mapstructure:"user_agent"`
	Timeout     time.Duration `mapstructure:"timeout"`
	RateLimit   float64       `mapstructure:"rate_limit"`
	Concurrency int           `mapstructure:"concurrency"`
	Retries     int           `mapstructure:"retries"`
	Fetcher     string        `mapstructure:"fetcher"`

	// RodRecycleAfter replaces the headless browser after this many pages.
	// Zero keeps the fetcher's default.
	RodRecycleAfter int64 `mapstructure:"rod_recycle_after"`
}

// IndexConfig selects where the index is persisted.
type IndexConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from defaults, the file at path if non-empty, and
// the environment. PORT sets the server port.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("server.port", "PORT", EnvPrefix+"_SERVER_PORT"); err != nil {
		return Config{}, fmt.Errorf("bind port: %w", err)
	}

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, castindex.Errorf(castindex.EINVALID, "read config: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, castindex.Errorf(castindex.EINVALID, "unmarshal config: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("crawl.base_url", crawl.DefaultBaseURL)
	v.SetDefault("crawl.user_agent", "castindex/1.0")
	v.SetDefault("crawl.timeout", 10*time.Second)
	v.SetDefault("crawl.rate_limit", 0)
	v.SetDefault("crawl.concurrency", 0)
	v.SetDefault("crawl.retries", 0)
	v.SetDefault("crawl.fetcher", FetcherHTTP)
	v.SetDefault("crawl.rod_recycle_after", 0)
	v.SetDefault("index.driver", DriverJSON)
	v.SetDefault("index.path", fs.DefaultIndexPath)
	v.SetDefault("logging.development", false)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return castindex.Errorf(castindex.EINVALID, "server.port must be between 1 and 65535")
	}
	u, err := url.Parse(c.Crawl.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return castindex.Errorf(castindex.EINVALID, "crawl.base_url must be an absolute URL")
	}
	if c.Crawl.Timeout <= 0 {
		return castindex.Errorf(castindex.EINVALID, "crawl.timeout must be > 0")
	}
	if c.Crawl.RateLimit < 0 {
		return castindex.Errorf(castindex.EINVALID, "crawl.rate_limit must be >= 0")
	}
	if c.Crawl.Concurrency < 0 {
		return castindex.Errorf(castindex.EINVALID, "crawl.concurrency must be >= 0")
	}
	if c.Crawl.Retries < 0 {
		return castindex.Errorf(castindex.EINVALID, "crawl.retries must be >= 0")
	}
	if c.Crawl.RodRecycleAfter < 0 {
		return castindex.Errorf(castindex.EINVALID, "crawl.rod_recycle_after must be >= 0")
	}
	switch c.Crawl.Fetcher {
	case FetcherHTTP, FetcherColly, FetcherRod:
	default:
		return castindex.Errorf(castindex.EINVALID, "crawl.fetcher must be one of %q, %q, %q", FetcherHTTP, FetcherColly, FetcherRod)
	}
	switch c.Index.Driver {
	case DriverJSON, DriverSQLite:
	default:
		return castindex.Errorf(castindex.EINVALID, "index.driver must be %q or %q", DriverJSON, DriverSQLite)
	}
	if c.Index.Path == "" {
		return castindex.Errorf(castindex.EINVALID, "index.path must be set")
	}
	return nil
}
