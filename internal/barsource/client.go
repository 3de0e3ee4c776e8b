// Package barsource fetches historical OHLCV bars and symbol profile pages
// from the quote provider, with optional Redis caching.
package barsource

import (
	"github.com/dhkim/tessa/pkg/config"
	"github.com/dhkim/tessa/pkg/httputil"
	"github.com/dhkim/tessa/pkg/logger"
	"github.com/dhkim/tessa/pkg/redis"
)

// Client handles communication with the quote provider. All network access
// goes through the shared httputil client; the proxy is the explicit one from
// configuration, never ambient process state.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	cfg        config.MarketConfig
}

// NewClient creates a bar source client. cache may be nil to disable caching.
func NewClient(cfg *config.Config, log *logger.Logger, cache *redis.Cache) *Client {
	httpClient := httputil.NewWithTimeout(cfg, log, cfg.Market.Timeout).
		WithLocalRateLimit(cfg.Market.RateLimit, cfg.Market.RateBurst).
		WithProxy(cfg.Market.ProxyURL)

	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		cfg:        cfg.Market,
	}
}
