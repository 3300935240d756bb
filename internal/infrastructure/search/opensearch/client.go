// Package opensearch serves phytochemical lookups from an OpenSearch index.
package opensearch

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"

	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

// ServiceName labels errors raised by this package.
const ServiceName = "opensearch"

var ErrInvalidConfig = errors.New(errors.ErrCodeValidation, "opensearch addresses required")

// ClientConfig holds the configuration for the OpenSearch client.
type ClientConfig struct {
	Addresses      []string
	Username       string
	Password       string
	MaxRetries     int
	RetryBackoff   time.Duration
	RequestTimeout time.Duration
}

// Client manages the OpenSearch client connection.
type Client struct {
	client  *opensearch.Client
	config  ClientConfig
	logger  logging.Logger
	healthy atomic.Bool
}

// NewClient creates a client and verifies connectivity with a ping.
func NewClient(ctx context.Context, cfg ClientConfig, logger logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBackoff == 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	osClient, err := opensearch.NewClient(opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.Username,
		Password:      cfg.Password,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  func(int) time.Duration { return cfg.RetryBackoff },
		RetryOnStatus: []int{502, 503, 504, 429},
		Transport:     &http.Transport{ResponseHeaderTimeout: cfg.RequestTimeout},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create opensearch client")
	}

	c := NewClientFromOpenSearch(osClient, logger)
	c.config = cfg
	if err := c.Ping(ctx); err != nil {
		return nil, errors.ServiceUnavailable(ServiceName, err)
	}
	logger.Info("OpenSearch client connected", logging.Strings("addresses", cfg.Addresses))
	return c, nil
}

// NewClientFromOpenSearch wraps an existing client.
func NewClientFromOpenSearch(c *opensearch.Client, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{client: c, logger: logger}
}

// Ping checks the connection and records the health state.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.client.Ping(c.client.Ping.WithContext(ctx))
	if err != nil {
		c.healthy.Store(false)
		c.logger.Warn("OpenSearch ping failed", logging.Err(err))
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		c.healthy.Store(false)
		c.logger.Warn("OpenSearch ping returned error status", logging.Int("status", resp.StatusCode))
		return errors.Newf(errors.ErrCodeServiceUnavailable, "ping returned status %d", resp.StatusCode)
	}
	c.healthy.Store(true)
	return nil
}

// IsHealthy reports the result of the last ping.
func (c *Client) IsHealthy() bool { return c.healthy.Load() }

// GetClient returns the underlying OpenSearch client.
func (c *Client) GetClient() *opensearch.Client { return c.client }
