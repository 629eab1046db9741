package briteverify

import (
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"briteverify/pkg/platform/circuit"
)

// Option configures a Client. Options that validate input return an error from New.
type Option func(c *Client) error

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) error {
		if doer == nil {
			return errors.New("http client is required")
		}
		c.httpClient = doer
		return nil
	}
}

func WithV1BaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := parseBaseURL(raw)
		if err != nil {
			return err
		}
		c.v1BaseURL = u
		return nil
	}
}

func WithV3BaseURL(raw string) Option {
	return func(c *Client) error {
		u, err := parseBaseURL(raw)
		if err != nil {
			return err
		}
		c.v3BaseURL = u
		return nil
	}
}

// WithRetry toggles waiting out 429 responses. Enabled by default.
func WithRetry(enabled bool) Option {
	return func(c *Client) error {
		c.retryEnabled = enabled
		return nil
	}
}

// WithTimeout bounds every individual HTTP exchange. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		c.timeout = d
		return nil
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) error {
		if ua != "" {
			c.userAgent = ua
		}
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) error {
		c.metrics = m
		return nil
	}
}

// WithCircuitBreaker fails calls fast while the breaker is open.
func WithCircuitBreaker(b *circuit.Breaker) Option {
	return func(c *Client) error {
		c.breaker = b
		return nil
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) error {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
		return nil
	}
}

// WithPageConcurrency bounds how many result pages are fetched at once.
func WithPageConcurrency(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return errors.New("page concurrency must be at least 1")
		}
		c.pageConcurrency = n
		return nil
	}
}

// WithResultCache serves finished lists' results from cache.
func WithResultCache(cache ResultCache) Option {
	return func(c *Client) error {
		c.cache = cache
		return nil
	}
}
