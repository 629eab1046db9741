package briteverify

//go:generate mockgen -source=client.go -destination=mocks/mocks.go -package=mocks Doer,ResultCache

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"briteverify/pkg/platform/circuit"
	"briteverify/pkg/verification"
)

const (
	DefaultV1BaseURL = "https://bpi.briteverify.com/api/v1"
	DefaultV3BaseURL = "https://bulk-api.briteverify.com/api/v3"

	defaultUserAgent       = "briteverify-go"
	defaultPageConcurrency = 4
	defaultRetryAfter      = 60
	maxPageCount           = 10_000
	apiKeyPrefix           = "ApiKey: "
	tracerName             = "briteverify/pkg/briteverify"
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ResultCache stores the results of finished bulk lists. Find returns an error
// wrapping sentinel.ErrNotFound on a miss.
type ResultCache interface {
	Find(ctx context.Context, listID string) ([]verification.BulkVerificationResult, error)
	Save(ctx context.Context, listID string, results []verification.BulkVerificationResult) error
}

// Client talks to the BriteVerify real-time (v1) and bulk (v3) APIs.
type Client struct {
	authorization   string
	httpClient      Doer
	v1BaseURL       *url.URL
	v3BaseURL       *url.URL
	retryEnabled    bool
	timeout         time.Duration
	userAgent       string
	pageConcurrency int

	logger  *slog.Logger
	metrics *Metrics
	breaker *circuit.Breaker
	tracer  trace.Tracer
	cache   ResultCache

	// overridable in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a Client. The key may already carry the "ApiKey: " prefix.
func New(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(strings.ReplaceAll(apiKey, apiKeyPrefix, ""))
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	v1, _ := url.Parse(DefaultV1BaseURL)
	v3, _ := url.Parse(DefaultV3BaseURL)
	c := &Client{
		authorization:   apiKeyPrefix + key,
		httpClient:      http.DefaultClient,
		v1BaseURL:       v1,
		v3BaseURL:       v3,
		retryEnabled:    true,
		userAgent:       defaultUserAgent,
		pageConcurrency: defaultPageConcurrency,
		logger:          slog.New(slog.DiscardHandler),
		tracer:          otel.GetTracerProvider().Tracer(tracerName),
		sleep:           sleepContext,
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RetryEnabled reports whether 429 responses are waited out and resent.
func (c *Client) RetryEnabled() bool { return c.retryEnabled }

func (c *Client) V1BaseURL() string { return c.v1BaseURL.String() }

func (c *Client) V3BaseURL() string { return c.v3BaseURL.String() }

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// endpoint joins path segments onto base.
func endpoint(base *url.URL, segments ...string) *url.URL {
	u := base.JoinPath(segments...)
	u.RawQuery = ""
	return u
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
