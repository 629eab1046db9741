package results

//go:generate mockgen -source=collector.go -destination=mocks/mocks.go -package=mocks ListClient,Sink

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"briteverify/internal/platform/logger"
	"briteverify/pkg/verification"
)

// ListClient is the part of the BriteVerify client the collector needs.
type ListClient interface {
	GetListsByState(ctx context.Context, state verification.BatchState) (verification.GetListStatesResponse, error)
	GetResultsByListID(ctx context.Context, listID string) ([]verification.BulkVerificationResult, error)
}

// Sink receives the results of each collected list.
type Sink interface {
	Publish(ctx context.Context, listID string, results []verification.BulkVerificationResult) error
}

// Collector pulls bulk list results through a client, whose result cache does the
// persisting, and forwards them to an optional sink.
type Collector struct {
	client ListClient
	sink   Sink
	logger *slog.Logger
}

type Option func(*Collector)

func WithSink(sink Sink) Option {
	return func(c *Collector) {
		c.sink = sink
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewCollector(client ListClient, opts ...Option) *Collector {
	c := &Collector{client: client, logger: logger.Discard()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches the results of one list and publishes them.
func (c *Collector) Collect(ctx context.Context, listID string) ([]verification.BulkVerificationResult, error) {
	results, err := c.client.GetResultsByListID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("collect list %s: %w", listID, err)
	}
	c.logger.InfoContext(ctx, "collected list results",
		"list_id", listID,
		"results", len(results),
	)

	if c.sink != nil {
		if err := c.sink.Publish(ctx, listID, results); err != nil {
			return results, fmt.Errorf("publish list %s: %w", listID, err)
		}
	}
	return results, nil
}

// CollectCompleted collects every list on the first page of completed lists. A
// failing list does not stop the others; the errors are joined.
func (c *Collector) CollectCompleted(ctx context.Context) (map[string][]verification.BulkVerificationResult, error) {
	page, err := c.client.GetListsByState(ctx, verification.BatchComplete)
	if err != nil {
		return nil, fmt.Errorf("list completed lists: %w", err)
	}

	out := make(map[string][]verification.BulkVerificationResult, len(page.Lists))
	var errs []error
	for _, id := range page.IDs() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		results, err := c.Collect(ctx, id)
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to collect list", "list_id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		out[id] = results
	}
	return out, errors.Join(errs...)
}
