package briteverify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/verification"
)

// GetResultPage fetches one page of a list's results. Pages are numbered from 1.
func (c *Client) GetResultPage(ctx context.Context, listID string, page uint64) (verification.BulkVerificationResponse, error) {
	u := endpoint(c.v3BaseURL, "lists", listID, "export", strconv.FormatUint(page, 10))

	var out verification.BulkVerificationResponse
	err := c.do(ctx, opResultPage, http.MethodGet, u, nil, func(resp *http.Response) error {
		switch resp.StatusCode {
		case http.StatusOK:
			var err error
			out, err = decodeBody[verification.BulkVerificationResponse](opResultPage, resp)
			return err
		case http.StatusNotFound:
			return listNotFound(opResultPage, listID, resp)
		default:
			return unexpectedStatus(opResultPage, resp)
		}
	})
	return out, err
}

// GetResultsByListID collects every result of a list, in page order.
//
// Pages are fetched concurrently. A page that fails is logged and skipped, so the
// result may be partial; only complete results of a terminal list are cached.
func (c *Client) GetResultsByListID(ctx context.Context, listID string) ([]verification.BulkVerificationResult, error) {
	if cached, ok := c.cachedResults(ctx, listID); ok {
		return cached, nil
	}

	state, err := c.GetListByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	if state.PageCount == nil {
		return nil, NewClientError(ErrorBadData, opGetList, 0,
			fmt.Sprintf("list %q has no page count", listID), ErrMissingPageCount)
	}
	pageCount := max(1, *state.PageCount)
	if pageCount > maxPageCount {
		return nil, NewClientError(ErrorBadData, opGetList, 0,
			fmt.Sprintf("list %q reports %d pages", listID, pageCount), ErrTooManyPages)
	}

	pages, complete := c.fetchPages(ctx, listID, pageCount)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []verification.BulkVerificationResult
	for _, page := range pages {
		results = append(results, page...)
	}
	if results == nil {
		results = []verification.BulkVerificationResult{}
	}

	if complete && state.IsTerminal() {
		c.storeResults(ctx, listID, results)
	}
	return results, nil
}

// fetchPages returns each page's results at index page-1. complete is false when
// any page failed.
func (c *Client) fetchPages(ctx context.Context, listID string, pageCount uint64) (pages [][]verification.BulkVerificationResult, complete bool) {
	pages = make([][]verification.BulkVerificationResult, pageCount)
	failed := make([]bool, pageCount)

	var g errgroup.Group
	g.SetLimit(c.pageConcurrency)

	for i := range pageCount {
		g.Go(func() error {
			start := time.Now()
			page, err := c.GetResultPage(ctx, listID, i+1)
			if err != nil {
				failed[i] = true
				c.metrics.IncrementResultPage(false)
				c.logger.ErrorContext(ctx, "failed to fetch result page",
					"list_id", listID,
					"page", i+1,
					"error", err,
				)
				return nil
			}
			c.metrics.IncrementResultPage(true)
			c.logger.DebugContext(ctx, "fetched result page",
				"list_id", listID,
				"page", i+1,
				"results", len(page.Results),
				"elapsed", time.Since(start),
			)
			pages[i] = page.Results
			return nil
		})
	}
	_ = g.Wait()

	complete = true
	for _, f := range failed {
		if f {
			complete = false
		}
	}
	return pages, complete
}

func (c *Client) cachedResults(ctx context.Context, listID string) ([]verification.BulkVerificationResult, bool) {
	if c.cache == nil {
		return nil, false
	}
	results, err := c.cache.Find(ctx, listID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			c.logger.WarnContext(ctx, "result cache lookup failed", "list_id", listID, "error", err)
		}
		return nil, false
	}
	c.metrics.IncrementCacheHit()
	return results, true
}

func (c *Client) storeResults(ctx context.Context, listID string, results []verification.BulkVerificationResult) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Save(ctx, listID, results); err != nil {
		c.logger.WarnContext(ctx, "result cache save failed", "list_id", listID, "error", err)
	}
}
