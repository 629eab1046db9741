package briteverify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"briteverify/pkg/verification"
)

// Endpoint labels used in errors, metrics and span names.
const (
	opFullVerify    = "fullverify"
	opAccountCredit = "account_credits"
	opGetLists      = "get_lists"
	opGetList       = "get_list"
	opCreateList    = "create_list"
	opUpdateList    = "update_list"
	opDeleteList    = "delete_list"
	opResultPage    = "result_page"
)

const (
	headerRequestID  = "X-Request-ID"
	headerRetryAfter = "Retry-After"
	maxErrorBody     = 512
)

// do sends one logical API call and hands the final response to handle. 401 and
// retried 429 responses never reach handle.
func (c *Client) do(ctx context.Context, op, method string, u *url.URL, body any, handle func(*http.Response) error) (err error) {
	ctx, span := c.tracer.Start(ctx, "briteverify."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", u.Path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.metrics.IncrementFailure(op, GetCategory(err))
		}
		span.End()
	}()

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return NewClientError(ErrorInternal, op, 0, "encode request body", err)
		}
	}

	resp, cancel, err := c.send(ctx, op, method, u, payload)
	if err != nil {
		return err
	}
	defer cancel()
	defer closeBody(resp)

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	return handle(resp)
}

// send performs the retry loop: 401 is terminal, 429 is waited out while retry is
// enabled, everything else is returned to the caller. The timeout applies to each
// attempt; the wait between attempts is bounded by ctx alone. The returned cancel
// releases the attempt's deadline once the response body has been consumed.
func (c *Client) send(ctx context.Context, op, method string, u *url.URL, payload []byte) (*http.Response, context.CancelFunc, error) {
	for {
		if c.breaker != nil && !c.breaker.Allow() {
			return nil, nil, NewClientError(ErrorProviderOutage, op, 0, "request not sent", ErrCircuitOpen)
		}

		attemptCtx, cancel := c.attemptContext(ctx)
		req, err := c.newRequest(attemptCtx, method, u, payload)
		if err != nil {
			cancel()
			return nil, nil, NewClientError(ErrorInternal, op, 0, "build request", err)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			timedOut := attemptCtx.Err() != nil || errors.Is(err, context.DeadlineExceeded)
			cancel()
			c.metrics.ObserveRequest(op, "error", time.Since(start))
			c.recordOutcome(ctx, false)
			if timedOut {
				return nil, nil, NewClientError(ErrorTimeout, op, 0, "request timed out", err)
			}
			return nil, nil, NewClientError(ErrorProviderOutage, op, 0, "request failed", err)
		}
		c.metrics.ObserveRequest(op, strconv.Itoa(resp.StatusCode), time.Since(start))
		c.recordOutcome(ctx, resp.StatusCode < http.StatusInternalServerError)

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			closeBody(resp)
			cancel()
			return nil, nil, NewClientError(ErrorAuthentication, op, resp.StatusCode, "request rejected", ErrInvalidAPIKey)

		case resp.StatusCode == http.StatusTooManyRequests && c.retryEnabled:
			wait := retryAfter(resp.Header)
			closeBody(resp)
			cancel()
			c.metrics.IncrementRateLimited(op)
			c.logger.WarnContext(ctx, "rate limited, waiting before retry",
				"endpoint", op,
				"url", u.String(),
				"wait", wait,
			)
			if err := c.sleep(ctx, wait); err != nil {
				return nil, nil, NewClientError(ErrorRateLimited, op, http.StatusTooManyRequests, "gave up waiting for rate limit", err)
			}

		default:
			return resp, cancel, nil
		}
	}
}

// attemptContext derives the deadline of one HTTP exchange.
func (c *Client) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.authorization)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(headerRequestID, uuid.NewString())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

func (c *Client) recordOutcome(ctx context.Context, ok bool) {
	if c.breaker == nil {
		return
	}
	if ok {
		if _, change := c.breaker.RecordSuccess(); change.Closed {
			c.logger.InfoContext(ctx, "circuit breaker closed", "breaker", c.breaker.Name())
		}
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "circuit breaker opened", "breaker", c.breaker.Name())
	}
}

// retryAfter is the Retry-After value plus one second, defaulting to 60 seconds.
func retryAfter(h http.Header) time.Duration {
	seconds := uint64(defaultRetryAfter)
	if v, err := strconv.ParseUint(strings.TrimSpace(h.Get(headerRetryAfter)), 10, 64); err == nil {
		seconds = v
	}
	return time.Duration(seconds+1) * time.Second
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

func decodeBody[T any](op string, resp *http.Response) (T, error) {
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, NewClientError(ErrorBadData, op, resp.StatusCode, "decode response body", err)
	}
	return out, nil
}

// unexpectedStatus categorizes a response the endpoint has no use for.
func unexpectedStatus(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(snippet))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	category := ErrorUnusableResponse
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		category = ErrorRateLimited
	case resp.StatusCode >= http.StatusInternalServerError:
		category = ErrorProviderOutage
	}
	return NewClientError(category, op, resp.StatusCode, msg, nil)
}

// listNotFound decodes the API's error body and fills in the requested list id.
func listNotFound(op, listID string, resp *http.Response) error {
	detail := verification.BulkListCRUDError{Status: verification.BatchNotFound}
	data, err := io.ReadAll(resp.Body)
	if err == nil && len(bytes.TrimSpace(data)) > 0 {
		if jsonErr := json.Unmarshal(data, &detail); jsonErr != nil {
			detail.Message = verification.OptionalString(strings.TrimSpace(string(data)))
		}
	}
	if detail.Status.IsUnknown() {
		detail.Status = verification.BatchNotFound
	}
	detail.ListID = verification.OptionalString(listID)
	return NewClientError(ErrorNotFound, op, resp.StatusCode,
		fmt.Sprintf("list %q not found", listID), &BulkListNotFoundError{Detail: detail})
}
