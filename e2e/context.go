package e2e

import (
	"fmt"
	"net/http/httptest"
	"time"

	"briteverify/internal/mockapi"
	"briteverify/internal/platform/logger"
	"briteverify/internal/results"
	"briteverify/pkg/briteverify"
)

const defaultAPIKey = "e2e-key"

// TestContext holds one scenario's fake API, the client talking to it and the
// outcome of the last call.
type TestContext struct {
	server  *httptest.Server
	client  *briteverify.Client
	lastErr error
	lists   map[string]string
}

func NewTestContext() *TestContext {
	return &TestContext{lists: make(map[string]string)}
}

// StartAPI serves a fresh fake API. rateLimitEvery > 0 answers every nth request
// with 429.
func (tc *TestContext) StartAPI(rateLimitEvery int) error {
	tc.Close()
	api := mockapi.New(
		mockapi.WithAPIKey(defaultAPIKey),
		mockapi.WithPageSize(2),
		mockapi.WithRateLimitEvery(rateLimitEvery, 0),
	)
	tc.server = httptest.NewServer(api.Router())
	return tc.UseAPIKey(defaultAPIKey)
}

// UseAPIKey replaces the client with one sending apiKey.
func (tc *TestContext) UseAPIKey(apiKey string) error {
	if tc.server == nil {
		return fmt.Errorf("no API running")
	}
	client, err := briteverify.New(apiKey,
		briteverify.WithHTTPClient(tc.server.Client()),
		briteverify.WithV1BaseURL(tc.server.URL+"/api/v1"),
		briteverify.WithV3BaseURL(tc.server.URL+"/api/v3"),
		briteverify.WithTimeout(10*time.Second),
		briteverify.WithLogger(logger.Discard()),
		briteverify.WithResultCache(results.NewAccountCache(results.NewInMemoryStore(time.Hour, nil), apiKey)),
	)
	if err != nil {
		return err
	}
	tc.client = client
	return nil
}

func (tc *TestContext) Client() *briteverify.Client { return tc.client }

func (tc *TestContext) RecordError(err error) { tc.lastErr = err }

func (tc *TestContext) LastError() error { return tc.lastErr }

func (tc *TestContext) RememberList(name, id string) { tc.lists[name] = id }

// ListID resolves a list by the name a scenario gave it.
func (tc *TestContext) ListID(name string) (string, error) {
	id, ok := tc.lists[name]
	if !ok {
		return "", fmt.Errorf("no list named %q was created", name)
	}
	return id, nil
}

func (tc *TestContext) Close() {
	if tc.server != nil {
		tc.server.Close()
		tc.server = nil
	}
}
