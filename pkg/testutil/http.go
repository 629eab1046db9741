// Package testutil drives the mock BriteVerify API in handler and scaffold tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briteverify/pkg/platform/httputil"
	"briteverify/pkg/verification"
)

// NewJSONRequest builds a request whose body is payload encoded as JSON. A nil
// payload sends no body.
func NewJSONRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err, "encode %s %s payload", method, path)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Accept", "application/json")
	return req
}

// DoRequest serves req on handler and returns what it wrote.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func ReadBody(t *testing.T, rr *httptest.ResponseRecorder) []byte {
	t.Helper()
	data, err := io.ReadAll(rr.Body)
	require.NoError(t, err, "read response body")
	return data
}

// UnmarshalResponse decodes the body into T, which is usually one of the
// verification response types.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(ReadBody(t, rr), &out), "decode %T from %q", out, rr.Body.String())
	return &out
}

func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	assert.Equal(t, want, rr.Code, "status of response %q", rr.Body.String())
}

func AssertStatusOK(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	AssertStatus(t, rr, http.StatusOK)
}

// AssertErrorBody checks a plain error envelope, the shape used for rejected
// credentials and malformed requests.
func AssertErrorBody(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	body := UnmarshalResponse[httputil.ErrorBody](t, rr)
	assert.Equal(t, code, body.Status)
}

// AssertListError checks a bulk list error and returns it for further
// assertions on the message.
func AssertListError(t *testing.T, rr *httptest.ResponseRecorder, status int, listID string, state verification.BatchState) verification.BulkListCRUDError {
	t.Helper()
	AssertStatus(t, rr, status)
	got := UnmarshalResponse[verification.BulkListCRUDError](t, rr)
	assert.Equal(t, state, got.Status)
	assert.Equal(t, verification.OptionalString(listID), got.ListID)
	return *got
}

// AssertListIDs decodes a list-states page and compares the ids on it in order.
func AssertListIDs(t *testing.T, rr *httptest.ResponseRecorder, want ...string) verification.GetListStatesResponse {
	t.Helper()
	AssertStatusOK(t, rr)
	page := UnmarshalResponse[verification.GetListStatesResponse](t, rr)
	if want == nil {
		want = []string{}
	}
	assert.Equal(t, want, page.IDs())
	return *page
}
