package mockapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briteverify/internal/platform/metrics"
	"briteverify/pkg/testutil"
	"briteverify/pkg/verification"
)

const testKey = "test-key"

var fixedNow = time.Date(2024, 3, 1, 21, 10, 0, 0, time.UTC)

func newTestServer(opts ...Option) http.Handler {
	opts = append([]Option{WithAPIKey(testKey), WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(opts...).Router()
}

func authed(req *http.Request) *http.Request {
	return testutil.WithAPIKey(req, testKey)
}

func TestFullVerify(t *testing.T) {
	router := newTestServer()

	testutil.Given(t, "an email and phone request", func(t *testing.T) {
		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/fullverify", map[string]string{
			"email": "sales@validity.com",
			"phone": "+1 (555) 555-5555",
		}))

		testutil.When(t, "it is verified", func(t *testing.T) {
			rr := testutil.DoRequest(router, req)

			testutil.Then(t, "the response mirrors the request shape", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				resp, err := verification.DecodeResponse(testutil.ReadBody(t, rr))
				require.NoError(t, err)
				got, ok := resp.(verification.EmailAndPhoneResponse)
				require.True(t, ok, "got %T", resp)
				assert.Equal(t, verification.StatusValid, got.Email.Status)
				assert.Equal(t, "mobile", string(got.Phone.ServiceType))
			})
		})
	})

	testutil.Given(t, "a request with no recognized fields", func(t *testing.T) {
		req := authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/fullverify", map[string]string{"name": "x"}))
		rr := testutil.DoRequest(router, req)
		testutil.Then(t, "it is rejected", func(t *testing.T) {
			testutil.AssertErrorBody(t, rr, http.StatusBadRequest, "bad_request")
		})
	})

	testutil.Given(t, "no api key", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/v1/fullverify", map[string]string{"email": "a@b.com"})
		rr := testutil.DoRequest(router, req)
		testutil.Then(t, "it is unauthorized", func(t *testing.T) {
			testutil.AssertErrorBody(t, rr, http.StatusUnauthorized, "unauthorized")
		})
	})
}

func TestCredits(t *testing.T) {
	router := newTestServer(WithCredits(100, 5))
	rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/accounts/credits")))
	testutil.AssertStatusOK(t, rr)

	balance := testutil.UnmarshalResponse[verification.AccountCreditBalance](t, rr)
	assert.Equal(t, uint32(100), balance.Credits)
	assert.Equal(t, uint32(5), balance.CreditsInReserve)
	assert.True(t, fixedNow.Equal(balance.RecordedOn.Time))
}

func TestListLifecycle(t *testing.T) {
	router := newTestServer(WithPageSize(2))
	contacts := map[string]any{
		"contacts": []map[string]string{
			{"email": "sales@validity.com"},
			{"email": "invalid@validity.com"},
			{"email": "support@validity.com", "phone": "5555555555"},
		},
	}

	rr := testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists", contacts)))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[verification.CreateListResponse](t, rr)
	assert.Equal(t, verification.BatchOpen, created.List.State)
	assert.Equal(t, "created new list", created.Message)
	listID := created.List.ID
	require.NotEmpty(t, listID)

	t.Run("export before completion is rejected", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists/"+listID+"/export/1")))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("start completes the list", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists/"+listID,
			map[string]string{"directive": "start"})))
		testutil.AssertStatusOK(t, rr)
		updated := testutil.UnmarshalResponse[verification.UpdateListResponse](t, rr)
		assert.Equal(t, verification.BatchComplete, updated.List.State)
		require.NotNil(t, updated.List.PageCount)
		assert.Equal(t, uint64(2), *updated.List.PageCount)
		assert.Equal(t, uint64(3), updated.List.TotalVerifiedEmails)
		assert.Equal(t, uint64(1), updated.List.TotalVerifiedPhones)
	})

	t.Run("pages split the contacts", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists/"+listID+"/export/1")))
		testutil.AssertStatusOK(t, rr)
		first := testutil.UnmarshalResponse[verification.BulkVerificationResponse](t, rr)
		require.Len(t, first.Results, 2)
		assert.Equal(t, uint64(2), first.PageCount)
		assert.IsType(t, verification.BulkEmailResult{}, first.Results[0])

		rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists/"+listID+"/export/2")))
		second := testutil.UnmarshalResponse[verification.BulkVerificationResponse](t, rr)
		require.Len(t, second.Results, 1)
		assert.IsType(t, verification.BulkContactResult{}, second.Results[0])

		rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists/"+listID+"/export/3")))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("completed lists cannot change", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists/"+listID,
			map[string]string{"directive": "terminate"})))
		testutil.AssertListError(t, rr, http.StatusBadRequest, listID, verification.BatchInvalidState)
	})

	t.Run("lists are filtered by state", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists?state=complete")))
		page := testutil.AssertListIDs(t, rr, listID)
		assert.Equal(t, uint64(1), page.TotalPages())

		rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists?state=open")))
		testutil.AssertListIDs(t, rr)
	})

	t.Run("pages past the last one are empty", func(t *testing.T) {
		for _, page := range []string{"2", "9223372036854775807"} {
			rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists?page="+page)))
			got := testutil.AssertListIDs(t, rr)
			assert.Equal(t, uint64(1), got.TotalPages(), "page %s", page)
		}
	})

	t.Run("delete removes the list", func(t *testing.T) {
		rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodDelete, "/api/v3/lists/"+listID)))
		testutil.AssertStatusOK(t, rr)
		deleted := testutil.UnmarshalResponse[verification.DeleteListResponse](t, rr)
		assert.Equal(t, verification.BatchDeleted, deleted.List.State)

		rr = testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/lists/"+listID)))
		notFound := testutil.AssertListError(t, rr, http.StatusNotFound, listID, verification.BatchNotFound)
		assert.Equal(t, verification.OptionalString("No matching list found"), notFound.Message)
	})
}

func TestTerminate(t *testing.T) {
	router := newTestServer()
	rr := testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists", map[string]any{})))
	created := testutil.UnmarshalResponse[verification.CreateListResponse](t, rr)

	rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists/"+created.List.ID,
		map[string]string{"directive": "start"})))
	testutil.AssertListError(t, rr, http.StatusBadRequest, created.List.ID, verification.BatchMissingData)

	rr = testutil.DoRequest(router, authed(testutil.NewJSONRequest(t, http.MethodPost, "/api/v3/lists/"+created.List.ID,
		map[string]string{"directive": "terminate"})))
	testutil.AssertStatusOK(t, rr)
	terminated := testutil.UnmarshalResponse[verification.UpdateListResponse](t, rr)
	assert.Equal(t, verification.BatchTerminated, terminated.List.State)
}

func TestRateLimitAndMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	router := newTestServer(WithRateLimitEvery(2, 3), WithMetrics(m))

	first := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/accounts/credits")))
	second := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/api/v3/accounts/credits")))

	testutil.AssertStatusOK(t, first)
	testutil.AssertStatus(t, second, http.StatusTooManyRequests)
	assert.Equal(t, "3", second.Header().Get("Retry-After"))

	assert.InDelta(t, 1, promtest.ToFloat64(m.MockRequests.WithLabelValues("/api/v3/accounts/credits", "200")), 0)
	assert.InDelta(t, 1, promtest.ToFloat64(m.MockRequests.WithLabelValues("/api/v3/accounts/credits", "429")), 0)
}
