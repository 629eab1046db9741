package briteverify_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	"briteverify/internal/mockapi"
	"briteverify/internal/platform/logger"
	"briteverify/internal/results"
	"briteverify/pkg/briteverify"
	"briteverify/pkg/verification"
)

// =============================================================================
// Client against the mock API
// =============================================================================
// These tests run the real client over HTTP against the in-process fake, so
// paths, headers and bodies are exercised end to end.

const apiKey = "suite-key"

type ClientSuite struct {
	suite.Suite
	server *httptest.Server
	client *briteverify.Client
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	api := mockapi.New(mockapi.WithAPIKey(apiKey), mockapi.WithPageSize(2))
	s.server = httptest.NewServer(api.Router())
	s.client = s.newClient(apiKey)
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) newClient(key string, opts ...briteverify.Option) *briteverify.Client {
	opts = append([]briteverify.Option{
		briteverify.WithHTTPClient(s.server.Client()),
		briteverify.WithV1BaseURL(s.server.URL + "/api/v1"),
		briteverify.WithV3BaseURL(s.server.URL + "/api/v3"),
		briteverify.WithTimeout(5 * time.Second),
		briteverify.WithLogger(logger.Discard()),
	}, opts...)
	c, err := briteverify.New(key, opts...)
	s.Require().NoError(err)
	return c
}

func (s *ClientSuite) TestWrongKey() {
	c := s.newClient("ApiKey: wrong")
	_, err := c.GetAccountBalance(context.Background())
	s.ErrorIs(err, briteverify.ErrInvalidAPIKey)
}

func (s *ClientSuite) TestVerifyEmail() {
	ctx := context.Background()

	valid, err := s.client.VerifyEmail(ctx, "sales@validity.com")
	s.Require().NoError(err)
	s.Equal(verification.StatusValid, valid.Status)
	s.True(valid.RoleAddress)

	invalid, err := s.client.VerifyEmail(ctx, "someone@invalid-domain.com")
	s.Require().NoError(err)
	s.Equal(verification.StatusInvalid, invalid.Status)
	s.Require().NotNil(invalid.ErrorCode)
	s.Equal(verification.ErrorEmailDomainInvalid, *invalid.ErrorCode)
}

func (s *ClientSuite) TestVerifyPhoneNumber() {
	phone, err := s.client.VerifyPhoneNumber(context.Background(), "+1 (555) 555-5555")
	s.Require().NoError(err)
	s.Equal(verification.StatusValid, phone.Status)
	s.Equal(verification.OptionalString("mobile"), phone.ServiceType)
}

func (s *ClientSuite) TestVerifyStreetAddress() {
	address, err := s.client.VerifyStreetAddress(context.Background(), verification.StreetAddress{
		Address1: "120 Water St",
		City:     "North Andover",
		State:    "ma",
		Zip:      "01845",
	})
	s.Require().NoError(err)
	s.Equal(verification.StatusValid, address.Status)
	s.Equal("MA", address.State)
	s.True(bool(address.Corrected))
}

func (s *ClientSuite) TestVerifyValueResolvesTheShape() {
	resp, err := s.client.VerifyValue(context.Background(), "5555555555")
	s.Require().NoError(err)
	s.IsType(verification.PhoneResponse{}, resp)

	resp, err = s.client.VerifyValue(context.Background(), `{"email":"a@b.com","phone":"5555555555"}`)
	s.Require().NoError(err)
	s.IsType(verification.EmailAndPhoneResponse{}, resp)
}

func (s *ClientSuite) TestAccountBalance() {
	credits, err := s.client.CurrentCredits(context.Background())
	s.Require().NoError(err)
	s.Equal(uint32(2165), credits)

	reserve, err := s.client.CurrentCreditsInReserve(context.Background())
	s.Require().NoError(err)
	s.Equal(uint32(500), reserve)
}

func (s *ClientSuite) TestBulkListLifecycle() {
	ctx := context.Background()
	contacts := []verification.VerificationRequest{
		verification.EmailRequest{Email: "sales@validity.com"},
		verification.EmailRequest{Email: "invalid@validity.com"},
		verification.EmailAndPhoneRequest{Email: "support@validity.com", Phone: "5555555555"},
	}

	created, err := s.client.CreateList(ctx, contacts[:2], false)
	s.Require().NoError(err)
	s.Equal(verification.BatchOpen, created.List.State)
	listID := created.List.ID

	_, err = s.client.UpdateList(ctx, listID, contacts[2:], false)
	s.Require().NoError(err)

	open, err := s.client.GetListsByState(ctx, verification.BatchOpen)
	s.Require().NoError(err)
	s.Equal([]string{listID}, open.IDs())

	queued, err := s.client.QueueListForProcessing(ctx, listID)
	s.Require().NoError(err)
	s.Equal(verification.BatchComplete, queued.List.State)

	state, err := s.client.GetListByID(ctx, listID)
	s.Require().NoError(err)
	s.True(state.IsTerminal())
	s.Equal(uint64(2), state.Pages())

	got, err := s.client.GetResultsByListID(ctx, listID)
	s.Require().NoError(err)
	want := []verification.BulkVerificationResult{
		verification.BulkEmailResult{Email: "sales@validity.com", Status: verification.StatusValid},
		verification.BulkEmailResult{
			Email:           "invalid@validity.com",
			Status:          verification.StatusInvalid,
			SecondaryStatus: verification.OptionalString(verification.ErrorEmailAccountInvalid),
		},
		verification.BulkContactResult{
			Email: &verification.BulkEmailResult{Email: "support@validity.com", Status: verification.StatusValid},
			Phone: &verification.BulkPhoneResult{Phone: "5555555555", Status: verification.StatusValid, ServiceType: "mobile"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		s.Failf("results mismatch", "(-want +got):\n%s", diff)
	}

	deleted, err := s.client.DeleteListByID(ctx, listID)
	s.Require().NoError(err)
	s.Equal(verification.BatchDeleted, deleted.List.State)

	_, err = s.client.GetListByID(ctx, listID)
	var nf *briteverify.BulkListNotFoundError
	s.Require().ErrorAs(err, &nf)
	s.Equal(verification.OptionalString(listID), nf.Detail.ListID)
}

func (s *ClientSuite) TestTerminateList() {
	ctx := context.Background()
	created, err := s.client.CreateList(ctx, []verification.VerificationRequest{
		verification.EmailRequest{Email: "sales@validity.com"},
	}, false)
	s.Require().NoError(err)

	terminated, err := s.client.TerminateListByID(ctx, created.List.ID)
	s.Require().NoError(err)
	s.Equal(verification.BatchTerminated, terminated.List.State)
}

func (s *ClientSuite) TestAutoStartedListIsCachedPerAccount() {
	ctx := context.Background()
	store := results.NewInMemoryStore(time.Hour, nil)
	c := s.newClient(apiKey, briteverify.WithResultCache(results.NewAccountCache(store, apiKey)))

	created, err := c.CreateList(ctx, []verification.VerificationRequest{
		verification.EmailRequest{Email: "sales@validity.com"},
	}, true)
	s.Require().NoError(err)
	s.Equal(verification.BatchComplete, created.List.State)

	first, err := c.GetResultsByListID(ctx, created.List.ID)
	s.Require().NoError(err)

	// the list is gone upstream; the cached copy still answers
	_, err = c.DeleteListByID(ctx, created.List.ID)
	s.Require().NoError(err)

	second, err := c.GetResultsByListID(ctx, created.List.ID)
	s.Require().NoError(err)
	s.Equal(first, second)

	other := s.newClient(apiKey, briteverify.WithResultCache(results.NewAccountCache(store, "another-key")))
	_, err = other.GetResultsByListID(ctx, created.List.ID)
	s.Error(err, "another account must not see the cached results")
}

func (s *ClientSuite) TestRetriesInjectedRateLimits() {
	api := mockapi.New(mockapi.WithAPIKey(apiKey), mockapi.WithRateLimitEvery(2, 0))
	server := httptest.NewServer(api.Router())
	defer server.Close()

	c, err := briteverify.New(apiKey,
		briteverify.WithHTTPClient(server.Client()),
		briteverify.WithV3BaseURL(server.URL+"/api/v3"),
	)
	s.Require().NoError(err)

	start := time.Now()
	for range 2 {
		_, err := c.GetAccountBalance(context.Background())
		s.Require().NoError(err)
	}
	s.GreaterOrEqual(time.Since(start), time.Second, "a 429 with Retry-After 0 waits one second")
}
