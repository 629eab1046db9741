package results

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"briteverify/internal/platform/logger"
	"briteverify/internal/results/mocks"
	"briteverify/pkg/verification"
)

// =============================================================================
// Collector Test Suite
// =============================================================================
// Justification for unit tests: the collector decides what reaches the sink
// and how per-list failures surface. Those paths need a client that fails on
// demand.

type CollectorSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	client    *mocks.MockListClient
	sink      *mocks.MockSink
	collector *Collector
}

func TestCollectorSuite(t *testing.T) {
	suite.Run(t, new(CollectorSuite))
}

func (s *CollectorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.client = mocks.NewMockListClient(s.ctrl)
	s.sink = mocks.NewMockSink(s.ctrl)
	s.collector = NewCollector(s.client, WithSink(s.sink), WithLogger(logger.Discard()))
}

func (s *CollectorSuite) TearDownTest() {
	s.ctrl.Finish()
}

var sampleResults = []verification.BulkVerificationResult{
	verification.BulkEmailResult{Email: "sales@validity.com", Status: verification.StatusValid},
	verification.BulkEmailResult{Email: "invalid@validity.com", Status: verification.StatusInvalid},
}

// =============================================================================
// Collect
// =============================================================================

func (s *CollectorSuite) TestCollect() {
	ctx := context.Background()

	s.Run("publishes fetched results", func() {
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "list-1").Return(sampleResults, nil)
		s.sink.EXPECT().Publish(gomock.Any(), "list-1", sampleResults).Return(nil)

		got, err := s.collector.Collect(ctx, "list-1")
		s.Require().NoError(err)
		s.Equal(sampleResults, got)
	})

	s.Run("fetch failure skips the sink", func() {
		fetchErr := errors.New("boom")
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "list-2").Return(nil, fetchErr)

		_, err := s.collector.Collect(ctx, "list-2")
		s.ErrorIs(err, fetchErr)
	})

	s.Run("publish failure still returns results", func() {
		pubErr := errors.New("broker down")
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "list-3").Return(sampleResults, nil)
		s.sink.EXPECT().Publish(gomock.Any(), "list-3", sampleResults).Return(pubErr)

		got, err := s.collector.Collect(ctx, "list-3")
		s.ErrorIs(err, pubErr)
		s.Len(got, 2)
	})

	s.Run("no sink configured", func() {
		collector := NewCollector(s.client)
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "list-4").Return(sampleResults, nil)

		got, err := collector.Collect(ctx, "list-4")
		s.Require().NoError(err)
		s.Len(got, 2)
	})
}

// =============================================================================
// CollectCompleted
// =============================================================================

func (s *CollectorSuite) TestCollectCompleted() {
	ctx := context.Background()

	s.Run("one failing list does not stop the rest", func() {
		s.client.EXPECT().GetListsByState(gomock.Any(), verification.BatchComplete).Return(
			verification.GetListStatesResponse{Lists: []verification.VerificationListState{
				{ID: "a", State: verification.BatchComplete},
				{ID: "b", State: verification.BatchComplete},
			}}, nil)
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "a").Return(nil, errors.New("page failed"))
		s.client.EXPECT().GetResultsByListID(gomock.Any(), "b").Return(sampleResults, nil)
		s.sink.EXPECT().Publish(gomock.Any(), "b", sampleResults).Return(nil)

		got, err := s.collector.CollectCompleted(ctx)
		s.Require().Error(err)
		s.Contains(err.Error(), "collect list a")
		s.Len(got, 1)
		s.Equal(sampleResults, got["b"])
	})

	s.Run("listing failure", func() {
		s.client.EXPECT().GetListsByState(gomock.Any(), verification.BatchComplete).
			Return(verification.GetListStatesResponse{}, errors.New("unauthorized"))

		_, err := s.collector.CollectCompleted(ctx)
		s.Require().Error(err)
	})
}
