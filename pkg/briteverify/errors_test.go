package briteverify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"briteverify/pkg/verification"
)

func TestClientError(t *testing.T) {
	tests := []struct {
		category  ErrorCategory
		retryable bool
	}{
		{ErrorTimeout, true},
		{ErrorProviderOutage, true},
		{ErrorRateLimited, true},
		{ErrorAuthentication, false},
		{ErrorBadData, false},
		{ErrorNotFound, false},
		{ErrorUnusableResponse, false},
		{ErrorInternal, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", NewClientError(tt.category, opGetLists, 0, "msg", nil))
			assert.Equal(t, tt.retryable, IsRetryable(err))
			assert.Equal(t, tt.category, GetCategory(err))
		})
	}

	t.Run("message", func(t *testing.T) {
		err := NewClientError(ErrorAuthentication, opGetList, 401, "request rejected", ErrInvalidAPIKey)
		assert.Equal(t,
			"briteverify get_list [authentication] (HTTP 401): request rejected: invalid or unauthorized BriteVerify API key",
			err.Error())
		assert.ErrorIs(t, err, ErrInvalidAPIKey)
	})

	t.Run("plain errors", func(t *testing.T) {
		err := errors.New("plain")
		assert.False(t, IsRetryable(err))
		assert.Equal(t, ErrorInternal, GetCategory(err))
	})
}

func TestBulkListNotFoundError(t *testing.T) {
	err := &BulkListNotFoundError{Detail: verification.BulkListCRUDError{
		ListID: "abc",
		Status: verification.BatchNotFound,
	}}
	assert.Equal(t, `no bulk verification list found for list with id: "abc"`, err.Error())

	var detail verification.BulkListCRUDError
	assert.ErrorAs(t, err, &detail)
	assert.Equal(t, verification.BatchNotFound, detail.Status)
}

func TestMismatchedResponseError(t *testing.T) {
	err := &MismatchedResponseError{Want: "email", Response: verification.PhoneResponse{}}
	assert.True(t, IsMismatched(err))
	assert.ErrorIs(t, err, ErrMismatchedResponse)
	assert.False(t, IsMismatched(errors.New("other")))
}
