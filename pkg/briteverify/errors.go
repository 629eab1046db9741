package briteverify

import (
	"errors"
	"fmt"

	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/verification"
)

// ErrorCategory defines the normalized failure taxonomy
type ErrorCategory string

const (
	// ErrorTimeout indicates the API took too long to respond
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorBadData indicates the API returned a body that could not be decoded
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorAuthentication indicates a missing, invalid or unauthorized API key
	ErrorAuthentication ErrorCategory = "authentication"

	// ErrorProviderOutage indicates the API is unavailable or the breaker is open
	ErrorProviderOutage ErrorCategory = "provider_outage"

	// ErrorUnusableResponse indicates a status code the endpoint does not expect
	ErrorUnusableResponse ErrorCategory = "unusable_response"

	// ErrorNotFound indicates the bulk list does not exist
	ErrorNotFound ErrorCategory = "not_found"

	// ErrorRateLimited indicates too many requests
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInternal indicates an unexpected internal error
	ErrorInternal ErrorCategory = "internal"
)

var (
	ErrMissingAPIKey      = errors.New("no BriteVerify API key provided")
	ErrInvalidAPIKey      = errors.New("invalid or unauthorized BriteVerify API key")
	ErrInvalidBaseURL     = errors.New("invalid or unusable base url")
	ErrMismatchedResponse = errors.New("response type doesn't match expectation")
	ErrMissingPageCount   = errors.New("missing page count")
	ErrTooManyPages       = errors.New("page count exceeds limit")
	ErrCircuitOpen        = fmt.Errorf("circuit breaker open: %w", sentinel.ErrUnavailable)
)

// ClientError wraps API failures with normalized categorization
type ClientError struct {
	Category   ErrorCategory
	Endpoint   string
	StatusCode int
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ClientError) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Underlying != nil {
		return fmt.Sprintf("briteverify %s [%s]%s: %s: %v", e.Endpoint, e.Category, status, e.Message, e.Underlying)
	}
	return fmt.Sprintf("briteverify %s [%s]%s: %s", e.Endpoint, e.Category, status, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Underlying
}

// NewClientError creates a new normalized client error
func NewClientError(category ErrorCategory, endpoint string, status int, message string, underlying error) *ClientError {
	retryable := category == ErrorTimeout ||
		category == ErrorProviderOutage ||
		category == ErrorRateLimited

	return &ClientError{
		Category:   category,
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    message,
		Underlying: underlying,
		Retryable:  retryable,
	}
}

// IsRetryable checks if an error is worth retrying
func IsRetryable(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error
func GetCategory(err error) ErrorCategory {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorInternal
}

// BulkListNotFoundError reports that no bulk list exists for an identifier. It
// carries the API's own error body with the requested list id filled in.
type BulkListNotFoundError struct {
	Detail verification.BulkListCRUDError
}

func (e *BulkListNotFoundError) Error() string {
	id, _ := e.Detail.ListID.Get()
	return fmt.Sprintf("no bulk verification list found for list with id: %q", id)
}

// Unwrap exposes the API error body so callers can errors.As it directly.
func (e *BulkListNotFoundError) Unwrap() error {
	return e.Detail
}
