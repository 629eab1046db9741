package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Result stores and the API client
// return these, usually wrapped, so callers can test with errors.Is:
// - ErrNotFound: nothing cached under the key, or the entry has expired
// - ErrUnavailable: a dependency is refusing requests for now
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
