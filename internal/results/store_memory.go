package results

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"briteverify/internal/platform/metrics"
	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/requestcontext"
	"briteverify/pkg/verification"
)

const backendMemory = "memory"

type cachedResults struct {
	results  []verification.BulkVerificationResult
	storedAt time.Time
}

// InMemoryStore keeps results in process with TTL expiration.
type InMemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]cachedResults
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

func NewInMemoryStore(cacheTTL time.Duration, m *metrics.Metrics) *InMemoryStore {
	return &InMemoryStore{
		entries:  make(map[string]cachedResults),
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

func (s *InMemoryStore) Save(ctx context.Context, key string, results []verification.BulkVerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = cachedResults{
		results:  slices.Clone(results),
		storedAt: requestcontext.Now(ctx),
	}
	return nil
}

// Find returns a copy of the cached results. Entries older than the TTL are misses.
func (s *InMemoryStore) Find(ctx context.Context, key string) ([]verification.BulkVerificationResult, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	if cached, ok := s.entries[key]; ok && now.Sub(cached.storedAt) < s.cacheTTL {
		s.metrics.RecordCacheHit(backendMemory, time.Since(start))
		out := slices.Clone(cached.results)
		if out == nil {
			out = []verification.BulkVerificationResult{}
		}
		return out, nil
	}
	s.metrics.RecordCacheMiss(backendMemory, time.Since(start))
	return nil, fmt.Errorf("results %q: %w", key, sentinel.ErrNotFound)
}
