package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"briteverify/internal/platform/metrics"
	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/verification"
)

const (
	backendRedis   = "redis"
	redisKeyPrefix = "briteverify:results:"
)

// RedisStore keeps results as JSON values that Redis expires after the TTL.
type RedisStore struct {
	client   *redis.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

func NewRedisStore(client *redis.Client, cacheTTL time.Duration, m *metrics.Metrics) *RedisStore {
	return &RedisStore{client: client, cacheTTL: cacheTTL, metrics: m}
}

func (s *RedisStore) Save(ctx context.Context, key string, results []verification.BulkVerificationResult) error {
	data, err := encodeResults(results)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save results to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, key string) ([]verification.BulkVerificationResult, error) {
	start := time.Now()
	data, err := s.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.metrics.RecordCacheMiss(backendRedis, time.Since(start))
			return nil, fmt.Errorf("results %q: %w", key, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find results in redis: %w", err)
	}
	results, err := decodeResults(data)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCacheHit(backendRedis, time.Since(start))
	return results, nil
}
