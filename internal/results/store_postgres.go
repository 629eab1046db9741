package results

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver

	"briteverify/internal/platform/metrics"
	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/requestcontext"
	"briteverify/pkg/verification"
)

const backendPostgres = "postgres"

const schema = `
CREATE TABLE IF NOT EXISTS bulk_results (
	cache_key  TEXT PRIMARY KEY,
	results    JSONB NOT NULL,
	stored_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore persists results as JSONB rows. Rows older than the TTL are
// ignored on read and overwritten on the next save.
type PostgresStore struct {
	db       *sql.DB
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// OpenPostgres opens dsn with the lib/pq driver and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewPostgresStore(db *sql.DB, cacheTTL time.Duration, m *metrics.Metrics) *PostgresStore {
	return &PostgresStore{db: db, cacheTTL: cacheTTL, metrics: m}
}

// EnsureSchema creates the results table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, key string, results []verification.BulkVerificationResult) error {
	data, err := encodeResults(results)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bulk_results (cache_key, results, stored_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key) DO UPDATE
		SET results = EXCLUDED.results, stored_at = EXCLUDED.stored_at`,
		key, data, requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, key string) ([]verification.BulkVerificationResult, error) {
	start := time.Now()
	cutoff := requestcontext.Now(ctx).Add(-s.cacheTTL)

	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT results FROM bulk_results WHERE cache_key = $1 AND stored_at > $2`,
		key, cutoff,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCacheMiss(backendPostgres, time.Since(start))
			return nil, fmt.Errorf("results %q: %w", key, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find results: %w", err)
	}
	results, err := decodeResults(data)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCacheHit(backendPostgres, time.Since(start))
	return results, nil
}
