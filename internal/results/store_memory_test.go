package results

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briteverify/internal/platform/metrics"
	"briteverify/pkg/platform/sentinel"
	"briteverify/pkg/requestcontext"
	"briteverify/pkg/verification"
)

func TestInMemoryStore(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	store := NewInMemoryStore(time.Hour, m)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("miss", func(t *testing.T) {
		_, err := store.Find(ctx, "nope")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("round trip returns a copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "k", sampleResults))

		got, err := store.Find(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, sampleResults, got)

		got[0] = verification.BulkEmailResult{Email: "changed@example.com"}
		again, err := store.Find(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, sampleResults, again)
	})

	t.Run("empty results stay non-nil", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, "empty", nil))
		got, err := store.Find(ctx, "empty")
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		later := requestcontext.WithTime(context.Background(), now.Add(2*time.Hour))
		_, err := store.Find(later, "k")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	assert.InDelta(t, 3, testutil.ToFloat64(m.CacheLookups.WithLabelValues("memory", "hit")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues("memory", "miss")), 0)
}

func TestAccountCache(t *testing.T) {
	store := NewInMemoryStore(time.Hour, nil)
	ctx := context.Background()

	alice := NewAccountCache(store, "key-a")
	bob := NewAccountCache(store, "key-b")

	require.NoError(t, alice.Save(ctx, "list-1", sampleResults))

	got, err := alice.Find(ctx, "list-1")
	require.NoError(t, err)
	assert.Equal(t, sampleResults, got)

	_, err = bob.Find(ctx, "list-1")
	assert.ErrorIs(t, err, sentinel.ErrNotFound, "accounts must not share cached results")
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint("secret")
	assert.Len(t, a, 24)
	assert.Equal(t, a, Fingerprint("secret"))
	assert.NotEqual(t, a, Fingerprint("secret2"))
	assert.NotContains(t, a, "secret")
}

func TestEncodeDecodeResults(t *testing.T) {
	mixed := []verification.BulkVerificationResult{
		verification.BulkEmailResult{Email: "a@b.com", Status: verification.StatusValid},
		verification.BulkContactResult{
			Phone: &verification.BulkPhoneResult{Phone: "5555555555", Status: verification.StatusValid, ServiceType: "mobile"},
		},
	}
	data, err := encodeResults(mixed)
	require.NoError(t, err)

	got, err := decodeResults(data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.IsType(t, verification.BulkEmailResult{}, got[0])
	assert.IsType(t, verification.BulkContactResult{}, got[1])
}
