package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Run("nil metrics are a no-op", func(t *testing.T) {
		var m *Metrics
		assert.NotPanics(t, func() {
			m.RecordCacheHit("memory", time.Millisecond)
			m.RecordCacheMiss("memory", time.Millisecond)
			m.AddExported(1, 1)
			m.IncrementMockRequest("/api/v1/fullverify", "200")
		})
	})

	t.Run("counts by label", func(t *testing.T) {
		m := New(prometheus.NewRegistry())
		m.RecordCacheHit("redis", time.Millisecond)
		m.RecordCacheHit("redis", time.Millisecond)
		m.RecordCacheMiss("redis", time.Millisecond)
		m.AddExported(3, 1)

		assert.InDelta(t, 2, testutil.ToFloat64(m.CacheLookups.WithLabelValues("redis", "hit")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.CacheLookups.WithLabelValues("redis", "miss")), 0)
		assert.InDelta(t, 3, testutil.ToFloat64(m.ExportedRecords.WithLabelValues("ok")), 0)
		assert.InDelta(t, 1, testutil.ToFloat64(m.ExportedRecords.WithLabelValues("failed")), 0)
	})
}
