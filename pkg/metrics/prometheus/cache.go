package prometheus

import (
	"github.com/marmos91/sftpbridge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type cacheMetrics struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	entries   *prometheus.GaugeVec
}

// NewCacheMetrics returns the attribute cache collectors bound to the
// process registry, or nil if metrics are disabled.
func NewCacheMetrics() *cacheMetrics {
	reg := metrics.GetRegistry()
	if reg == nil {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if m, ok := caches[reg]; ok {
		return m
	}

	f := promauto.With(reg)
	m := &cacheMetrics{
		hits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_attrcache_hits_total",
				Help: "Attribute cache hits by backend",
			},
			[]string{"backend"},
		),
		misses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_attrcache_misses_total",
				Help: "Attribute cache misses by backend",
			},
			[]string{"backend"},
		),
		evictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_attrcache_evictions_total",
				Help: "Attribute cache evictions by backend and reason",
			},
			[]string{"backend", "reason"}, // "expired", "capacity"
		),
		entries: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sftpbridge_attrcache_entries",
				Help: "Entries currently held by the attribute cache",
			},
			[]string{"backend"},
		),
	}
	caches[reg] = m
	return m
}

func (m *cacheMetrics) RecordHit(backend string) {
	if m == nil {
		return
	}
	m.hits.WithLabelValues(backend).Inc()
}

func (m *cacheMetrics) RecordMiss(backend string) {
	if m == nil {
		return
	}
	m.misses.WithLabelValues(backend).Inc()
}

func (m *cacheMetrics) RecordEviction(backend, reason string) {
	if m == nil {
		return
	}
	m.evictions.WithLabelValues(backend, reason).Inc()
}

func (m *cacheMetrics) SetEntries(backend string, n int) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues(backend).Set(float64(n))
}
