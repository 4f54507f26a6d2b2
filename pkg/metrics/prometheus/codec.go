// Package prometheus provides the Prometheus implementations of the
// pkg/metrics interfaces. Import it for its side effect of registering the
// constructors.
package prometheus

import (
	"sync"
	"time"

	"github.com/marmos91/sftpbridge/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterCodecMetricsConstructor(func() metrics.CodecMetrics {
		return NewCodecMetrics()
	})
	metrics.RegisterCacheMetricsConstructor(func() metrics.CacheMetrics {
		return NewCacheMetrics()
	})
}

// Collectors are registered once per registry; later constructor calls
// share them.
var (
	mu     sync.Mutex
	codecs = map[*prometheus.Registry]*codecMetrics{}
	caches = map[*prometheus.Registry]*cacheMetrics{}
)

type codecMetrics struct {
	decodes         *prometheus.CounterVec
	decodeErrors    *prometheus.CounterVec
	decodeDuration  *prometheus.HistogramVec
	recordBytes     *prometheus.HistogramVec
	encodes         *prometheus.CounterVec
	unknownExt      *prometheus.CounterVec
	droppedExt      *prometheus.CounterVec
	unknownMetaTags prometheus.Counter
}

// NewCodecMetrics returns the codec collectors bound to the process
// registry, or nil if metrics are disabled.
func NewCodecMetrics() *codecMetrics {
	reg := metrics.GetRegistry()
	if reg == nil {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()
	if m, ok := codecs[reg]; ok {
		return m
	}

	f := promauto.With(reg)
	m := &codecMetrics{
		decodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_decode_total",
				Help: "Records decoded by kind",
			},
			[]string{"record"},
		),
		decodeErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_decode_errors_total",
				Help: "Records that failed to decode by kind",
			},
			[]string{"record"},
		),
		decodeDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sftpbridge_decode_duration_seconds",
				Help:    "Time spent decoding one record",
				Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
			},
			[]string{"record"},
		),
		recordBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sftpbridge_record_bytes",
				Help:    "Encoded record size by kind and direction",
				Buckets: prometheus.ExponentialBuckets(16, 4, 8),
			},
			[]string{"record", "direction"},
		),
		encodes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_encode_total",
				Help: "Records encoded by kind",
			},
			[]string{"record"},
		),
		unknownExt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_unknown_extensions_total",
				Help: "Extension payloads decoded as opaque because the name has no decoder",
			},
			[]string{"extension"},
		),
		droppedExt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sftpbridge_dropped_attr_extensions_total",
				Help: "ATTRS extended pairs skipped during decode",
			},
			[]string{"extension"},
		),
		unknownMetaTags: f.NewCounter(
			prometheus.CounterOpts{
				Name: "sftpbridge_unknown_metadata_tags_total",
				Help: "Metadata entries skipped because of an unknown value tag",
			},
		),
	}
	codecs[reg] = m
	return m
}

func (m *codecMetrics) ObserveDecode(record string, bytes int, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.decodes.WithLabelValues(record).Inc()
	m.decodeDuration.WithLabelValues(record).Observe(d.Seconds())
	m.recordBytes.WithLabelValues(record, "in").Observe(float64(bytes))
	if err != nil {
		m.decodeErrors.WithLabelValues(record).Inc()
	}
}

func (m *codecMetrics) ObserveEncode(record string, bytes int, _ time.Duration) {
	if m == nil {
		return
	}
	m.encodes.WithLabelValues(record).Inc()
	m.recordBytes.WithLabelValues(record, "out").Observe(float64(bytes))
}

func (m *codecMetrics) RecordUnknownExtension(name string) {
	if m == nil {
		return
	}
	m.unknownExt.WithLabelValues(name).Inc()
}

func (m *codecMetrics) RecordDroppedExtension(name string) {
	if m == nil {
		return
	}
	m.droppedExt.WithLabelValues(name).Inc()
}

func (m *codecMetrics) RecordUnknownMetadataTags(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.unknownMetaTags.Add(float64(n))
}
