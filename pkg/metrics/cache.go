package metrics

// CacheMetrics observes attribute cache behaviour. Backend is "memory" or
// "badger". A nil CacheMetrics records nothing.
type CacheMetrics interface {
	RecordHit(backend string)
	RecordMiss(backend string)
	RecordEviction(backend string, reason string)
	SetEntries(backend string, n int)
}

// Eviction reasons.
const (
	EvictExpired  = "expired"
	EvictCapacity = "capacity"
)

// NewCacheMetrics returns the registered CacheMetrics, or nil when metrics
// are disabled or no implementation is linked in.
func NewCacheMetrics() CacheMetrics {
	if !IsEnabled() || newCacheMetrics == nil {
		return nil
	}
	return newCacheMetrics()
}

var newCacheMetrics func() CacheMetrics

// RegisterCacheMetricsConstructor installs the CacheMetrics implementation.
func RegisterCacheMetricsConstructor(fn func() CacheMetrics) {
	newCacheMetrics = fn
}
