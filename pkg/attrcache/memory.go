package attrcache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/pkg/metrics"
)

const (
	backendMemory     = "memory"
	defaultMaxEntries = 10000
)

// Memory is an in-process cache bounded by entry count. Admission and
// eviction follow ristretto's TinyLFU policy, so under pressure a Put may
// be dropped rather than displace a hotter entry.
type Memory struct {
	c       *ristretto.Cache[string, []byte]
	ttl     time.Duration
	m      metrics.CacheMetrics
	closed atomic.Bool
}

// NewMemory returns a Memory cache holding at most maxEntries entries,
// each expiring after ttl (zero for never).
func NewMemory(maxEntries int, ttl time.Duration, m metrics.CacheMetrics) (*Memory, error) {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	mc := &Memory{ttl: ttl, m: m}
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters:        int64(maxEntries) * 10,
		MaxCost:            int64(maxEntries),
		BufferItems:        64,
		IgnoreInternalCost: true,
		Metrics:            true,
		OnEvict:            mc.evicted,
	})
	if err != nil {
		return nil, err
	}
	mc.c = c
	return mc, nil
}

func (mc *Memory) evicted(item *ristretto.Item[[]byte]) {
	if mc.m == nil {
		return
	}
	reason := metrics.EvictCapacity
	if !item.Expiration.IsZero() && time.Now().After(item.Expiration) {
		reason = metrics.EvictExpired
	}
	mc.m.RecordEviction(backendMemory, reason)
}

// Get implements Cache.
func (mc *Memory) Get(ctx context.Context, path string) (*attrs.Attributes, bool, error) {
	if err := mc.check(ctx); err != nil {
		return nil, false, err
	}

	data, ok := mc.c.Get(path)
	if !ok {
		if mc.m != nil {
			mc.m.RecordMiss(backendMemory)
		}
		return nil, false, nil
	}
	if mc.m != nil {
		mc.m.RecordHit(backendMemory)
	}

	a, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// Put implements Cache. The entry is visible to Get when Put returns.
func (mc *Memory) Put(ctx context.Context, path string, a *attrs.Attributes) error {
	if err := mc.check(ctx); err != nil {
		return err
	}

	data, err := encode(a)
	if err != nil {
		return err
	}

	mc.c.SetWithTTL(path, data, 1, mc.ttl)
	mc.c.Wait()
	mc.reportEntries()
	return nil
}

// Delete implements Cache.
func (mc *Memory) Delete(ctx context.Context, path string) error {
	if err := mc.check(ctx); err != nil {
		return err
	}
	mc.c.Del(path)
	mc.c.Wait()
	mc.reportEntries()
	return nil
}

// Len counts entries held by the cache, including expired ones not yet
// swept. Pending writes are flushed first.
func (mc *Memory) Len(ctx context.Context) (int, error) {
	if err := mc.check(ctx); err != nil {
		return 0, err
	}
	mc.c.Wait()
	n := mc.len()
	if mc.m != nil {
		mc.m.SetEntries(backendMemory, n)
	}
	return n, nil
}

// len derives occupancy from the admission policy: every key it admits is
// later removed exactly once, by capacity eviction, Del or expiry sweep.
// Overwrites of a stored key, expired or not, touch neither counter.
func (mc *Memory) len() int {
	added, evicted := mc.c.Metrics.KeysAdded(), mc.c.Metrics.KeysEvicted()
	if evicted >= added {
		return 0
	}
	return int(added - evicted)
}

func (mc *Memory) reportEntries() {
	if mc.m != nil {
		mc.m.SetEntries(backendMemory, mc.len())
	}
}

// Close implements Cache.
func (mc *Memory) Close() error {
	if mc.closed.Swap(true) {
		return ErrClosed
	}
	mc.c.Close()
	return nil
}

func (mc *Memory) check(ctx context.Context) error {
	if mc.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}
