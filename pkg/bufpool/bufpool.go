// Package bufpool keeps reusable byte slices for encoding SFTP records.
//
// Buffers come in size tiers. A request is served from the smallest tier
// that fits; requests above the largest tier are allocated directly and
// never pooled. The default tiers follow typical record sizes: a bare
// ATTRS or STATUS body, a record carrying metadata, and a full packet at
// the common 34000 byte limit.
//
//	buf := bufpool.Get(n)
//	defer bufpool.Put(buf)
package bufpool

import (
	"slices"
	"sync"
)

const (
	DefaultSmallSize  = 256
	DefaultMediumSize = 4 << 10
	DefaultLargeSize  = 34000
)

// Config lists the tier sizes. Zero or negative sizes are dropped;
// an empty Config uses the defaults.
type Config struct {
	Sizes []int
}

// DefaultConfig returns the default tiers.
func DefaultConfig() Config {
	return Config{Sizes: []int{DefaultSmallSize, DefaultMediumSize, DefaultLargeSize}}
}

type tier struct {
	size int
	pool sync.Pool
}

// Pool is a set of size-tiered sync.Pools. Safe for concurrent use.
type Pool struct {
	tiers []*tier
}

// NewPool builds a Pool. A nil cfg uses DefaultConfig.
func NewPool(cfg *Config) *Pool {
	var sizes []int
	if cfg != nil {
		for _, s := range cfg.Sizes {
			if s > 0 {
				sizes = append(sizes, s)
			}
		}
	}
	if len(sizes) == 0 {
		sizes = DefaultConfig().Sizes
	}
	slices.Sort(sizes)
	sizes = slices.Compact(sizes)

	p := &Pool{tiers: make([]*tier, len(sizes))}
	for i, size := range sizes {
		t := &tier{size: size}
		t.pool.New = func() any {
			b := make([]byte, t.size)
			return &b
		}
		p.tiers[i] = t
	}
	return p
}

// Get returns a slice of length size. Its capacity is the tier size when
// pooled.
func (p *Pool) Get(size int) []byte {
	if size < 0 {
		size = 0
	}
	for _, t := range p.tiers {
		if size <= t.size {
			b := *(t.pool.Get().(*[]byte))
			return b[:size]
		}
	}
	return make([]byte, size)
}

// Put returns buf to the tier matching its capacity. Buffers of any other
// capacity, including those that grew by append, are left to the GC.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}
	for _, t := range p.tiers {
		if cap(buf) == t.size {
			full := buf[:t.size]
			t.pool.Put(&full)
			return
		}
	}
}

// Sizes returns the tier sizes in ascending order.
func (p *Pool) Sizes() []int {
	out := make([]int, len(p.tiers))
	for i, t := range p.tiers {
		out[i] = t.size
	}
	return out
}

// MaxPooled is the largest size served from a pool.
func (p *Pool) MaxPooled() int {
	return p.tiers[len(p.tiers)-1].size
}

var global = NewPool(nil)

// Get returns a buffer from the default pool.
func Get(size int) []byte { return global.Get(size) }

// Put returns a buffer to the default pool.
func Put(buf []byte) { global.Put(buf) }
