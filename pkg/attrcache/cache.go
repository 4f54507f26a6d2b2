// Package attrcache caches decoded ATTRS records by remote path.
//
// Entries are stored in their wire encoding, so a cached value carries
// exactly what a server would send: host-only fields such as Nlink do not
// survive a round trip through the cache.
package attrcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/marmos91/sftpbridge/pkg/metrics"
)

// ErrClosed is returned by operations on a closed cache.
var ErrClosed = errors.New("attrcache: closed")

// Cache stores attributes by path. Implementations are safe for
// concurrent use.
type Cache interface {
	// Get returns the attributes cached for path. A miss is (nil, false, nil).
	Get(ctx context.Context, path string) (*attrs.Attributes, bool, error)

	// Put stores a for path, replacing any previous entry.
	Put(ctx context.Context, path string, a *attrs.Attributes) error

	// Delete removes path. Deleting a missing path is not an error.
	Delete(ctx context.Context, path string) error

	// Close releases resources. Further calls return ErrClosed.
	Close() error
}

// Backend types accepted by New.
const (
	TypeNone   = "none"
	TypeMemory = "memory"
	TypeBadger = "badger"
)

// Config selects and sizes a backend.
type Config struct {
	Type       string
	Path       string        // badger directory
	TTL        time.Duration // zero keeps entries until evicted
	MaxEntries int           // memory only; zero means a default bound
	Metrics    metrics.CacheMetrics
}

// New opens the backend named by cfg.Type.
func New(cfg Config) (Cache, error) {
	switch cfg.Type {
	case TypeNone, "":
		return Noop{}, nil
	case TypeMemory:
		return NewMemory(cfg.MaxEntries, cfg.TTL, cfg.Metrics)
	case TypeBadger:
		return OpenBadger(cfg.Path, cfg.TTL, cfg.Metrics)
	}
	return nil, fmt.Errorf("attrcache: unknown backend %q", cfg.Type)
}

func encode(a *attrs.Attributes) ([]byte, error) {
	w := wire.NewWriter(64)
	a.Encode(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func decode(data []byte) (*attrs.Attributes, error) {
	r := wire.NewReader(data)
	a, err := attrs.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("attrcache: corrupt entry: %w", err)
	}
	return a, nil
}

// Noop caches nothing.
type Noop struct{}

func (Noop) Get(context.Context, string) (*attrs.Attributes, bool, error) { return nil, false, nil }
func (Noop) Put(context.Context, string, *attrs.Attributes) error        { return nil }
func (Noop) Delete(context.Context, string) error                        { return nil }
func (Noop) Close() error                                                { return nil }
