package attrcache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/pkg/metrics"
)

const backendBadger = "badger"

// keyPrefix namespaces attribute entries within the database.
const keyPrefix = "a:"

func keyAttrs(path string) []byte {
	return []byte(keyPrefix + path)
}

// Badger is a persistent cache backed by a BadgerDB directory. Entry
// expiry uses badger's native TTL.
type Badger struct {
	db     *badgerdb.DB
	ttl    time.Duration
	m      metrics.CacheMetrics
	closed atomic.Bool
}

// OpenBadger opens (or creates) a cache in dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string, ttl time.Duration, m metrics.CacheMetrics) (*Badger, error) {
	opts := badgerdb.DefaultOptions(dir).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache at %q: %w", dir, err)
	}
	return &Badger{db: db, ttl: ttl, m: m}, nil
}

// Get implements Cache.
func (b *Badger) Get(ctx context.Context, path string) (*attrs.Attributes, bool, error) {
	if err := b.check(ctx); err != nil {
		return nil, false, err
	}

	var data []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyAttrs(path))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		if b.m != nil {
			b.m.RecordMiss(backendBadger)
		}
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached attrs for %q: %w", path, err)
	}
	if b.m != nil {
		b.m.RecordHit(backendBadger)
	}

	a, err := decode(data)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// Put implements Cache.
func (b *Badger) Put(ctx context.Context, path string, a *attrs.Attributes) error {
	if err := b.check(ctx); err != nil {
		return err
	}

	data, err := encode(a)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badgerdb.Txn) error {
		e := badgerdb.NewEntry(keyAttrs(path), data)
		if b.ttl > 0 {
			e = e.WithTTL(b.ttl)
		}
		if err := txn.SetEntry(e); err != nil {
			return fmt.Errorf("cache attrs for %q: %w", path, err)
		}
		return nil
	})
}

// Delete implements Cache.
func (b *Badger) Delete(ctx context.Context, path string) error {
	if err := b.check(ctx); err != nil {
		return err
	}
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(keyAttrs(path))
	})
}

// Len counts live entries.
func (b *Badger) Len(ctx context.Context) (int, error) {
	if err := b.check(ctx); err != nil {
		return 0, err
	}

	n := 0
	err := b.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err == nil && b.m != nil {
		b.m.SetEntries(backendBadger, n)
	}
	return n, err
}

// Close implements Cache.
func (b *Badger) Close() error {
	if b.closed.Swap(true) {
		return ErrClosed
	}
	return b.db.Close()
}

func (b *Badger) check(ctx context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}
