package attrcache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleAttrs() *attrs.Attributes {
	a := attrs.New()
	a.SetSize(4096)
	a.SetOwner(1000, 1000)
	a.SetMode(attrs.ModeRegular | 0o644)
	a.SetTimes(time.Unix(1700000000, 0), time.Unix(1700000100, 0))
	m := metadata.New()
	m.Set("etag", metadata.String("abc"))
	a.SetMetadata(m)
	a.Nlink = 2
	return a
}

// backends runs fn against every persistent and in-memory backend.
func backends(t *testing.T, ttl time.Duration, fn func(t *testing.T, c Cache)) {
	t.Run("Memory", func(t *testing.T) {
		c, err := NewMemory(100, ttl, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })
		fn(t, c)
	})
	t.Run("Badger", func(t *testing.T) {
		c, err := OpenBadger(filepath.Join(t.TempDir(), "cache"), ttl, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Close() })
		fn(t, c)
	})
}

func TestPutGet(t *testing.T) {
	backends(t, 0, func(t *testing.T, c Cache) {
		ctx := context.Background()
		in := sampleAttrs()
		require.NoError(t, c.Put(ctx, "/srv/file", in))

		out, ok, err := c.Get(ctx, "/srv/file")
		require.NoError(t, err)
		require.True(t, ok)

		assert.Equal(t, in.Flags, out.Flags)
		assert.Equal(t, in.Size, out.Size)
		assert.Equal(t, in.Mode, out.Mode)
		assert.True(t, in.Metadata.Equal(out.Metadata))
		assert.Zero(t, out.Nlink, "nlink is not part of the wire form")
	})
}

func TestMiss(t *testing.T) {
	backends(t, 0, func(t *testing.T, c Cache) {
		a, ok, err := c.Get(context.Background(), "/nope")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, a)
	})
}

func TestOverwriteAndDelete(t *testing.T) {
	backends(t, 0, func(t *testing.T, c Cache) {
		ctx := context.Background()
		require.NoError(t, c.Put(ctx, "/p", sampleAttrs()))

		small := attrs.New()
		small.SetSize(1)
		require.NoError(t, c.Put(ctx, "/p", small))

		got, ok, err := c.Get(ctx, "/p")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, attrs.FlagSize, got.Flags)

		require.NoError(t, c.Delete(ctx, "/p"))
		require.NoError(t, c.Delete(ctx, "/p"))
		_, ok, err = c.Get(ctx, "/p")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTTL(t *testing.T) {
	backends(t, time.Second, func(t *testing.T, c Cache) {
		ctx := context.Background()
		require.NoError(t, c.Put(ctx, "/short", sampleAttrs()))

		_, ok, err := c.Get(ctx, "/short")
		require.NoError(t, err)
		require.True(t, ok)

		// Badger expiry has one second resolution.
		time.Sleep(2100 * time.Millisecond)
		_, ok, err = c.Get(ctx, "/short")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestClosed(t *testing.T) {
	backends(t, 0, func(t *testing.T, c Cache) {
		require.NoError(t, c.Close())
		assert.ErrorIs(t, c.Close(), ErrClosed)

		_, _, err := c.Get(context.Background(), "/x")
		assert.ErrorIs(t, err, ErrClosed)
		assert.ErrorIs(t, c.Put(context.Background(), "/x", attrs.New()), ErrClosed)
	})
}

func TestCancelledContext(t *testing.T) {
	backends(t, 0, func(t *testing.T, c Cache) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, c.Put(ctx, "/x", attrs.New()), context.Canceled)
	})
}

func TestMemoryBound(t *testing.T) {
	c, err := NewMemory(4, 0, nil)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 32; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("/f%d", i), sampleAttrs()))
	}

	present := 0
	for i := 0; i < 32; i++ {
		if _, ok, _ := c.Get(ctx, fmt.Sprintf("/f%d", i)); ok {
			present++
		}
	}
	assert.LessOrEqual(t, present, 4)
}

// gauges records the last entry count reported per backend.
type gauges struct {
	mu      sync.Mutex
	entries map[string]int
}

func newGauges() *gauges { return &gauges{entries: map[string]int{}} }

func (g *gauges) RecordHit(string)              {}
func (g *gauges) RecordMiss(string)             {}
func (g *gauges) RecordEviction(string, string) {}

func (g *gauges) SetEntries(backend string, n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entries[backend] = n
}

func (g *gauges) get(backend string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.entries[backend]
}

func TestMemoryEntriesOverwriteAfterExpiry(t *testing.T) {
	g := newGauges()
	c, err := NewMemory(100, 50*time.Millisecond, g)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, c.Put(ctx, "/x", sampleAttrs()))
		time.Sleep(80 * time.Millisecond)
	}
	require.NoError(t, c.Put(ctx, "/x", sampleAttrs()))

	assert.Equal(t, 1, g.get(backendMemory))
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryEntriesPutDelete(t *testing.T) {
	g := newGauges()
	c, err := NewMemory(100, 0, g)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "/a", sampleAttrs()))
	require.NoError(t, c.Put(ctx, "/b", sampleAttrs()))
	require.NoError(t, c.Put(ctx, "/a", sampleAttrs()))
	assert.Equal(t, 2, g.get(backendMemory))

	require.NoError(t, c.Delete(ctx, "/a"))
	assert.Equal(t, 1, g.get(backendMemory))

	require.NoError(t, c.Delete(ctx, "/missing"))
	assert.Equal(t, 1, g.get(backendMemory))

	require.NoError(t, c.Delete(ctx, "/b"))
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryEntriesNeverExceedBound(t *testing.T) {
	g := newGauges()
	c, err := NewMemory(4, 0, g)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	for i := 0; i < 32; i++ {
		require.NoError(t, c.Put(ctx, fmt.Sprintf("/f%d", i), sampleAttrs()))
		assert.LessOrEqual(t, g.get(backendMemory), 4)
	}
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	ctx := context.Background()

	c, err := OpenBadger(dir, 0, nil)
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "/a", sampleAttrs()))
	require.NoError(t, c.Put(ctx, "/b", sampleAttrs()))
	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, c.Close())

	c, err = OpenBadger(dir, 0, nil)
	require.NoError(t, err)
	defer c.Close()

	a, ok, err := c.Get(ctx, "/a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(4096), a.Size)
}

func TestNew(t *testing.T) {
	c, err := New(Config{Type: TypeNone})
	require.NoError(t, err)
	require.NoError(t, c.Put(context.Background(), "/x", attrs.New()))
	_, ok, _ := c.Get(context.Background(), "/x")
	assert.False(t, ok)

	c, err = New(Config{Type: TypeMemory, MaxEntries: 8})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)
	require.NoError(t, c.Close())

	c, err = New(Config{Type: TypeBadger})
	require.NoError(t, err)
	assert.IsType(t, &Badger{}, c)
	require.NoError(t, c.Close())

	_, err = New(Config{Type: "redis"})
	assert.Error(t, err)
}

func TestCorruptEntry(t *testing.T) {
	c, err := OpenBadger("", 0, nil)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(keyAttrs("/bad"), []byte{0, 0, 0, 1})
	}))

	_, _, err = c.Get(context.Background(), "/bad")
	assert.Error(t, err)
}
