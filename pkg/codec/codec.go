// Package codec is the entry point used by the bridge and the CLI to turn
// SFTP payloads into typed values and back.
//
// It wraps the wire codecs under internal/sftp with a packet size limit,
// structured logging, metrics and an optional attribute cache. The codecs
// themselves stay free of those concerns.
package codec

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marmos91/sftpbridge/internal/logger"
	"github.com/marmos91/sftpbridge/internal/sftp/attrs"
	"github.com/marmos91/sftpbridge/internal/sftp/extension"
	"github.com/marmos91/sftpbridge/internal/sftp/status"
	"github.com/marmos91/sftpbridge/internal/sftp/statvfs"
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/marmos91/sftpbridge/pkg/attrcache"
	"github.com/marmos91/sftpbridge/pkg/bufpool"
	"github.com/marmos91/sftpbridge/pkg/metrics"
)

// DefaultMaxPacketSize matches the limit most servers advertise.
const DefaultMaxPacketSize = 256 << 10

// ErrPacketTooLarge is returned for payloads above Options.MaxPacketSize.
var ErrPacketTooLarge = errors.New("codec: packet too large")

// Options configures a Codec. The zero value is usable.
type Options struct {
	// MaxPacketSize bounds decoded payloads. Zero uses DefaultMaxPacketSize.
	MaxPacketSize int

	// DecodeMetadata keeps the meta@sftp.ws extension of ATTRS records.
	// When false it is dropped like any other extension.
	DecodeMetadata bool

	Metrics metrics.CodecMetrics

	// Cache stores decoded attributes for StatCached and Lookup. Nil
	// disables caching.
	Cache attrcache.Cache
}

// Codec decodes and encodes SFTP records. Safe for concurrent use.
type Codec struct {
	maxPacket      int
	decodeMetadata bool
	metrics        metrics.CodecMetrics
	cache          attrcache.Cache
}

// New returns a Codec built from opts.
func New(opts Options) *Codec {
	if opts.MaxPacketSize <= 0 {
		opts.MaxPacketSize = DefaultMaxPacketSize
	}
	cache := opts.Cache
	if cache == nil {
		cache = attrcache.Noop{}
	}
	return &Codec{
		maxPacket:      opts.MaxPacketSize,
		decodeMetadata: opts.DecodeMetadata,
		metrics:        opts.Metrics,
		cache:          cache,
	}
}

// MaxPacketSize returns the effective payload limit.
func (c *Codec) MaxPacketSize() int { return c.maxPacket }

// ============================================================================
// ATTRS
// ============================================================================

// DecodeAttrs decodes an ATTRS record occupying the whole payload.
func (c *Codec) DecodeAttrs(ctx context.Context, payload []byte) (*attrs.Attributes, error) {
	var a *attrs.Attributes
	err := c.decode(ctx, metrics.RecordAttrs, payload, func(r *wire.Reader) error {
		var (
			info attrs.DecodeInfo
			err  error
		)
		a, info, err = attrs.DecodeWithOptions(r, attrs.DecodeOptions{SkipMetadata: !c.decodeMetadata})
		if err != nil {
			return err
		}
		c.reportAttrsInfo(ctx, info)
		logger.DebugCtx(ctx, "decoded attrs",
			logger.Flags(uint32(a.Flags)),
			logger.Size(a.Size),
			logger.Mode(a.Mode))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (c *Codec) reportAttrsInfo(ctx context.Context, info attrs.DecodeInfo) {
	for _, name := range info.DroppedExtensions {
		logger.DebugCtx(ctx, "dropped attrs extension", logger.Extension(name))
		if c.metrics != nil {
			c.metrics.RecordDroppedExtension(name)
		}
	}
	if info.UnknownMetadataTags > 0 {
		logger.WarnCtx(ctx, "metadata entries with unknown tags skipped",
			logger.Count(info.UnknownMetadataTags))
		if c.metrics != nil {
			c.metrics.RecordUnknownMetadataTags(info.UnknownMetadataTags)
		}
	}
}

// EncodeAttrs returns the wire form of a.
func (c *Codec) EncodeAttrs(ctx context.Context, a *attrs.Attributes) ([]byte, error) {
	return c.encode(ctx, metrics.RecordAttrs, a.Encode)
}

// StatCached decodes payload as the attributes of path and stores them in
// the cache.
func (c *Codec) StatCached(ctx context.Context, path string, payload []byte) (*attrs.Attributes, error) {
	ctx = withPath(ctx, path)
	a, err := c.DecodeAttrs(ctx, payload)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(ctx, path, a); err != nil {
		return nil, fmt.Errorf("cache attrs: %w", err)
	}
	return a, nil
}

// Lookup returns the cached attributes of path.
func (c *Codec) Lookup(ctx context.Context, path string) (*attrs.Attributes, bool, error) {
	ctx = withPath(ctx, path)
	a, ok, err := c.cache.Get(ctx, path)
	if err != nil {
		return nil, false, fmt.Errorf("lookup attrs: %w", err)
	}
	logger.DebugCtx(ctx, "attrs lookup", logger.CacheHit(ok))
	return a, ok, nil
}

// Invalidate drops the cached attributes of path.
func (c *Codec) Invalidate(ctx context.Context, path string) error {
	return c.cache.Delete(withPath(ctx, path), path)
}

// ============================================================================
// STATUS
// ============================================================================

// DecodeStatus decodes a status body.
func (c *Codec) DecodeStatus(ctx context.Context, payload []byte) (*status.Status, error) {
	var s *status.Status
	err := c.decode(ctx, metrics.RecordStatus, payload, func(r *wire.Reader) error {
		var err error
		s, err = status.Read(r)
		if err != nil {
			return err
		}
		logger.DebugCtx(ctx, "decoded status", logger.Status(s.Code.String()))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeStatus returns the wire form of a status body.
func (c *Codec) EncodeStatus(ctx context.Context, code status.Code, message string) ([]byte, error) {
	return c.encode(ctx, metrics.RecordStatus, func(w *wire.Writer) {
		status.Write(w, code, message)
	})
}

// EncodeError returns the status body describing err.
func (c *Codec) EncodeError(ctx context.Context, err error) ([]byte, error) {
	return c.encode(ctx, metrics.RecordStatus, func(w *wire.Writer) {
		status.WriteError(w, err)
	})
}

// ============================================================================
// STATVFS
// ============================================================================

// DecodeStatVFS decodes a statvfs@openssh.com reply body.
func (c *Codec) DecodeStatVFS(ctx context.Context, payload []byte) (*statvfs.VfsStats, error) {
	var s *statvfs.VfsStats
	err := c.decode(ctx, metrics.RecordStatVFS, payload, func(r *wire.Reader) error {
		var err error
		s, err = statvfs.Decode(r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// EncodeStatVFS returns the wire form of s.
func (c *Codec) EncodeStatVFS(ctx context.Context, s *statvfs.VfsStats) ([]byte, error) {
	return c.encode(ctx, metrics.RecordStatVFS, s.Encode)
}

// ============================================================================
// Extensions
// ============================================================================

// DecodeExtension decodes the data field of the extension pair called name.
func (c *Codec) DecodeExtension(ctx context.Context, name string, payload []byte) (extension.Payload, error) {
	ctx = withExtension(ctx, name)
	if !extension.IsKnown(name) {
		logger.WarnCtx(ctx, "unknown extension")
		if c.metrics != nil {
			c.metrics.RecordUnknownExtension(name)
		}
	}

	var p extension.Payload
	err := c.decode(ctx, metrics.RecordExtension, payload, func(r *wire.Reader) error {
		var err error
		p, err = extension.Read(name, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// DecodeVersion decodes an SSH_FXP_VERSION body.
func (c *Codec) DecodeVersion(ctx context.Context, payload []byte) (*extension.Version, error) {
	var v *extension.Version
	err := c.decode(ctx, metrics.RecordVersion, payload, func(r *wire.Reader) error {
		var err error
		v, err = extension.ReadVersion(r)
		if err != nil {
			return err
		}
		for _, p := range v.Extensions {
			if !extension.IsKnown(p.Name) {
				logger.WarnCtx(ctx, "unknown extension", logger.Extension(p.Name))
				if c.metrics != nil {
					c.metrics.RecordUnknownExtension(p.Name)
				}
			}
		}
		logger.DebugCtx(ctx, "decoded version", "version", v.Version, logger.Count(len(v.Extensions)))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// EncodeVersion returns the wire form of v.
func (c *Codec) EncodeVersion(ctx context.Context, v *extension.Version) ([]byte, error) {
	return c.encode(ctx, metrics.RecordVersion, func(w *wire.Writer) {
		extension.WriteVersion(w, v)
	})
}

// ============================================================================
// Shared paths
// ============================================================================

func (c *Codec) decode(ctx context.Context, record string, payload []byte, fn func(*wire.Reader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(payload) > c.maxPacket {
		err := fmt.Errorf("%w: %s payload of %d bytes exceeds %d", ErrPacketTooLarge, record, len(payload), c.maxPacket)
		c.observeDecode(record, len(payload), 0, err)
		return err
	}

	start := time.Now()
	r := wire.NewReader(payload)
	err := fn(r)
	c.observeDecode(record, len(payload), time.Since(start), err)
	if err != nil {
		logger.DebugCtx(ctx, "decode failed", logger.Record(record), logger.Bytes(len(payload)), logger.Err(err))
		return fmt.Errorf("decode %s: %w", record, err)
	}
	if n := r.Remaining(); n > 0 {
		logger.DebugCtx(ctx, "trailing bytes after record", logger.Record(record), logger.Bytes(n))
	}
	return nil
}

func (c *Codec) observeDecode(record string, n int, d time.Duration, err error) {
	if c.metrics != nil {
		c.metrics.ObserveDecode(record, n, d, err)
	}
}

// encode writes through a pooled buffer and returns a copy of the result.
func (c *Codec) encode(ctx context.Context, record string, fn func(*wire.Writer)) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	buf := bufpool.Get(bufpool.DefaultSmallSize)
	defer bufpool.Put(buf)

	w := wire.NewWriterBuffer(buf)
	fn(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", record, err)
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	if c.metrics != nil {
		c.metrics.ObserveEncode(record, len(out), time.Since(start))
	}
	return out, nil
}

func withPath(ctx context.Context, path string) context.Context {
	return logger.WithContext(ctx, logger.FromContext(ctx).WithPath(path))
}

func withExtension(ctx context.Context, name string) context.Context {
	return logger.WithContext(ctx, logger.FromContext(ctx).WithExtension(name))
}
