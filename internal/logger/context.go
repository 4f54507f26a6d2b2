package logger

import (
	"context"
	"time"
)

type contextKey struct{}

// LogContext holds per-request fields that the *Ctx functions prepend to
// every record.
type LogContext struct {
	RequestID uint32    // SFTP request id, 0 when unknown
	Operation string    // decode_attrs, encode_status, replay ...
	Path      string    // Remote or host path the record describes
	Extension string    // Extension name for extended payloads
	StartTime time.Time // For DurationMs
}

// WithContext returns ctx carrying lc.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, contextKey{}, lc)
}

// FromContext returns the LogContext in ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(contextKey{}).(*LogContext)
	return lc
}

// NewLogContext starts a LogContext for operation.
func NewLogContext(operation string) *LogContext {
	return &LogContext{Operation: operation, StartTime: time.Now()}
}

// Clone copies lc. A nil lc clones to nil.
func (lc *LogContext) Clone() *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	return &c
}

// WithRequest returns a copy with the request id set.
func (lc *LogContext) WithRequest(id uint32) *LogContext {
	c := lc.orNew()
	c.RequestID = id
	return c
}

// WithPath returns a copy with the path set.
func (lc *LogContext) WithPath(path string) *LogContext {
	c := lc.orNew()
	c.Path = path
	return c
}

// WithExtension returns a copy with the extension name set.
func (lc *LogContext) WithExtension(name string) *LogContext {
	c := lc.orNew()
	c.Extension = name
	return c
}

func (lc *LogContext) orNew() *LogContext {
	if lc == nil {
		return &LogContext{StartTime: time.Now()}
	}
	return lc.Clone()
}

// DurationMs returns the milliseconds since StartTime.
func (lc *LogContext) DurationMs() float64 {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return Duration(lc.StartTime)
}

// appendFields puts lc's non-empty fields in front of args.
func (lc *LogContext) appendFields(args []any) []any {
	if lc == nil {
		return args
	}
	out := make([]any, 0, 8+len(args))
	if lc.RequestID != 0 {
		out = append(out, KeyRequestID, lc.RequestID)
	}
	if lc.Operation != "" {
		out = append(out, KeyOperation, lc.Operation)
	}
	if lc.Path != "" {
		out = append(out, KeyPath, lc.Path)
	}
	if lc.Extension != "" {
		out = append(out, KeyExtension, lc.Extension)
	}
	return append(out, args...)
}
