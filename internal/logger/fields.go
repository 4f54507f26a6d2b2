package logger

import (
	"fmt"
	"log/slog"
)

// Field keys shared by every log statement.
const (
	KeyRequestID = "request_id" // SFTP request id
	KeyOperation = "operation"  // Codec or CLI operation name
	KeyRecord    = "record"     // Record kind: attrs, status, statvfs, version, extension
	KeyPacket    = "packet"     // SFTP packet type name

	KeyPath      = "path"
	KeyExtension = "extension" // Extension name, e.g. statvfs@openssh.com
	KeyFlags     = "flags"     // ATTRS or open flags word, hex
	KeyMode      = "mode"      // POSIX mode, octal
	KeySize      = "size"
	KeyBytes     = "bytes" // Payload length

	KeyStatus    = "status" // SFTP status code name
	KeyStatusMsg = "status_msg"
	KeyCount     = "count"

	KeyCacheHit = "cache_hit"
	KeyBackend  = "backend"
	KeySession  = "session" // Replay session id

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyConfig     = "config"
)

// Operation returns an attr for an operation name.
func Operation(name string) slog.Attr { return slog.String(KeyOperation, name) }

// Record returns an attr for a record kind.
func Record(kind string) slog.Attr { return slog.String(KeyRecord, kind) }

// Path returns an attr for a path.
func Path(p string) slog.Attr { return slog.String(KeyPath, p) }

// Extension returns an attr for an extension name.
func Extension(name string) slog.Attr { return slog.String(KeyExtension, name) }

// Flags returns an attr rendering a flags word as 0x%08x.
func Flags(f uint32) slog.Attr { return slog.String(KeyFlags, fmt.Sprintf("0x%08x", f)) }

// Mode returns an attr rendering a mode as octal.
func Mode(m uint32) slog.Attr { return slog.String(KeyMode, fmt.Sprintf("0%o", m)) }

// Size returns an attr for a file size.
func Size(n uint64) slog.Attr { return slog.Uint64(KeySize, n) }

// Bytes returns an attr for a payload length.
func Bytes(n int) slog.Attr { return slog.Int(KeyBytes, n) }

// Status returns an attr for a status code name.
func Status(name string) slog.Attr { return slog.String(KeyStatus, name) }

// Count returns an attr for a count.
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }

// CacheHit returns an attr for a cache lookup result.
func CacheHit(hit bool) slog.Attr { return slog.Bool(KeyCacheHit, hit) }

// Backend returns an attr for a cache backend name.
func Backend(name string) slog.Attr { return slog.String(KeyBackend, name) }

// Session returns an attr for a replay session id.
func Session(id string) slog.Attr { return slog.String(KeySession, id) }

// DurationMs returns an attr for an elapsed time in milliseconds.
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns an attr for an error; nil errors yield an empty attr that
// handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
