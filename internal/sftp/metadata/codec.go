package metadata

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// Wire tags for metadata values.
const (
	TagNull   uint8 = 0
	TagBool   uint8 = 1
	TagInt64  uint8 = 2
	TagString uint8 = 3
	TagJSON   uint8 = 4
)

// ErrInvalidJSON is returned when a tag-4 entry does not hold valid JSON text.
var ErrInvalidJSON = errors.New("metadata: invalid json value")

// Encode writes every entry of m in insertion order. A nil m writes nothing.
//
// Null values are written as a bare tag with no payload.
func Encode(w *wire.Writer, m *Metadata) {
	m.Range(func(key string, v Value) bool {
		w.WriteString(key)
		switch v.Kind() {
		case KindNull:
			w.WriteUint8(TagNull)
		case KindBool:
			b, _ := v.Bool()
			w.WriteUint8(TagBool)
			w.WriteBool(b)
		case KindInt64:
			n, _ := v.Int64()
			w.WriteUint8(TagInt64)
			w.WriteInt64(n)
		case KindString:
			s, _ := v.Str()
			w.WriteUint8(TagString)
			w.WriteString(s)
		default:
			text, _ := v.Text()
			w.WriteUint8(TagJSON)
			w.WriteString(text)
		}
		return true
	})
}

// DecodeStats reports what Decode skipped.
type DecodeStats struct {
	// UnknownTags counts entries whose tag was not recognised. Their payload
	// was skipped as one length-prefixed string and no value was stored.
	UnknownTags int
}

// Decode reads entries until r is exhausted or an empty key is read.
//
// A tag-0 entry stores Null and then skips one length-prefixed string, which
// Encode does not write. Encoded Null entries therefore do not survive a round
// trip; the next field on the wire is consumed as the skipped payload.
//
// Cursor errors are returned as-is.
func Decode(r *wire.Reader) (*Metadata, error) {
	m, _, err := DecodeWithStats(r)
	return m, err
}

// DecodeWithStats is Decode plus a count of skipped entries.
func DecodeWithStats(r *wire.Reader) (*Metadata, DecodeStats, error) {
	m := New()
	var stats DecodeStats

	for r.Err() == nil && r.Remaining() > 0 {
		key := r.ReadString()
		if r.Err() != nil {
			break
		}
		if key == "" {
			break
		}

		tag := r.ReadUint8()
		switch tag {
		case TagNull:
			r.SkipString()
			m.Set(key, Null())
		case TagBool:
			m.Set(key, Bool(r.ReadBool()))
		case TagInt64:
			m.Set(key, Int64(r.ReadInt64()))
		case TagString:
			m.Set(key, String(r.ReadString()))
		case TagJSON:
			text := r.ReadString()
			if r.Err() != nil {
				break
			}
			if !json.Valid([]byte(text)) {
				return nil, stats, fmt.Errorf("%w for key %q", ErrInvalidJSON, key)
			}
			m.Set(key, JSON(text))
		default:
			r.SkipString()
			stats.UnknownTags++
		}
	}

	if err := r.Err(); err != nil {
		return nil, stats, err
	}
	return m, stats, nil
}
