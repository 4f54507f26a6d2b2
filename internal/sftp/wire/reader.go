package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrShortRead is returned when there are insufficient bytes to complete a read.
var ErrShortRead = errors.New("wire: short read")

// Reader provides sequential reading of big-endian encoded SFTP wire data
// with error accumulation. Once an error occurs, all subsequent reads become
// no-ops returning zero values.
//
// A Reader obtained from ReadBlock reports its errors to the Reader it was
// carved from as well, so checking the outermost Reader is enough.
type Reader struct {
	data   []byte
	pos    int
	err    error
	parent *Reader
}

// NewReader creates a new Reader wrapping the given byte slice with position at 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// fail records err unless an earlier error is already set.
func (r *Reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
	if r.parent != nil {
		r.parent.fail(err)
	}
}

// require checks that n bytes are available at the current position.
// Returns false and sets the error if insufficient data remains.
func (r *Reader) require(n uint64) bool {
	if r.err != nil {
		return false
	}
	if n > uint64(len(r.data)-r.pos) {
		r.fail(fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrShortRead, n, r.pos, len(r.data)-r.pos))
		return false
	}
	return true
}

// ReadUint8 reads a single byte and advances the position by 1.
func (r *Reader) ReadUint8() uint8 {
	if !r.require(1) {
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

// ReadBool reads a single byte; any nonzero value is true.
func (r *Reader) ReadBool() bool {
	return r.ReadUint8() != 0
}

// ReadUint16 reads a big-endian uint16 and advances the position by 2.
func (r *Reader) ReadUint16() uint16 {
	if !r.require(2) {
		return 0
	}
	v := binary.BigEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

// ReadUint32 reads a big-endian uint32 and advances the position by 4.
func (r *Reader) ReadUint32() uint32 {
	if !r.require(4) {
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

// ReadInt32 reads a big-endian two's complement int32.
func (r *Reader) ReadInt32() int32 {
	return int32(r.ReadUint32())
}

// ReadUint64 reads a big-endian uint64 and advances the position by 8.
func (r *Reader) ReadUint64() uint64 {
	if !r.require(8) {
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v
}

// ReadInt64 reads a big-endian two's complement int64.
func (r *Reader) ReadInt64() int64 {
	return int64(r.ReadUint64())
}

// ReadBytes reads n bytes and advances the position.
// The returned slice is a copy and does not alias the packet buffer.
func (r *Reader) ReadBytes(n int) []byte {
	if n < 0 {
		r.fail(fmt.Errorf("%w: negative length %d at offset %d", ErrShortRead, n, r.pos))
		return nil
	}
	if !r.require(uint64(n)) {
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+n])
	r.pos += n
	return b
}

// ReadData reads a uint32 length followed by that many opaque bytes.
func (r *Reader) ReadData() []byte {
	n := r.ReadUint32()
	if !r.require(uint64(n)) {
		return nil
	}
	b := make([]byte, n)
	copy(b, r.data[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return b
}

// ReadString reads a uint32 length-prefixed string.
func (r *Reader) ReadString() string {
	n := r.ReadUint32()
	if !r.require(uint64(n)) {
		return ""
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s
}

// SkipString advances past a uint32 length-prefixed field without copying it.
func (r *Reader) SkipString() {
	n := r.ReadUint32()
	if !r.require(uint64(n)) {
		return
	}
	r.pos += int(n)
}

// Skip advances the position by n bytes without reading.
func (r *Reader) Skip(n int) {
	if n < 0 {
		r.fail(fmt.Errorf("%w: negative skip %d at offset %d", ErrShortRead, n, r.pos))
		return
	}
	if !r.require(uint64(n)) {
		return
	}
	r.pos += n
}

// ReadBlock reads a uint32 length and returns a Reader bounded to the next
// length bytes. The parent advances past the whole block immediately.
//
// On error the returned Reader is empty and already carries the error, so
// reads from it are no-ops.
func (r *Reader) ReadBlock() *Reader {
	n := r.ReadUint32()
	if !r.require(uint64(n)) {
		return &Reader{err: r.err, parent: r}
	}
	sub := &Reader{
		data:   r.data[r.pos : r.pos+int(n)],
		parent: r,
	}
	r.pos += int(n)
	return sub
}

// Err returns the first error encountered, or nil.
func (r *Reader) Err() error {
	return r.err
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return max(len(r.data)-r.pos, 0)
}

// Position returns the current read position.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the total length of the underlying data.
func (r *Reader) Len() int {
	return len(r.data)
}
