package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer provides sequential writing of big-endian encoded SFTP wire data
// with append-based growth.
type Writer struct {
	buf []byte
	err error
}

// NewWriter creates a new Writer with the given initial capacity.
func NewWriter(capacity int) *Writer {
	return &Writer{
		buf: make([]byte, 0, capacity),
	}
}

// NewWriterBuffer creates a Writer that appends into buf[:0]. It is meant for
// pooled buffers: the Writer grows past cap(buf) by reallocating, so callers
// must use Bytes() rather than buf afterwards.
func NewWriterBuffer(buf []byte) *Writer {
	return &Writer{buf: buf[:0]}
}

// WriteUint8 appends a single byte.
func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, v)
}

// WriteBool appends 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// WriteUint16 appends a big-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint16(w.buf, v)
}

// WriteUint32 appends a big-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, v)
}

// WriteInt32 appends a big-endian two's complement int32.
func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteUint64 appends a big-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	w.buf = binary.BigEndian.AppendUint64(w.buf, v)
}

// WriteInt64 appends a big-endian two's complement int64.
func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteBytes appends raw bytes without a length prefix.
func (w *Writer) WriteBytes(data []byte) {
	if w.err != nil {
		return
	}
	w.buf = append(w.buf, data...)
}

// WriteData appends a uint32 length followed by data.
func (w *Writer) WriteData(data []byte) {
	if w.err != nil {
		return
	}
	if uint64(len(data)) > math.MaxUint32 {
		w.err = fmt.Errorf("wire: data of %d bytes exceeds uint32 length prefix", len(data))
		return
	}
	w.WriteUint32(uint32(len(data)))
	w.buf = append(w.buf, data...)
}

// WriteString appends a uint32 length-prefixed string.
func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if uint64(len(s)) > math.MaxUint32 {
		w.err = fmt.Errorf("wire: string of %d bytes exceeds uint32 length prefix", len(s))
		return
	}
	w.WriteUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteBlock writes a length-prefixed region whose contents are produced by
// fn. The length is back-patched once fn returns.
func (w *Writer) WriteBlock(fn func(*Writer)) {
	if w.err != nil {
		return
	}
	offset := len(w.buf)
	w.WriteUint32(0)
	fn(w)
	if w.err != nil {
		return
	}
	n := len(w.buf) - offset - 4
	if uint64(n) > math.MaxUint32 {
		w.err = fmt.Errorf("wire: block of %d bytes exceeds uint32 length prefix", n)
		return
	}
	binary.BigEndian.PutUint32(w.buf[offset:], uint32(n))
}

// Bytes returns the accumulated bytes.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the current length of the buffer.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Err returns the first error encountered, or nil.
func (w *Writer) Err() error {
	return w.err
}
