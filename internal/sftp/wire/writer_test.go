package wire

import (
	"bytes"
	"testing"
)

func TestNewWriter(t *testing.T) {
	w := NewWriter(64)
	if w.Len() != 0 {
		t.Errorf("expected length 0, got %d", w.Len())
	}
	if w.Err() != nil {
		t.Errorf("expected no error, got %v", w.Err())
	}
}

func TestWriterIntegersAreBigEndian(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint8(0x7F)
	w.WriteUint16(0x0102)
	w.WriteUint32(0x01020304)
	w.WriteUint64(0x0102030405060708)
	w.WriteInt32(-2)
	w.WriteInt64(-1)
	w.WriteBool(true)
	w.WriteBool(false)

	want := []byte{
		0x7F,
		0x01, 0x02,
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0xFF, 0xFF, 0xFF, 0xFE,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0x01,
		0x00,
	}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", w.Bytes(), want)
	}
}

func TestWriterStringsAndData(t *testing.T) {
	w := NewWriter(16)
	w.WriteString("abc")
	w.WriteData([]byte{0xAA})
	w.WriteString("")
	w.WriteBytes([]byte{0x01, 0x02})

	want := []byte{0, 0, 0, 3, 'a', 'b', 'c', 0, 0, 0, 1, 0xAA, 0, 0, 0, 0, 0x01, 0x02}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", w.Bytes(), want)
	}
}

func TestWriterWriteBlockBackpatchesLength(t *testing.T) {
	w := NewWriter(0)
	w.WriteUint8(0xEE)
	w.WriteBlock(func(b *Writer) {
		b.WriteString("hi")
		b.WriteUint16(7)
	})
	w.WriteUint8(0xFF)

	want := []byte{0xEE, 0, 0, 0, 8, 0, 0, 0, 2, 'h', 'i', 0, 7, 0xFF}
	if !bytes.Equal(w.Bytes(), want) {
		t.Errorf("got  %x\nwant %x", w.Bytes(), want)
	}
}

func TestWriterNestedBlocks(t *testing.T) {
	w := NewWriter(0)
	w.WriteBlock(func(outer *Writer) {
		outer.WriteBlock(func(inner *Writer) {
			inner.WriteUint8(1)
		})
	})

	r := NewReader(w.Bytes())
	outer := r.ReadBlock()
	inner := outer.ReadBlock()
	if v := inner.ReadUint8(); v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if r.Remaining() != 0 || outer.Remaining() != 0 {
		t.Error("expected all blocks consumed")
	}
}

func TestNewWriterBufferReusesStorage(t *testing.T) {
	buf := make([]byte, 32)
	buf[0] = 0xAB
	w := NewWriterBuffer(buf)
	if w.Len() != 0 {
		t.Fatalf("expected empty writer, got %d bytes", w.Len())
	}
	w.WriteUint32(1)
	if &w.Bytes()[0] != &buf[0] {
		t.Error("expected writer to append into the supplied buffer")
	}
}
