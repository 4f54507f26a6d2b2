package wire

import (
	"errors"
	"testing"
)

func TestNewReader(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04})
	if r.Position() != 0 {
		t.Errorf("expected position 0, got %d", r.Position())
	}
	if r.Remaining() != 4 || r.Len() != 4 {
		t.Errorf("expected remaining 4 and len 4, got %d and %d", r.Remaining(), r.Len())
	}
	if r.Err() != nil {
		t.Errorf("expected no error, got %v", r.Err())
	}
}

func TestReaderIntegersAreBigEndian(t *testing.T) {
	data := []byte{
		0x7F,
		0x01, 0x02,
		0x01, 0x02, 0x03, 0x04,
		0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08,
		0xFF, 0xFF, 0xFF, 0xFE,
	}
	r := NewReader(data)
	if v := r.ReadUint8(); v != 0x7F {
		t.Errorf("ReadUint8: got 0x%02X", v)
	}
	if v := r.ReadUint16(); v != 0x0102 {
		t.Errorf("ReadUint16: got 0x%04X", v)
	}
	if v := r.ReadUint32(); v != 0x01020304 {
		t.Errorf("ReadUint32: got 0x%08X", v)
	}
	if v := r.ReadUint64(); v != 0x0102030405060708 {
		t.Errorf("ReadUint64: got 0x%016X", v)
	}
	if v := r.ReadInt32(); v != -2 {
		t.Errorf("ReadInt32: got %d", v)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	if r.Remaining() != 0 {
		t.Errorf("expected remaining 0, got %d", r.Remaining())
	}
}

func TestReaderReadString(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 3, 'a', 'b', 'c', 0, 0, 0, 0})
	if s := r.ReadString(); s != "abc" {
		t.Errorf("expected %q, got %q", "abc", s)
	}
	if s := r.ReadString(); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestReaderReadDataCopies(t *testing.T) {
	data := []byte{0, 0, 0, 2, 0xAA, 0xBB}
	r := NewReader(data)
	b := r.ReadData()
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
	data[4] = 0x00
	if b[0] != 0xAA || b[1] != 0xBB {
		t.Errorf("ReadData aliased the input buffer: %v", b)
	}
}

func TestReaderSkipString(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 2, 'h', 'i', 0x09})
	r.SkipString()
	if v := r.ReadUint8(); v != 0x09 {
		t.Errorf("expected 0x09 after skip, got 0x%02X", v)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestReaderStringLengthBeyondData(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 9, 'x'})
	s := r.ReadString()
	if !errors.Is(r.Err(), ErrShortRead) {
		t.Fatalf("expected ErrShortRead, got %v", r.Err())
	}
	if s != "" {
		t.Errorf("expected empty string on error, got %q", s)
	}
}

func TestReaderErrorAccumulation(t *testing.T) {
	r := NewReader([]byte{0x01})

	if v := r.ReadUint16(); v != 0 {
		t.Errorf("expected 0, got %d", v)
	}
	first := r.Err()
	if first == nil {
		t.Fatal("expected error")
	}

	if v := r.ReadUint8(); v != 0 {
		t.Errorf("expected no-op read after error, got %d", v)
	}
	if r.ReadString() != "" || r.ReadData() != nil {
		t.Error("expected zero values after error")
	}
	r.Skip(1)
	r.SkipString()

	if r.Err() != first {
		t.Errorf("error changed after accumulation: %v", r.Err())
	}
}

func TestReaderReadBlock(t *testing.T) {
	data := []byte{
		0, 0, 0, 6, // block length
		0, 0, 0, 2, 'o', 'k',
		0xCA, 0xFE, // trailing field outside the block
	}
	r := NewReader(data)
	sub := r.ReadBlock()
	if sub.Len() != 6 {
		t.Fatalf("expected sub-block length 6, got %d", sub.Len())
	}
	if s := sub.ReadString(); s != "ok" {
		t.Errorf("expected %q, got %q", "ok", s)
	}
	if sub.Remaining() != 0 {
		t.Errorf("expected sub-block exhausted, got %d remaining", sub.Remaining())
	}

	// A read past the block end fails without touching the parent's bytes.
	sub.ReadUint16()
	if sub.Err() == nil {
		t.Fatal("expected over-read of sub-block to fail")
	}
	if r.Err() == nil {
		t.Fatal("expected sub-block error to propagate to parent")
	}
}

func TestReaderReadBlockParentAdvances(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 1, 0x11, 0x22})
	_ = r.ReadBlock()
	if v := r.ReadUint8(); v != 0x22 {
		t.Errorf("expected parent positioned after block, got 0x%02X", v)
	}
	if r.Err() != nil {
		t.Fatalf("unexpected error: %v", r.Err())
	}
}

func TestReaderReadBlockShort(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 8, 0x01})
	sub := r.ReadBlock()
	if sub.Err() == nil || r.Err() == nil {
		t.Fatal("expected short block to fail on both readers")
	}
	if sub.Remaining() != 0 {
		t.Errorf("expected empty sub-reader, got %d bytes", sub.Remaining())
	}
}

func TestReaderNegativeLengths(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	if b := r.ReadBytes(-1); b != nil {
		t.Errorf("expected nil, got %v", b)
	}
	if r.Err() == nil {
		t.Fatal("expected error for negative length")
	}

	r = NewReader([]byte{1, 2, 3})
	r.Skip(-1)
	if r.Err() == nil {
		t.Fatal("expected error for negative skip")
	}
}
