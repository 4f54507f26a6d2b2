package attrs

import (
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/extension"
	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helper Functions
// ============================================================================

func encode(t *testing.T, a *Attributes) []byte {
	t.Helper()
	w := wire.NewWriter(64)
	a.Encode(w)
	require.NoError(t, w.Err())
	return w.Bytes()
}

func decode(t *testing.T, data []byte) *Attributes {
	t.Helper()
	r := wire.NewReader(data)
	a, err := Decode(r)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Remaining(), "record not fully consumed")
	return a
}

func fullAttrs() *Attributes {
	a := New()
	a.SetSize(1 << 33)
	a.SetOwner(1000, -2)
	a.SetMode(ModeRegular | 0o644)
	a.SetTimes(time.Unix(1700000000, 0), time.Unix(1700000500, 0))
	return a
}

// ============================================================================
// Wire layout
// ============================================================================

func TestEncodeEmpty(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0}, encode(t, New()))
}

func TestEncodeWireLayout(t *testing.T) {
	want := []byte{
		0, 0, 0, 0x0F, // flags
		0, 0, 0, 2, 0, 0, 0, 0, // size
		0, 0, 0x03, 0xE8, // uid 1000
		0xFF, 0xFF, 0xFF, 0xFE, // gid -2
		0, 0, 0x81, 0xA4, // mode 0100644
		0x65, 0x53, 0xF1, 0x00, // atime 1700000000
		0x65, 0x53, 0xF2, 0xF4, // mtime 1700000500
	}
	assert.Equal(t, want, encode(t, fullAttrs()))
}

func TestEncodeOnlySelectedFields(t *testing.T) {
	a := fullAttrs()
	a.Flags = FlagPermissions
	assert.Equal(t, []byte{0, 0, 0, 4, 0, 0, 0x81, 0xA4}, encode(t, a))
}

func TestEncodeNeverWritesNlink(t *testing.T) {
	a := New()
	a.Nlink = 7
	assert.Equal(t, []byte{0, 0, 0, 0}, encode(t, a))

	b := fullAttrs()
	b.Nlink = 7
	c := fullAttrs()
	assert.Equal(t, encode(t, c), encode(t, b))
}

// ============================================================================
// Round trips
// ============================================================================

func TestRoundTripEveryFlagSubset(t *testing.T) {
	base := fullAttrs()
	bits := []Flag{FlagSize, FlagUIDGID, FlagPermissions, FlagACModTime}

	for mask := 0; mask < 1<<len(bits); mask++ {
		var flags Flag
		for i, b := range bits {
			if mask&(1<<i) != 0 {
				flags |= b
			}
		}

		in := *base
		in.Flags = flags
		out := decode(t, encode(t, &in))

		assert.Equal(t, flags, out.Flags)
		if flags&FlagSize != 0 {
			assert.Equal(t, in.Size, out.Size)
		}
		if flags&FlagUIDGID != 0 {
			assert.Equal(t, in.UID, out.UID)
			assert.Equal(t, in.GID, out.GID)
		}
		if flags&FlagPermissions != 0 {
			assert.Equal(t, in.Mode, out.Mode)
		}
		if flags&FlagACModTime != 0 {
			assert.True(t, in.Atime.Equal(out.Atime))
			assert.True(t, in.Mtime.Equal(out.Mtime))
		}
	}
}

func TestRoundTripTruncatesTimesToSeconds(t *testing.T) {
	a := New()
	a.SetTimes(time.Unix(100, 999_000_000), time.Unix(200, 1_000_000))
	out := decode(t, encode(t, a))
	assert.Equal(t, int64(100), out.Atime.Unix())
	assert.Equal(t, int64(200), out.Mtime.Unix())
	assert.Equal(t, 0, out.Mtime.Nanosecond())
}

func TestRoundTripMetadata(t *testing.T) {
	m := metadata.New()
	m.Set("owner", metadata.String("alice"))
	m.Set("pinned", metadata.Bool(true))
	m.Set("rev", metadata.Int64(42))

	a := New()
	a.SetSize(10)
	a.SetMetadata(m)

	out := decode(t, encode(t, a))
	assert.Equal(t, FlagSize|FlagExtended, out.Flags)
	require.NotNil(t, out.Metadata)
	assert.True(t, m.Equal(out.Metadata))
}

func TestEncodeExtendedWithoutMetadataWritesZeroCount(t *testing.T) {
	a := New()
	a.Flags = FlagExtended
	assert.Equal(t, []byte{0x80, 0, 0, 0, 0, 0, 0, 0}, encode(t, a))

	out := decode(t, encode(t, a))
	assert.Equal(t, Flag(0), out.Flags)
	assert.Nil(t, out.Metadata)
}

func TestEncodeMetadataIgnoredWithoutExtendedFlag(t *testing.T) {
	a := New()
	a.Metadata = metadata.New()
	a.Metadata.Set("k", metadata.Int64(1))
	assert.Equal(t, []byte{0, 0, 0, 0}, encode(t, a))
}

// ============================================================================
// Extended pairs
// ============================================================================

func extendedRecord(pairs ...[2][]byte) []byte {
	w := wire.NewWriter(128)
	w.WriteUint32(uint32(FlagSize | FlagExtended))
	w.WriteUint64(5)
	w.WriteUint32(uint32(len(pairs)))
	for _, p := range pairs {
		w.WriteData(p[0])
		w.WriteData(p[1])
	}
	return w.Bytes()
}

func metaBlob(m *metadata.Metadata) []byte {
	w := wire.NewWriter(64)
	metadata.Encode(w, m)
	return w.Bytes()
}

func TestDecodeDropsForeignExtensions(t *testing.T) {
	data := extendedRecord(
		[2][]byte{[]byte("acl@example.com"), []byte("opaque-acl")},
		[2][]byte{[]byte("other"), nil},
	)
	r := wire.NewReader(data)
	a, info, err := DecodeWithOptions(r, DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Remaining())

	assert.Equal(t, FlagSize, a.Flags)
	assert.Equal(t, uint64(5), a.Size)
	assert.Nil(t, a.Metadata)
	assert.Equal(t, []string{"acl@example.com", "other"}, info.DroppedExtensions)

	// Re-encoding drops the foreign pairs entirely.
	assert.Equal(t, []byte{0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 5}, encode(t, a))
}

func TestDecodeMetadataAmongOtherExtensions(t *testing.T) {
	m := metadata.New()
	m.Set("x", metadata.JSON(`[1]`))

	data := extendedRecord(
		[2][]byte{[]byte("first@example.com"), []byte("abc")},
		[2][]byte{[]byte(extension.Meta), metaBlob(m)},
		[2][]byte{[]byte("last@example.com"), []byte("z")},
	)
	a := decode(t, data)
	assert.Equal(t, FlagSize|FlagExtended, a.Flags)
	require.NotNil(t, a.Metadata)
	assert.True(t, m.Equal(a.Metadata))
}

func TestDecodeSkipMetadataOption(t *testing.T) {
	m := metadata.New()
	m.Set("x", metadata.Int64(1))
	data := extendedRecord([2][]byte{[]byte(extension.Meta), metaBlob(m)})

	a, info, err := DecodeWithOptions(wire.NewReader(data), DecodeOptions{SkipMetadata: true})
	require.NoError(t, err)
	assert.Nil(t, a.Metadata)
	assert.Equal(t, FlagSize, a.Flags)
	assert.Equal(t, []string{extension.Meta}, info.DroppedExtensions)
}

func TestDecodeCountsUnknownMetadataTags(t *testing.T) {
	w := wire.NewWriter(32)
	w.WriteString("odd")
	w.WriteUint8(77)
	w.WriteString("payload")
	data := extendedRecord([2][]byte{[]byte(extension.Meta), w.Bytes()})

	a, info, err := DecodeWithOptions(wire.NewReader(data), DecodeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, info.UnknownMetadataTags)
	assert.Equal(t, 0, a.Metadata.Len())
}

func TestDecodeTruncatedPropagatesCursorError(t *testing.T) {
	full := encode(t, fullAttrs())
	for n := 0; n < len(full); n++ {
		_, err := Decode(wire.NewReader(full[:n]))
		require.Error(t, err, "prefix length %d", n)
		assert.True(t, errors.Is(err, wire.ErrShortRead))
	}
}

func TestDecodeTruncatedExtensionList(t *testing.T) {
	data := extendedRecord([2][]byte{[]byte("a"), []byte("b")})
	_, err := Decode(wire.NewReader(data[:len(data)-1]))
	require.Error(t, err)
}

// ============================================================================
// Classification
// ============================================================================

func TestTypeClassification(t *testing.T) {
	tests := []struct {
		mode                  uint32
		dir, regular, symlink bool
	}{
		{ModeDir | 0o755, true, false, false},
		{ModeRegular | 0o644, false, true, false},
		{ModeSymlink | 0o777, false, false, true},
		{0o010644, false, false, false},
		{0o644, false, false, false},
	}

	for _, tt := range tests {
		a := New()
		a.SetMode(tt.mode)
		assert.Equal(t, tt.dir, a.IsDirectory(), "mode %o", tt.mode)
		assert.Equal(t, tt.regular, a.IsFile(), "mode %o", tt.mode)
		assert.Equal(t, tt.symlink, a.IsSymbolicLink(), "mode %o", tt.mode)
	}
}

func TestFileModeConversion(t *testing.T) {
	a := New()
	a.SetMode(ModeDir | 0o1755)
	fm := a.FileMode()
	assert.True(t, fm.IsDir())
	assert.NotZero(t, fm&fs.ModeSticky)
	assert.Equal(t, fs.FileMode(0o755), fm.Perm())
	assert.Equal(t, ModeDir|0o1755, unixMode(fm))

	a.SetMode(ModeSymlink | 0o777)
	assert.Equal(t, ModeSymlink|0o777, unixMode(a.FileMode()))

	a.SetMode(ModeRegular | 0o4755)
	assert.Equal(t, ModeRegular|0o4755, unixMode(a.FileMode()))
}
