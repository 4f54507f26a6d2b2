package extension

import (
	"testing"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVersion(t *testing.T) {
	data := concat(
		u32(3),
		str(PosixRename), str("1"),
		str(Versions), str("3,4,5,6"),
		str(NewlineVandyke), block(str("\r\n")),
		str("x-custom@example.com"), str("\x00\x01"),
	)

	v, err := ReadVersion(wire.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, uint32(3), v.Version)
	require.Len(t, v.Extensions, 4)

	assert.True(t, v.Has(PosixRename))
	assert.False(t, v.Has(Hardlink))
	assert.Equal(t, []string{"3", "4", "5", "6"}, v.Versions())
	assert.True(t, v.SupportsVersion("6"))
	assert.False(t, v.SupportsVersion("7"))

	nl, ok := v.Lookup(NewlineVandyke)
	require.True(t, ok)
	assert.Equal(t, LineEnding("\r\n"), nl)

	custom, _ := v.Lookup("x-custom@example.com")
	assert.Equal(t, Opaque{0x00, 0x01}, custom)
}

func TestReadVersionNoExtensions(t *testing.T) {
	v, err := ReadVersion(wire.NewReader(u32(3)))
	require.NoError(t, err)
	assert.Empty(t, v.Extensions)
	assert.Nil(t, v.Versions())
}

func TestReadVersionTruncated(t *testing.T) {
	data := concat(u32(3), str(PosixRename))
	_, err := ReadVersion(wire.NewReader(data))
	assert.Error(t, err)
}

func TestWriteVersionRoundTrip(t *testing.T) {
	in := &Version{
		Version: 3,
		Extensions: []Pair{
			{Name: StatVFS, Payload: Text("2")},
			{Name: VendorID, Payload: &VendorInfo{VendorName: "acme", ProductBuild: 1}},
		},
	}
	w := wire.NewWriter(64)
	WriteVersion(w, in)

	out, err := ReadVersion(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
