package attrs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFromNil(t *testing.T) {
	a := From(nil)
	assert.Equal(t, Flag(0), a.Flags)
}

func TestFromPresenceSetsFlags(t *testing.T) {
	tests := []struct {
		name string
		src  StatSource
		want Flag
	}{
		{"Empty", StatSource{}, 0},
		{"ZeroSizeStillPresent", StatSource{Size: ptr(uint64(0))}, FlagSize},
		{"UIDOnly", StatSource{UID: ptr(int32(5))}, FlagUIDGID},
		{"GIDOnly", StatSource{GID: ptr(int32(5))}, FlagUIDGID},
		{"Mode", StatSource{Mode: ptr(uint32(0))}, FlagPermissions},
		{"MtimeOnly", StatSource{Mtime: ptr(time.Unix(10, 0))}, FlagACModTime},
		{"Metadata", StatSource{Metadata: metadata.New()}, FlagExtended},
		{"NlinkHasNoFlag", StatSource{Nlink: ptr(uint32(3))}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, From(&tt.src).Flags)
		})
	}
}

func TestFromFillsAbsentPairMembers(t *testing.T) {
	a := From(&StatSource{UID: ptr(int32(42)), Mtime: ptr(time.Unix(99, 0))})
	assert.Equal(t, int32(42), a.UID)
	assert.Equal(t, int32(0), a.GID)
	assert.Equal(t, int64(0), a.Atime.Unix())
	assert.Equal(t, int64(99), a.Mtime.Unix())
}

func TestFromCopiesNlink(t *testing.T) {
	a := From(&StatSource{Nlink: ptr(uint32(3))})
	assert.Equal(t, uint32(3), a.Nlink)
}

func TestLstatHost(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, []byte("hello"), 0o640))
	link := filepath.Join(dir, "l")
	require.NoError(t, os.Symlink(file, link))

	a, err := Lstat(file)
	require.NoError(t, err)
	assert.True(t, a.Has(FlagSize|FlagPermissions|FlagACModTime))
	assert.Equal(t, uint64(5), a.Size)
	assert.True(t, a.IsFile())

	d, err := Lstat(dir)
	require.NoError(t, err)
	assert.True(t, d.IsDirectory())

	l, err := Lstat(link)
	require.NoError(t, err)
	assert.True(t, l.IsSymbolicLink())

	_, err = Lstat(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromFileInfo(t *testing.T) {
	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, []byte("abc"), 0o600))
	fi, err := os.Stat(file)
	require.NoError(t, err)

	a := FromFileInfo(fi)
	assert.Equal(t, uint64(3), a.Size)
	assert.Equal(t, uint32(0o600), a.Mode&0o777)
	assert.True(t, a.IsFile())
	assert.Equal(t, fi.ModTime().Unix(), a.Mtime.Unix())
}
