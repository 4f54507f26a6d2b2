package status

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"testing"

	"github.com/marmos91/sftpbridge/internal/sftp/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLayout(t *testing.T) {
	w := wire.NewWriter(32)
	Write(w, NoSuchFile, "gone")
	require.NoError(t, w.Err())

	want := []byte{
		0, 0, 0, 2,
		0, 0, 0, 4, 'g', 'o', 'n', 'e',
		0, 0, 0, 0,
	}
	assert.Equal(t, want, w.Bytes())
}

func TestWriteOK(t *testing.T) {
	w := wire.NewWriter(16)
	WriteOK(w)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 2, 'O', 'K', 0, 0, 0, 0}, w.Bytes())
}

func TestReadRoundTrip(t *testing.T) {
	w := wire.NewWriter(32)
	Write(w, PermissionDenied, "nope")

	s, err := Read(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, &Status{Code: PermissionDenied, Message: "nope"}, s)
}

func TestReadWithoutLanguageTag(t *testing.T) {
	t.Run("CodeAndMessage", func(t *testing.T) {
		data := []byte{0, 0, 0, 1, 0, 0, 0, 3, 'e', 'o', 'f'}
		s, err := Read(wire.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, EOF, s.Code)
		assert.Equal(t, "eof", s.Message)
		assert.Empty(t, s.Language)
	})

	t.Run("CodeOnly", func(t *testing.T) {
		s, err := Read(wire.NewReader([]byte{0, 0, 0, 4}))
		require.NoError(t, err)
		assert.Equal(t, Failure, s.Code)
		assert.Empty(t, s.Message)
	})

	t.Run("Truncated", func(t *testing.T) {
		_, err := Read(wire.NewReader([]byte{0, 0}))
		assert.ErrorIs(t, err, wire.ErrShortRead)
	})
}

func TestCodeNames(t *testing.T) {
	assert.Equal(t, "SSH_FX_OK", OK.String())
	assert.Equal(t, "OK", OK.Message())
	assert.Equal(t, "SSH_FX_NO_MATCHING_BYTE_RANGE_LOCK", NoMatchingByteRangeLock.String())
	assert.Equal(t, "SSH_FX_UNKNOWN(99)", Code(99).String())
	assert.Equal(t, "Unknown error", Code(99).Message())
	assert.False(t, Code(99).Known())

	for c := OK; c <= NoMatchingByteRangeLock; c++ {
		assert.True(t, c.Known(), "code %d", c)
	}
}

func TestErrorIs(t *testing.T) {
	tests := []struct {
		code   Code
		target error
	}{
		{NoSuchFile, fs.ErrNotExist},
		{NoSuchPath, fs.ErrNotExist},
		{PermissionDenied, fs.ErrPermission},
		{FileAlreadyExists, fs.ErrExist},
		{EOF, io.EOF},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := fmt.Errorf("stat: %w", &Error{Code: tt.code})
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, &Error{Code: tt.code})
		})
	}

	assert.NotErrorIs(t, &Error{Code: Failure}, fs.ErrNotExist)
}

func TestFromError(t *testing.T) {
	assert.Equal(t, OK, FromError(nil))
	assert.Equal(t, EOF, FromError(io.EOF))
	assert.Equal(t, NoSuchFile, FromError(fmt.Errorf("open: %w", fs.ErrNotExist)))
	assert.Equal(t, PermissionDenied, FromError(fs.ErrPermission))
	assert.Equal(t, LockConflict, FromError(&Error{Code: LockConflict}))
	assert.Equal(t, Failure, FromError(errors.New("boom")))
}

func TestWriteError(t *testing.T) {
	w := wire.NewWriter(32)
	WriteError(w, fs.ErrNotExist)

	s, err := Read(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, NoSuchFile, s.Code)
	assert.Equal(t, fs.ErrNotExist.Error(), s.Message)

	w = wire.NewWriter(16)
	WriteError(w, nil)
	s, err = Read(wire.NewReader(w.Bytes()))
	require.NoError(t, err)
	assert.Nil(t, s.Err())
}
