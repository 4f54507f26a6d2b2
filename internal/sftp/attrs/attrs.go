// Package attrs implements the SFTP ATTRS record: a flags word followed by
// the fields the flags select.
//
//	uint32 flags
//	uint64 size            if SIZE
//	int32  uid, int32 gid  if UIDGID
//	uint32 permissions     if PERMISSIONS
//	uint32 atime, mtime    if ACMODTIME
//	uint32 count           if EXTENDED
//	  string name, string data  (count times)
//
// Of the extended pairs only meta@sftp.ws is kept; it is decoded into a
// metadata.Metadata. Every other pair is read and dropped, so re-encoding a
// decoded record only reproduces the metadata extension.
package attrs

import (
	"io/fs"
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
)

// Flag is the ATTRS flags bitmask.
type Flag uint32

const (
	FlagSize        Flag = 0x00000001
	FlagUIDGID      Flag = 0x00000002
	FlagPermissions Flag = 0x00000004
	FlagACModTime   Flag = 0x00000008
	FlagExtended    Flag = 0x80000000
)

// File type bits of Mode.
const (
	ModeTypeMask uint32 = 0o170000
	ModeDir      uint32 = 0o040000
	ModeRegular  uint32 = 0o100000
	ModeSymlink  uint32 = 0o120000
)

// Attributes is one file's attributes as carried on the wire.
//
// Flags is the only source of truth for which fields are defined; a field
// whose bit is clear holds a meaningless value.
type Attributes struct {
	Flags Flag

	Size uint64
	UID  int32
	GID  int32
	Mode uint32

	// Atime and Mtime travel as whole unix seconds.
	Atime time.Time
	Mtime time.Time

	// Metadata is present when it was decoded from, or will be encoded as,
	// the meta@sftp.ws extension. On encode FlagExtended means "write
	// Metadata".
	Metadata *metadata.Metadata

	// Nlink is filled from host stat data for local use. It has no flag bit
	// and is never written to the wire.
	Nlink uint32
}

// New returns Attributes with no fields defined.
func New() *Attributes {
	return &Attributes{}
}

// Has reports whether every bit of f is set.
func (a *Attributes) Has(f Flag) bool {
	return a.Flags&f == f
}

// SetSize defines the size field.
func (a *Attributes) SetSize(size uint64) {
	a.Size = size
	a.Flags |= FlagSize
}

// SetOwner defines the uid/gid pair.
func (a *Attributes) SetOwner(uid, gid int32) {
	a.UID, a.GID = uid, gid
	a.Flags |= FlagUIDGID
}

// SetMode defines the permissions field.
func (a *Attributes) SetMode(mode uint32) {
	a.Mode = mode
	a.Flags |= FlagPermissions
}

// SetTimes defines the atime/mtime pair.
func (a *Attributes) SetTimes(atime, mtime time.Time) {
	a.Atime, a.Mtime = atime, mtime
	a.Flags |= FlagACModTime
}

// SetMetadata attaches m and marks it for encoding. A nil m clears both.
func (a *Attributes) SetMetadata(m *metadata.Metadata) {
	a.Metadata = m
	if m == nil {
		a.Flags &^= FlagExtended
		return
	}
	a.Flags |= FlagExtended
}

// IsDirectory reports whether Mode describes a directory.
func (a *Attributes) IsDirectory() bool {
	return a.Mode&ModeTypeMask == ModeDir
}

// IsFile reports whether Mode describes a regular file.
func (a *Attributes) IsFile() bool {
	return a.Mode&ModeTypeMask == ModeRegular
}

// IsSymbolicLink reports whether Mode describes a symbolic link.
func (a *Attributes) IsSymbolicLink() bool {
	return a.Mode&ModeTypeMask == ModeSymlink
}

// FileMode converts Mode into an fs.FileMode.
func (a *Attributes) FileMode() fs.FileMode {
	m := fs.FileMode(a.Mode & 0o777)
	switch a.Mode & ModeTypeMask {
	case ModeDir:
		m |= fs.ModeDir
	case ModeSymlink:
		m |= fs.ModeSymlink
	case 0o010000:
		m |= fs.ModeNamedPipe
	case 0o140000:
		m |= fs.ModeSocket
	case 0o020000:
		m |= fs.ModeDevice | fs.ModeCharDevice
	case 0o060000:
		m |= fs.ModeDevice
	}
	if a.Mode&0o4000 != 0 {
		m |= fs.ModeSetuid
	}
	if a.Mode&0o2000 != 0 {
		m |= fs.ModeSetgid
	}
	if a.Mode&0o1000 != 0 {
		m |= fs.ModeSticky
	}
	return m
}

// unixMode converts an fs.FileMode into POSIX mode bits.
func unixMode(m fs.FileMode) uint32 {
	mode := uint32(m.Perm())
	switch {
	case m&fs.ModeDir != 0:
		mode |= ModeDir
	case m&fs.ModeSymlink != 0:
		mode |= ModeSymlink
	case m&fs.ModeNamedPipe != 0:
		mode |= 0o010000
	case m&fs.ModeSocket != 0:
		mode |= 0o140000
	case m&fs.ModeCharDevice != 0:
		mode |= 0o020000
	case m&fs.ModeDevice != 0:
		mode |= 0o060000
	default:
		mode |= ModeRegular
	}
	if m&fs.ModeSetuid != 0 {
		mode |= 0o4000
	}
	if m&fs.ModeSetgid != 0 {
		mode |= 0o2000
	}
	if m&fs.ModeSticky != 0 {
		mode |= 0o1000
	}
	return mode
}
