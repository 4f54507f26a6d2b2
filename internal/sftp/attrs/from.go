package attrs

import (
	"io/fs"
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
)

// StatSource is a stat result whose fields are each independently optional.
// A non-nil field sets the matching flag bit in From, whatever its value.
type StatSource struct {
	Size     *uint64
	UID      *int32
	GID      *int32
	Mode     *uint32
	Atime    *time.Time
	Mtime    *time.Time
	Nlink    *uint32
	Metadata *metadata.Metadata
}

// From builds Attributes from s. Flags follow field presence:
//
//   - Size present sets FlagSize
//   - UID or GID present sets FlagUIDGID; the absent one is 0
//   - Mode present sets FlagPermissions
//   - Atime or Mtime present sets FlagACModTime; the absent one is the epoch
//   - Metadata present sets FlagExtended
//
// Nlink is copied without a flag. A nil s yields Attributes with no flags.
func From(s *StatSource) *Attributes {
	a := New()
	if s == nil {
		return a
	}

	if s.Size != nil {
		a.SetSize(*s.Size)
	}
	if s.UID != nil || s.GID != nil {
		a.SetOwner(deref(s.UID), deref(s.GID))
	}
	if s.Mode != nil {
		a.SetMode(*s.Mode)
	}
	if s.Atime != nil || s.Mtime != nil {
		a.SetTimes(timeOrEpoch(s.Atime), timeOrEpoch(s.Mtime))
	}
	if s.Metadata != nil {
		a.SetMetadata(s.Metadata)
	}
	if s.Nlink != nil {
		a.Nlink = *s.Nlink
	}
	return a
}

// FromFileInfo builds Attributes from an fs.FileInfo. Size, permissions and
// mtime are always present; atime mirrors mtime since fs.FileInfo does not
// carry it. Platform data from Sys() is used when it is available.
func FromFileInfo(fi fs.FileInfo) *Attributes {
	if s := statSourceFromSys(fi); s != nil {
		return From(s)
	}
	size := uint64(fi.Size())
	mode := unixMode(fi.Mode())
	mtime := fi.ModTime()
	return From(&StatSource{
		Size:  &size,
		Mode:  &mode,
		Atime: &mtime,
		Mtime: &mtime,
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func timeOrEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0)
	}
	return *t
}
