package attrs

import (
	"time"

	"github.com/marmos91/sftpbridge/internal/sftp/extension"
	"github.com/marmos91/sftpbridge/internal/sftp/metadata"
	"github.com/marmos91/sftpbridge/internal/sftp/wire"
)

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// SkipMetadata treats meta@sftp.ws like any other extension and drops it.
	SkipMetadata bool
}

// DecodeInfo reports what a decode discarded.
type DecodeInfo struct {
	// DroppedExtensions lists the names of extended pairs that were skipped.
	DroppedExtensions []string

	// UnknownMetadataTags counts metadata entries with an unrecognised tag.
	UnknownMetadataTags int
}

// Decode reads an ATTRS record from r.
func Decode(r *wire.Reader) (*Attributes, error) {
	a, _, err := DecodeWithOptions(r, DecodeOptions{})
	return a, err
}

// DecodeWithOptions reads an ATTRS record from r.
//
// FlagExtended is cleared from the stored flags and set again only if a
// metadata extension was decoded, so in memory it always means "Metadata is
// present". Cursor errors are returned unmodified.
func DecodeWithOptions(r *wire.Reader, opts DecodeOptions) (*Attributes, DecodeInfo, error) {
	var info DecodeInfo
	a := &Attributes{Flags: Flag(r.ReadUint32())}

	if a.Flags&FlagSize != 0 {
		a.Size = r.ReadUint64()
	}
	if a.Flags&FlagUIDGID != 0 {
		a.UID = r.ReadInt32()
		a.GID = r.ReadInt32()
	}
	if a.Flags&FlagPermissions != 0 {
		a.Mode = r.ReadUint32()
	}
	if a.Flags&FlagACModTime != 0 {
		a.Atime = time.Unix(int64(r.ReadUint32()), 0)
		a.Mtime = time.Unix(int64(r.ReadUint32()), 0)
	}

	if a.Flags&FlagExtended != 0 {
		a.Flags &^= FlagExtended

		count := r.ReadUint32()
		for i := uint32(0); i < count && r.Err() == nil; i++ {
			name := r.ReadString()
			if name == extension.Meta && !opts.SkipMetadata {
				m, stats, err := metadata.DecodeWithStats(r.ReadBlock())
				if err != nil {
					return nil, info, err
				}
				info.UnknownMetadataTags += stats.UnknownTags
				a.Metadata = m
				a.Flags |= FlagExtended
				continue
			}
			r.SkipString()
			if r.Err() == nil {
				info.DroppedExtensions = append(info.DroppedExtensions, name)
			}
		}
	}

	if err := r.Err(); err != nil {
		return nil, info, err
	}
	return a, info, nil
}

// Encode writes the record. Exactly the fields selected by Flags are written;
// Nlink never is. With FlagExtended set the extension count is 1 followed by
// meta@sftp.ws when Metadata is non-nil, and 0 otherwise.
func (a *Attributes) Encode(w *wire.Writer) {
	w.WriteUint32(uint32(a.Flags))

	if a.Flags&FlagSize != 0 {
		w.WriteUint64(a.Size)
	}
	if a.Flags&FlagUIDGID != 0 {
		w.WriteInt32(a.UID)
		w.WriteInt32(a.GID)
	}
	if a.Flags&FlagPermissions != 0 {
		w.WriteUint32(a.Mode)
	}
	if a.Flags&FlagACModTime != 0 {
		w.WriteUint32(uint32(a.Atime.Unix()))
		w.WriteUint32(uint32(a.Mtime.Unix()))
	}

	if a.Flags&FlagExtended != 0 {
		if a.Metadata == nil {
			w.WriteUint32(0)
			return
		}
		w.WriteUint32(1)
		w.WriteString(extension.Meta)
		w.WriteBlock(func(b *wire.Writer) {
			metadata.Encode(b, a.Metadata)
		})
	}
}
