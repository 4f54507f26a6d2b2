// Package statvfs implements the reply payload of the statvfs@openssh.com
// and fstatvfs@openssh.com extensions: seven big-endian uint64 values in a
// fixed order with nothing optional.
package statvfs

import "github.com/marmos91/sftpbridge/internal/sftp/wire"

// Size is the encoded length of a VfsStats record.
const Size = 7 * 8

// VfsStats holds filesystem statistics.
type VfsStats struct {
	BlockSize   uint64 `json:"block_size" yaml:"block_size"`
	Blocks      uint64 `json:"blocks" yaml:"blocks"`
	BlocksFree  uint64 `json:"blocks_free" yaml:"blocks_free"`
	BlocksAvail uint64 `json:"blocks_avail" yaml:"blocks_avail"`
	Files       uint64 `json:"files" yaml:"files"`
	FilesFree   uint64 `json:"files_free" yaml:"files_free"`
	FSType      uint64 `json:"fs_type" yaml:"fs_type"`
}

// Decode reads a VfsStats record from r.
func Decode(r *wire.Reader) (*VfsStats, error) {
	s := &VfsStats{
		BlockSize:   r.ReadUint64(),
		Blocks:      r.ReadUint64(),
		BlocksFree:  r.ReadUint64(),
		BlocksAvail: r.ReadUint64(),
		Files:       r.ReadUint64(),
		FilesFree:   r.ReadUint64(),
		FSType:      r.ReadUint64(),
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode writes all seven fields.
func (s *VfsStats) Encode(w *wire.Writer) {
	w.WriteUint64(s.BlockSize)
	w.WriteUint64(s.Blocks)
	w.WriteUint64(s.BlocksFree)
	w.WriteUint64(s.BlocksAvail)
	w.WriteUint64(s.Files)
	w.WriteUint64(s.FilesFree)
	w.WriteUint64(s.FSType)
}

// TotalBytes is the filesystem capacity.
func (s *VfsStats) TotalBytes() uint64 { return s.Blocks * s.BlockSize }

// FreeBytes is the free space including blocks reserved for root.
func (s *VfsStats) FreeBytes() uint64 { return s.BlocksFree * s.BlockSize }

// AvailBytes is the free space available to unprivileged users.
func (s *VfsStats) AvailBytes() uint64 { return s.BlocksAvail * s.BlockSize }
