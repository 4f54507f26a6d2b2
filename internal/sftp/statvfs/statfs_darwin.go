package statvfs

import "golang.org/x/sys/unix"

// FromStatfs converts a host statfs result.
func FromStatfs(st *unix.Statfs_t) *VfsStats {
	return &VfsStats{
		BlockSize:   uint64(st.Bsize),
		Blocks:      st.Blocks,
		BlocksFree:  st.Bfree,
		BlocksAvail: st.Bavail,
		Files:       st.Files,
		FilesFree:   st.Ffree,
		FSType:      uint64(st.Type),
	}
}
