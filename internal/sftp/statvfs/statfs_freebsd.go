package statvfs

import "golang.org/x/sys/unix"

// FromStatfs converts a host statfs result. FreeBSD reports negative
// available counts when the reserve is in use; those become zero.
func FromStatfs(st *unix.Statfs_t) *VfsStats {
	return &VfsStats{
		BlockSize:   st.Bsize,
		Blocks:      st.Blocks,
		BlocksFree:  st.Bfree,
		BlocksAvail: nonNegative(st.Bavail),
		Files:       st.Files,
		FilesFree:   nonNegative(st.Ffree),
		FSType:      uint64(st.Type),
	}
}

func nonNegative(n int64) uint64 {
	if n < 0 {
		return 0
	}
	return uint64(n)
}
