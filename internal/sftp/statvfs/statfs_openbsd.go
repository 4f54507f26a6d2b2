package statvfs

import "golang.org/x/sys/unix"

// FromStatfs converts a host statfs result. OpenBSD has no numeric
// filesystem type, so FSType is zero.
func FromStatfs(st *unix.Statfs_t) *VfsStats {
	avail := st.F_bavail
	if avail < 0 {
		avail = 0
	}
	return &VfsStats{
		BlockSize:   uint64(st.F_bsize),
		Blocks:      st.F_blocks,
		BlocksFree:  st.F_bfree,
		BlocksAvail: uint64(avail),
		Files:       st.F_files,
		FilesFree:   st.F_ffree,
	}
}
