//go:build linux || darwin || freebsd || openbsd

package statvfs

import "golang.org/x/sys/unix"

// Statfs queries the filesystem holding path.
func Statfs(path string) (*VfsStats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return nil, err
	}
	return FromStatfs(&st), nil
}
