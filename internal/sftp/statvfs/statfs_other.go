//go:build !linux && !darwin && !freebsd && !openbsd

package statvfs

import "errors"

// ErrUnsupported is returned by Statfs on platforms without a host adapter.
var ErrUnsupported = errors.New("statvfs: not supported on this platform")

// Statfs queries the filesystem holding path.
func Statfs(path string) (*VfsStats, error) {
	return nil, ErrUnsupported
}
