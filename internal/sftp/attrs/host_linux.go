//go:build linux

package attrs

import (
	"fmt"
	"io/fs"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// StatSourceFromUnix converts a host stat structure. Every field it carries
// is present, so From sets size, owner, permissions and times.
func StatSourceFromUnix(st *unix.Stat_t) *StatSource {
	size := uint64(st.Size)
	uid := int32(st.Uid)
	gid := int32(st.Gid)
	mode := st.Mode
	atime := time.Unix(st.Atim.Unix())
	mtime := time.Unix(st.Mtim.Unix())
	nlink := uint32(st.Nlink)
	return &StatSource{
		Size:  &size,
		UID:   &uid,
		GID:   &gid,
		Mode:  &mode,
		Atime: &atime,
		Mtime: &mtime,
		Nlink: &nlink,
	}
}

// Lstat stats path on the host without following a final symlink.
func Lstat(path string) (*Attributes, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return nil, fmt.Errorf("lstat %s: %w", path, err)
	}
	return From(StatSourceFromUnix(&st)), nil
}

func statSourceFromSys(fi fs.FileInfo) *StatSource {
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok || st == nil {
		return nil
	}
	return StatSourceFromUnix(&unix.Stat_t{
		Size:  st.Size,
		Uid:   st.Uid,
		Gid:   st.Gid,
		Mode:  st.Mode,
		Nlink: st.Nlink,
		Atim:  unix.Timespec(st.Atim),
		Mtim:  unix.Timespec(st.Mtim),
	})
}
