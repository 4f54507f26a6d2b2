//go:build !linux

package attrs

import (
	"io/fs"
	"os"
)

// Lstat stats path on the host without following a final symlink.
func Lstat(path string) (*Attributes, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return nil, err
	}
	return FromFileInfo(fi), nil
}

func statSourceFromSys(fs.FileInfo) *StatSource {
	return nil
}
