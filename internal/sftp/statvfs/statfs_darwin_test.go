package statvfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestFromStatfs(t *testing.T) {
	st := &unix.Statfs_t{Bsize: 4096, Blocks: 10, Bfree: 4, Bavail: 3, Files: 100, Ffree: 50, Type: 0x1a}
	assert.Equal(t, &VfsStats{
		BlockSize:   4096,
		Blocks:      10,
		BlocksFree:  4,
		BlocksAvail: 3,
		Files:       100,
		FilesFree:   50,
		FSType:      0x1a,
	}, FromStatfs(st))
}
