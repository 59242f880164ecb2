//go:build unix

package store

import "golang.org/x/sys/unix"

// fsCapacity returns the total size of the filesystem holding path, or 0
// if it cannot be determined.
func fsCapacity(path string) int64 {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0
	}
	return int64(st.Blocks) * int64(st.Bsize)
}
