//go:build windows

package store

// fsCapacity is not implemented on Windows; quota reports as zero.
func fsCapacity(path string) int64 {
	return 0
}
