package store

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Quota reports local storage consumption for the vault directory.
// Capacity introspection is best-effort: platforms or filesystems that
// cannot report it yield zeros rather than an error.
type Quota struct {
	UsageBytes int64   `json:"usage_bytes"`
	QuotaBytes int64   `json:"quota_bytes"`
	Percent    float64 `json:"percent"`
}

// StorageQuota computes usage by walking the vault directory and asks the
// filesystem for capacity. Never fails: unreadable entries are skipped
// and missing capacity information reports as zero.
func StorageQuota(vaultDir string) Quota {
	var usage int64
	_ = filepath.WalkDir(vaultDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err == nil {
			usage += info.Size()
		}
		return nil
	})

	q := Quota{UsageBytes: usage}
	if _, err := os.Stat(vaultDir); err != nil {
		return q
	}
	q.QuotaBytes = fsCapacity(vaultDir)
	if q.QuotaBytes > 0 {
		q.Percent = float64(q.UsageBytes) / float64(q.QuotaBytes) * 100
	}
	return q
}
