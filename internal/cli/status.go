package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault location, contents, and storage usage",
	Args:  cobra.NoArgs,
	Run:   runStatus,
}

func runStatus(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	schema, err := c.Service.Store().SchemaVersion()
	if err != nil {
		exitError("%v", err)
	}
	count, err := c.Service.Store().CountProjects()
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Vault:          %s\n", c.Config.VaultPath())
	fmt.Printf("Schema version: %d\n", schema)
	fmt.Printf("Projects:       %d\n", count)

	q := store.StorageQuota(c.Config.VaultPath())
	fmt.Printf("Storage used:   %s\n", formatBytes(q.UsageBytes))
	if q.QuotaBytes > 0 {
		fmt.Printf("Disk capacity:  %s (%.1f%% used)\n", formatBytes(q.QuotaBytes), q.Percent)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
