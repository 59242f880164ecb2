package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/store"
	"github.com/spf13/cobra"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Prune old snapshots and sweep orphaned blobs",
	Args:  cobra.NoArgs,
	Run:   runGC,
}

func runGC(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	projects, err := c.Service.ListProjects(store.ListOptions{})
	if err != nil {
		exitError("%v", err)
	}

	pruned := 0
	for _, p := range projects {
		n, err := c.Service.Store().PruneSnapshots(p.ID, c.Config.SnapshotKeep)
		if err != nil {
			exitError("failed to prune snapshots for %s: %v", shortID(p.ID), err)
		}
		pruned += n
	}

	swept, err := c.Service.SweepBlobs()
	if err != nil {
		exitError("failed to sweep blobs: %v", err)
	}

	fmt.Printf("Pruned %d snapshot%s, swept %d blob%s\n",
		pruned, plural(pruned), swept, plural(swept))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
