package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots PROJECT_ID",
	Short: "List a project's auto-save snapshots",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshots,
}

func runSnapshots(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	snaps, err := c.Service.Store().ListSnapshots(args[0])
	if err != nil {
		exitError("failed to list snapshots: %v", err)
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots")
		return
	}
	for _, snap := range snaps {
		stats := snap.State.ComputeStats()
		fmt.Printf("%s  %s  %3d characters  %3d tokens\n",
			shortID(snap.ID),
			snap.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			stats.Characters, stats.Tokens)
	}
}
