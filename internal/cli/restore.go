package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/diff"
	"github.com/example/tokenvault/internal/models"
	"github.com/spf13/cobra"
)

var restoreCmd = &cobra.Command{
	Use:   "restore PROJECT_ID",
	Short: "Restore a project from a snapshot or version",
	Long: `Overwrite the project's current state with a historical snapshot or
version. A diff summary is shown and confirmed before anything is
written; the snapshot or version itself is untouched.`,
	Args: cobra.ExactArgs(1),
	Run:  runRestore,
}

var (
	restoreSnapshotID string
	restoreVersionID  string
	restoreForce      bool
)

func init() {
	restoreCmd.Flags().StringVar(&restoreSnapshotID, "snapshot", "", "Snapshot ID to restore from")
	restoreCmd.Flags().StringVar(&restoreVersionID, "version", "", "Version ID to restore from")
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "Skip the confirmation prompt")
}

func runRestore(cmd *cobra.Command, args []string) {
	if (restoreSnapshotID == "") == (restoreVersionID == "") {
		exitError("specify exactly one of --snapshot or --version")
	}

	c := initContext()
	defer c.Close()

	projectID := args[0]
	p, err := c.Service.GetProject(projectID)
	if err != nil {
		exitError("%v", err)
	}

	var target *models.State
	if restoreSnapshotID != "" {
		snap, err := c.Service.Store().GetSnapshot(restoreSnapshotID)
		if err != nil {
			exitError("%v", err)
		}
		target = snap.State
	} else {
		v, err := c.Service.Store().GetVersion(restoreVersionID)
		if err != nil {
			exitError("%v", err)
		}
		target = v.State
	}

	d := diff.Compute(p.State, target)
	fmt.Printf("Restoring would change: %s\n", d.Summary())

	if !restoreForce && !confirm("Overwrite the current state?") {
		fmt.Println("Aborted")
		return
	}

	if restoreSnapshotID != "" {
		_, err = c.Service.RestoreFromSnapshot(projectID, restoreSnapshotID)
	} else {
		_, err = c.Service.RestoreFromVersion(projectID, restoreVersionID)
	}
	if err != nil {
		exitError("failed to restore: %v", err)
	}
	fmt.Printf("Restored project %s\n", p.Name)
}
