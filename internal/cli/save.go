package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var saveCmd = &cobra.Command{
	Use:   "save PROJECT_ID",
	Short: "Save the project state and write a snapshot",
	Long: `Perform an immediate save: persist the project record, append an
auto-save snapshot, and prune old snapshots. With --state, the given
JSON file replaces the working state first.`,
	Args: cobra.ExactArgs(1),
	Run:  runSave,
}

var saveStateFile string

func init() {
	saveCmd.Flags().StringVar(&saveStateFile, "state", "", "JSON file replacing the working state before saving")
}

func runSave(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	sess, err := c.Service.OpenSession(args[0])
	if err != nil {
		exitError("%v", err)
	}
	defer sess.Close()

	if saveStateFile != "" {
		st, err := readStateFile(saveStateFile)
		if err != nil {
			exitError("%v", err)
		}
		sess.SetState(st)
	}

	if err := sess.SaveNow(); err != nil {
		exitError("save failed: %v", err)
	}

	status := sess.Status()
	if status.LastSavedAt != nil {
		fmt.Printf("Saved at %s\n", status.LastSavedAt.Local().Format("15:04:05"))
	} else {
		fmt.Println("Saved")
	}
}
