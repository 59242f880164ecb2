package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var duplicateCmd = &cobra.Command{
	Use:   "duplicate PROJECT_ID",
	Short: "Duplicate a project",
	Long:  `Create a new project whose state is a deep copy of the source's current state.`,
	Args:  cobra.ExactArgs(1),
	Run:   runDuplicate,
}

func runDuplicate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	dup, err := c.Service.DuplicateProject(args[0])
	if err != nil {
		exitError("failed to duplicate project: %v", err)
	}
	fmt.Printf("Created %s (%s)\n", dup.Name, shortID(dup.ID))
}
