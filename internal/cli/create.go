package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/models"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a new project",
	Args:  cobra.ExactArgs(1),
	Run:   runCreate,
}

var (
	createDescription string
	createScriptFile  string
)

func init() {
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Project description")
	createCmd.Flags().StringVar(&createScriptFile, "state", "", "JSON file with the initial project state")
}

func runCreate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var state *models.State
	if createScriptFile != "" {
		var err error
		state, err = readStateFile(createScriptFile)
		if err != nil {
			exitError("%v", err)
		}
	}

	p, err := c.Service.CreateProject(args[0], createDescription, state)
	if err != nil {
		exitError("failed to create project: %v", err)
	}
	fmt.Printf("Created project %s (%s)\n", p.Name, shortID(p.ID))
}
