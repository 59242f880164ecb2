package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/project"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:   "update PROJECT_ID",
	Short: "Update project fields",
	Long: `Update top-level project fields. Supplied flags replace the stored
value wholesale; omitted flags leave the field untouched.`,
	Args: cobra.ExactArgs(1),
	Run:  runUpdate,
}

var (
	updateName        string
	updateDescription string
	updateNotes       string
	updateColor       string
	updateTags        []string
	updateStateFile   string
)

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "New project name")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	updateCmd.Flags().StringVar(&updateNotes, "notes", "", "New notes")
	updateCmd.Flags().StringVar(&updateColor, "color", "", "New display color")
	updateCmd.Flags().StringSliceVar(&updateTags, "tags", nil, "New tag list")
	updateCmd.Flags().StringVar(&updateStateFile, "state", "", "JSON file replacing the project state")
}

func runUpdate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var u project.Update
	if cmd.Flags().Changed("name") {
		u.Name = &updateName
	}
	if cmd.Flags().Changed("description") {
		u.Description = &updateDescription
	}
	if cmd.Flags().Changed("notes") {
		u.Notes = &updateNotes
	}
	if cmd.Flags().Changed("color") {
		u.Color = &updateColor
	}
	if cmd.Flags().Changed("tags") {
		u.Tags = &updateTags
	}
	if updateStateFile != "" {
		st, err := readStateFile(updateStateFile)
		if err != nil {
			exitError("%v", err)
		}
		u.State = st
	}

	p, err := c.Service.UpdateProject(args[0], u)
	if err != nil {
		exitError("failed to update project: %v", err)
	}
	fmt.Printf("Updated project %s (%s)\n", p.Name, shortID(p.ID))
}
