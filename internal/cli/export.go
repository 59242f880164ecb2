package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export PROJECT_ID [FILE]",
	Short: "Export a project to a portable bundle file",
	Long: `Write the project, its versions, and its assets to a single JSON
bundle. Without FILE, the bundle lands in the vault's exports directory
named after the project ID.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runExport,
}

func runExport(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	projectID := args[0]
	path := ""
	if len(args) == 2 {
		path = args[1]
	} else {
		path = filepath.Join(c.Config.ExportsPath(), shortID(projectID)+".json")
	}

	if err := c.Service.ExportProject(projectID, path); err != nil {
		exitError("failed to export: %v", err)
	}
	fmt.Printf("Exported to %s\n", path)
}
