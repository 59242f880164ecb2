package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a project from a bundle file",
	Long: `Create a new project from an exported bundle. The imported project
gets fresh identifiers; version history and assets are carried over,
auto-save snapshots are not.`,
	Args: cobra.ExactArgs(1),
	Run:  runImport,
}

func runImport(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	p, err := c.Service.ImportProject(args[0])
	if err != nil {
		exitError("failed to import: %v", err)
	}
	fmt.Printf("Imported project %s (%s)\n", p.Name, shortID(p.ID))
}
