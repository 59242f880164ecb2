package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete PROJECT_ID",
	Short: "Delete a project and all of its history",
	Long: `Delete a project together with every auto-save snapshot, version, and
asset that belongs to it. This cannot be undone.`,
	Args: cobra.ExactArgs(1),
	Run:  runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
}

func runDelete(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	p, err := c.Service.GetProject(args[0])
	if err != nil {
		exitError("%v", err)
	}

	if !deleteForce && !confirm(fmt.Sprintf("Delete project %q and all of its history?", p.Name)) {
		fmt.Println("Aborted")
		return
	}

	if err := c.Service.DeleteProject(p.ID); err != nil {
		exitError("failed to delete project: %v", err)
	}
	fmt.Printf("Deleted project %s (%s)\n", p.Name, shortID(p.ID))
}

// confirm asks a yes/no question on stdin.
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
