package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Run:   runList,
}

var (
	listSort   string
	listFilter string
	listLimit  int
	listOffset int
)

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "updated", "Sort order: updated, created, accessed, name")
	listCmd.Flags().StringVar(&listFilter, "filter", "", "Keep projects whose name contains this substring")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of projects to show (0 = all)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of projects to skip")
}

func runList(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	projects, err := c.Service.ListProjects(store.ListOptions{
		Sort:       listSort,
		NameFilter: listFilter,
		Limit:      listLimit,
		Offset:     listOffset,
	})
	if err != nil {
		exitError("failed to list projects: %v", err)
	}

	if len(projects) == 0 {
		fmt.Println("No projects")
		return
	}
	for _, p := range projects {
		fmt.Printf("%s  %-30s  %3d characters  %3d tokens  updated %s\n",
			shortID(p.ID), p.Name, p.Stats.Characters, p.Stats.Tokens,
			p.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
}
