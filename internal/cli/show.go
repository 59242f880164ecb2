package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show PROJECT_ID",
	Short: "Show project details",
	Args:  cobra.ExactArgs(1),
	Run:   runShow,
}

func runShow(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	p, err := c.Service.GetProject(args[0])
	if err != nil {
		exitError("%v", err)
	}

	fmt.Printf("Project:     %s\n", p.Name)
	fmt.Printf("ID:          %s\n", p.ID)
	if p.Description != "" {
		fmt.Printf("Description: %s\n", p.Description)
	}
	if len(p.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Printf("Characters:  %d\n", p.Stats.Characters)
	fmt.Printf("Tokens:      %d\n", p.Stats.Tokens)
	fmt.Printf("Icons:       %d\n", p.Stats.Icons)
	fmt.Printf("Created:     %s\n", p.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated:     %s\n", p.UpdatedAt.Local().Format("2006-01-02 15:04:05"))

	snapCount, err := c.Service.Store().CountSnapshots(p.ID)
	if err == nil {
		fmt.Printf("Snapshots:   %d\n", snapCount)
	}
	verCount, err := c.Service.Store().CountVersions(p.ID)
	if err == nil {
		fmt.Printf("Versions:    %d\n", verCount)
	}
	if p.Notes != "" {
		fmt.Printf("\n%s\n", p.Notes)
	}
}
