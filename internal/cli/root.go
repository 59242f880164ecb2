// Package cli implements the command-line interface for tokenvault.
package cli

import (
	"fmt"
	"os"

	"github.com/example/tokenvault/internal/config"
	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/project"
	"github.com/spf13/cobra"
)

// cmdContext holds common resources for CLI commands.
type cmdContext struct {
	Config  *config.Config
	Service *project.Service
}

// Close releases resources held by cmdContext.
func (c *cmdContext) Close() {
	if c.Service != nil {
		c.Service.Close()
	}
}

// initContext loads config and opens the project service.
func initContext() *cmdContext {
	cfg, err := config.Load()
	if err != nil {
		exitError("%v", err)
	}

	svc, err := project.Open(cfg)
	if err != nil {
		exitError("failed to open vault: %v", err)
	}

	return &cmdContext{Config: cfg, Service: svc}
}

var rootCmd = &cobra.Command{
	Use:   "tokenvault",
	Short: "Local project vault for token scripts",
	Long: `tokenvault is a local-first project manager for tabletop token scripts.
It keeps debounced auto-save snapshots, manual semantic-versioned
checkpoints, and structural diffs between any two points of a project's
history, all in an embedded per-user database.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(duplicateCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(assetCmd)
	rootCmd.AddCommand(gcCmd)
}

// exitError prints an error and exits.
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

// shortID returns a shortened record ID for display.
func shortID(id string) string {
	return models.ShortID(id)
}
