package cli

import (
	"fmt"

	"github.com/example/tokenvault/internal/config"
	"github.com/example/tokenvault/internal/project"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the tokenvault directory",
	Long:  `Create the vault directory, configuration file, and databases.`,
	Run:   runInit,
}

func runInit(cmd *cobra.Command, args []string) {
	cfg, err := config.Initialize()
	if err != nil {
		exitError("%v", err)
	}

	// Open once so the schema and blob buckets exist up front.
	svc, err := project.Open(cfg)
	if err != nil {
		exitError("failed to initialize vault storage: %v", err)
	}
	svc.Close()

	fmt.Printf("Initialized empty vault in %s\n", cfg.VaultPath())
}
