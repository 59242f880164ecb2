package cli

import (
	"fmt"
	"strings"

	"github.com/example/tokenvault/internal/models"
	"github.com/example/tokenvault/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Manage project versions",
}

var versionCreateCmd = &cobra.Command{
	Use:   "create PROJECT_ID VERSION",
	Short: "Create a version from the project's current state",
	Args:  cobra.ExactArgs(2),
	Run:   runVersionCreate,
}

var versionListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List a project's versions",
	Args:  cobra.ExactArgs(1),
	Run:   runVersionList,
}

var versionDeleteCmd = &cobra.Command{
	Use:   "delete VERSION_ID",
	Short: "Delete a version",
	Args:  cobra.ExactArgs(1),
	Run:   runVersionDelete,
}

var versionSuggestCmd = &cobra.Command{
	Use:   "suggest PROJECT_ID [major|minor|patch]",
	Short: "Suggest the next version number",
	Args:  cobra.RangeArgs(1, 2),
	Run:   runVersionSuggest,
}

var (
	versionNotes  string
	versionTags   []string
	versionSemver bool
)

func init() {
	versionCreateCmd.Flags().StringVarP(&versionNotes, "notes", "m", "", "Release notes")
	versionCreateCmd.Flags().StringSliceVar(&versionTags, "tags", nil, "Version tags")
	versionListCmd.Flags().BoolVar(&versionSemver, "semver", false, "Order by semantic version instead of creation time")

	versionCmd.AddCommand(versionCreateCmd)
	versionCmd.AddCommand(versionListCmd)
	versionCmd.AddCommand(versionDeleteCmd)
	versionCmd.AddCommand(versionSuggestCmd)
}

func runVersionCreate(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	projectID, versionString := args[0], args[1]
	p, err := c.Service.GetProject(projectID)
	if err != nil {
		exitError("%v", err)
	}

	// Same triplet twice is allowed but worth a warning.
	if sv, err := version.Parse(versionString); err == nil {
		exists, err := c.Service.Versions().Exists(projectID, sv)
		if err == nil && exists {
			fmt.Printf("warning: version %s already exists for this project\n", sv)
		}
	}

	v, err := c.Service.Versions().Create(projectID, versionString, p.State, versionNotes, versionTags)
	if err != nil {
		exitError("failed to create version: %v", err)
	}
	fmt.Printf("Created version %s (%s)\n", v.Version, shortID(v.ID))
}

func runVersionList(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	var (
		versions []*models.Version
		err      error
	)
	if versionSemver {
		versions, err = c.Service.Versions().History(args[0])
	} else {
		versions, err = c.Service.Versions().List(args[0])
	}
	if err != nil {
		exitError("failed to list versions: %v", err)
	}

	if len(versions) == 0 {
		fmt.Println("No versions")
		return
	}
	for _, v := range versions {
		line := fmt.Sprintf("%s  %-10s  %s", shortID(v.ID), v.Version,
			v.CreatedAt.Local().Format("2006-01-02 15:04"))
		if v.Notes != "" {
			line += "  " + firstLine(v.Notes)
		}
		fmt.Println(line)
	}
}

func runVersionDelete(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Service.Versions().Delete(args[0]); err != nil {
		exitError("failed to delete version: %v", err)
	}
	fmt.Printf("Deleted version %s\n", shortID(args[0]))
}

func runVersionSuggest(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	inc := models.IncrementPatch
	if len(args) == 2 {
		switch args[1] {
		case "major":
			inc = models.IncrementMajor
		case "minor":
			inc = models.IncrementMinor
		case "patch":
			inc = models.IncrementPatch
		default:
			exitError("unknown increment %q (use major, minor, or patch)", args[1])
		}
	}

	next, err := c.Service.Versions().SuggestNext(args[0], inc)
	if err != nil {
		exitError("failed to suggest version: %v", err)
	}
	fmt.Println(next)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
