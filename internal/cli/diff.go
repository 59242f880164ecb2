package cli

import (
	"fmt"
	"strings"

	"github.com/example/tokenvault/internal/diff"
	"github.com/example/tokenvault/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var diffCmd = &cobra.Command{
	Use:   "diff PROJECT_ID",
	Short: "Show changes between the current state and a historical point",
	Long: `Compare the project's current state against a snapshot or version.
Without --snapshot or --version, compares against the latest version.`,
	Args: cobra.ExactArgs(1),
	Run:  runDiff,
}

var (
	diffSnapshotID string
	diffVersionID  string
	diffDetailed   bool
	diffStat       bool
)

func init() {
	diffCmd.Flags().StringVar(&diffSnapshotID, "snapshot", "", "Snapshot ID to compare against")
	diffCmd.Flags().StringVar(&diffVersionID, "version", "", "Version ID to compare against")
	diffCmd.Flags().BoolVar(&diffDetailed, "detailed", false, "Show field-level changes")
	diffCmd.Flags().BoolVar(&diffStat, "stat", false, "Show the one-line summary only")
}

func runDiff(cmd *cobra.Command, args []string) {
	if diffSnapshotID != "" && diffVersionID != "" {
		exitError("specify at most one of --snapshot or --version")
	}

	c := initContext()
	defer c.Close()

	p, err := c.Service.GetProject(args[0])
	if err != nil {
		exitError("%v", err)
	}

	old, label := resolveDiffBase(c, p.ID)
	d := diff.Compute(old, p.State)

	if !d.HasChanges {
		fmt.Println("No changes")
		return
	}

	fmt.Printf("Changes since %s:\n", label)
	if diffStat {
		fmt.Printf("  %s\n", d.Summary())
		return
	}

	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)

	names := characterNames(old, p.State)
	for _, id := range d.Characters.Added {
		green.Printf("+++ %s\n", names[id])
	}
	for _, id := range d.Characters.Removed {
		red.Printf("--- %s\n", names[id])
	}
	for _, id := range d.Characters.Modified {
		yellow.Printf("~~~ %s\n", names[id])
	}
	if d.ScriptMeta.Changed {
		for _, fc := range d.ScriptMeta.Fields {
			yellow.Printf("~~~ script %s: %q -> %q\n", fc.Field, fc.Old, fc.New)
		}
	}
	for _, key := range d.Options.ChangedKeys {
		yellow.Printf("~~~ option %s\n", key)
	}
	for _, id := range d.Icons.Added {
		green.Printf("+++ icon %s\n", names[id])
	}
	for _, id := range d.Icons.Removed {
		red.Printf("--- icon %s\n", names[id])
	}
	if len(d.Filters.Changed) > 0 {
		yellow.Printf("~~~ filters: %s\n", strings.Join(d.Filters.Changed, ", "))
	}

	if diffDetailed {
		fmt.Println()
		displayDetailed(diff.ComputeDetailed(old, p.State), names, green, red, yellow)
	}
}

// resolveDiffBase loads the comparison base state and a display label.
func resolveDiffBase(c *cmdContext, projectID string) (*models.State, string) {
	switch {
	case diffSnapshotID != "":
		snap, err := c.Service.Store().GetSnapshot(diffSnapshotID)
		if err != nil {
			exitError("%v", err)
		}
		return snap.State, fmt.Sprintf("snapshot %s", shortID(snap.ID))
	case diffVersionID != "":
		v, err := c.Service.Store().GetVersion(diffVersionID)
		if err != nil {
			exitError("%v", err)
		}
		return v.State, fmt.Sprintf("version %s", v.Version)
	default:
		v, err := c.Service.Versions().Latest(projectID)
		if err != nil {
			exitError("%v", err)
		}
		if v == nil {
			exitError("project has no versions; use --snapshot or --version")
		}
		return v.State, fmt.Sprintf("version %s", v.Version)
	}
}

// characterNames maps character ids to display names, preferring the new
// side for renamed characters.
func characterNames(oldState, newState *models.State) map[string]string {
	names := make(map[string]string)
	if oldState != nil {
		for _, ch := range oldState.Characters {
			names[ch.ID] = ch.Name
		}
	}
	if newState != nil {
		for _, ch := range newState.Characters {
			names[ch.ID] = ch.Name
		}
	}
	for id, name := range names {
		if name == "" {
			names[id] = id
		}
	}
	return names
}

func displayDetailed(dd *diff.DetailedDiff, names map[string]string, green, red, yellow *color.Color) {
	for id, changes := range dd.Characters {
		yellow.Printf("%s:\n", names[id])
		for _, fc := range changes {
			fmt.Printf("  %s:\n", fc.Field)
			switch {
			case len(fc.Text) > 0:
				fmt.Print("    ")
				for i, seg := range fc.Text {
					if i > 0 {
						fmt.Print(" ")
					}
					switch seg.Op {
					case diff.OpInsert:
						green.Printf("%s", seg.Text)
					case diff.OpDelete:
						red.Printf("%s", seg.Text)
					default:
						fmt.Print(seg.Text)
					}
				}
				fmt.Println()
			case len(fc.Seq) > 0:
				for _, edit := range fc.Seq {
					for _, item := range edit.Items {
						switch edit.Op {
						case diff.OpInsert:
							green.Printf("    + %s\n", item)
						case diff.OpDelete:
							red.Printf("    - %s\n", item)
						default:
							fmt.Printf("      %s\n", item)
						}
					}
				}
			default:
				red.Printf("    - %s\n", fc.Old)
				green.Printf("    + %s\n", fc.New)
			}
		}
	}
	for _, fc := range dd.ScriptMeta {
		yellow.Printf("script %s:\n", fc.Field)
		red.Printf("    - %s\n", fc.Old)
		green.Printf("    + %s\n", fc.New)
	}
}
