package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/tokenvault/internal/models"
	"github.com/spf13/cobra"
)

var assetCmd = &cobra.Command{
	Use:   "asset",
	Short: "Manage project assets (icons and uploads)",
}

var assetAddCmd = &cobra.Command{
	Use:   "add PROJECT_ID FILE",
	Short: "Attach a file to a project",
	Args:  cobra.ExactArgs(2),
	Run:   runAssetAdd,
}

var assetListCmd = &cobra.Command{
	Use:   "list PROJECT_ID",
	Short: "List a project's assets",
	Args:  cobra.ExactArgs(1),
	Run:   runAssetList,
}

var assetGetCmd = &cobra.Command{
	Use:   "get ASSET_ID FILE",
	Short: "Write an asset's payload to a file",
	Args:  cobra.ExactArgs(2),
	Run:   runAssetGet,
}

var assetDeleteCmd = &cobra.Command{
	Use:   "delete ASSET_ID",
	Short: "Delete an asset",
	Args:  cobra.ExactArgs(1),
	Run:   runAssetDelete,
}

var (
	assetAddKind   string
	assetListKind  string
	assetCharacter string
	assetMime      string
)

func init() {
	assetAddCmd.Flags().StringVar(&assetAddKind, "kind", string(models.AssetUpload), "Asset kind (icon or upload)")
	assetAddCmd.Flags().StringVar(&assetCharacter, "character", "", "Character ID this asset belongs to")
	assetAddCmd.Flags().StringVar(&assetMime, "mime", "application/octet-stream", "MIME type of the payload")
	assetListCmd.Flags().StringVar(&assetListKind, "kind", "", "Filter by asset kind")

	assetCmd.AddCommand(assetAddCmd)
	assetCmd.AddCommand(assetListCmd)
	assetCmd.AddCommand(assetGetCmd)
	assetCmd.AddCommand(assetDeleteCmd)
}

func runAssetAdd(cmd *cobra.Command, args []string) {
	kind := models.AssetKind(assetAddKind)
	if kind != models.AssetIcon && kind != models.AssetUpload {
		exitError("unknown asset kind %q (use icon or upload)", assetAddKind)
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		exitError("failed to read %s: %v", args[1], err)
	}

	c := initContext()
	defer c.Close()

	a, err := c.Service.AddAsset(args[0], kind, assetCharacter,
		filepath.Base(args[1]), assetMime, data)
	if err != nil {
		exitError("failed to add asset: %v", err)
	}
	fmt.Printf("Added %s asset %s (%s)\n", a.Kind, a.Name, shortID(a.ID))
}

func runAssetList(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	assets, err := c.Service.ListAssets(args[0], models.AssetKind(assetListKind))
	if err != nil {
		exitError("failed to list assets: %v", err)
	}

	if len(assets) == 0 {
		fmt.Println("No assets")
		return
	}
	for _, a := range assets {
		fmt.Printf("%s  %-6s  %9s  %s\n",
			shortID(a.ID), a.Kind, formatBytes(a.SizeBytes), a.Name)
	}
}

func runAssetGet(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	data, err := c.Service.AssetData(args[0])
	if err != nil {
		exitError("%v", err)
	}
	if err := os.WriteFile(args[1], data, 0600); err != nil {
		exitError("failed to write %s: %v", args[1], err)
	}
	fmt.Printf("Wrote %s (%s)\n", args[1], formatBytes(int64(len(data))))
}

func runAssetDelete(cmd *cobra.Command, args []string) {
	c := initContext()
	defer c.Close()

	if err := c.Service.DeleteAsset(args[0]); err != nil {
		exitError("failed to delete asset: %v", err)
	}
	fmt.Printf("Deleted asset %s\n", shortID(args[0]))
}
