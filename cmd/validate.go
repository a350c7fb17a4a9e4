package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ikulkarni/portfolio/internal/content"
)

var validateAssets bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the content files and the assets they reference",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		lib, err := content.Open(cfg.ContentDir)
		if err != nil {
			return err
		}
		cat := lib.Catalog()
		fmt.Printf("%d business cases OK\n", cat.Len())

		if !validateAssets || cfg.PublicDir == "" {
			return nil
		}
		missing := missingAssets(cat, cfg.PublicDir)
		for _, ref := range missing {
			owner := "profile"
			if ref.CaseID != 0 {
				owner = fmt.Sprintf("case %d", ref.CaseID)
			}
			fmt.Fprintf(os.Stderr, "%s: %s %q missing: %s\n", owner, ref.Kind, ref.Name, ref.Path)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%d referenced assets are missing", len(missing))
		}
		fmt.Println("all referenced assets present")
		return nil
	},
}

// missingAssets returns the references with no file under publicDir.
func missingAssets(cat *content.Catalog, publicDir string) []content.AssetRef {
	var missing []content.AssetRef
	for _, ref := range content.AssetRefs(cat) {
		if _, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(ref.Path))); err != nil {
			missing = append(missing, ref)
		}
	}
	return missing
}

func init() {
	validateCmd.Flags().BoolVar(&validateAssets, "assets", true, "also check referenced code listings and images exist")
	rootCmd.AddCommand(validateCmd)
}
