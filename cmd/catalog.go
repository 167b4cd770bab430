package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"rainbow-recipes/core/storage"
	"rainbow-recipes/feature/catalog"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mergeSource int
	mergeTarget int
	yesConfirm  bool
)

// catalogCmd is the parent command for catalog maintenance.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Maintain the ingredient catalog",
}

// catalogMergeCmd merges a duplicate catalog item into its canonical item.
var catalogMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge a duplicate catalog item into another",
	Long: `Repoints every vendor listing and recipe that uses the source item to the
target item, then deletes the source item. All changes apply together or not at all.

Examples:
  # Merge item 12 into item 3 (with interactive confirmation)
  catalog merge --source 12 --target 3

  # Non-interactive
  catalog merge --source 12 --target 3 --yes`,
	RunE: runCatalogMerge,
}

func init() {
	catalogMergeCmd.Flags().IntVar(&mergeSource, "source", 0, "Id of the duplicate item to remove")
	catalogMergeCmd.Flags().IntVar(&mergeTarget, "target", 0, "Id of the item to keep")
	catalogMergeCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the merge (non-interactive)")
	_ = catalogMergeCmd.MarkFlagRequired("source")
	_ = catalogMergeCmd.MarkFlagRequired("target")

	catalogCmd.AddCommand(catalogMergeCmd)
	RootCmd.AddCommand(catalogCmd)
}

func runCatalogMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	rt, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer rt.close()

	var audit *catalog.AuditLog
	if rt.cfg.Storage.Enabled {
		client, err := storage.NewClient(rt.cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		audit = catalog.NewAuditLog(client, rt.cfg.Storage.Bucket, rt.log)
	}
	svc := catalog.NewService(rt.db, rt.log, audit)

	source, err := svc.Get(ctx, mergeSource)
	if err != nil {
		return err
	}
	target, err := svc.Get(ctx, mergeTarget)
	if err != nil {
		return err
	}
	rt.log.Info("Planned merge",
		zap.Int("source_id", source.ID),
		zap.String("source_name", source.Name),
		zap.Int("target_id", target.ID),
		zap.String("target_name", target.Name))

	if !confirmDestructiveAction(os.Stdin, os.Stdout) {
		rt.log.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	result, err := svc.MergeCatalogItems(ctx, mergeSource, mergeTarget)
	if err != nil {
		return fmt.Errorf("failed to merge catalog items: %w", err)
	}
	rt.log.Info("Merge complete",
		zap.Int64("listings_moved", result.ListingsMoved),
		zap.Ints("recipe_ids", result.RecipeIDs))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer) bool {
	if yesConfirm {
		fmt.Fprintln(out, "\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprint(out, "\n⚠️  Type 'yes' to confirm the merge: ")
	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
