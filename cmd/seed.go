package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/feature/catalog"
	catalogmodels "rainbow-recipes/feature/catalog/models"
	"rainbow-recipes/feature/recipes"
	"rainbow-recipes/feature/recipes/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// seedFile is the YAML layout read by the seed command.
type seedFile struct {
	Catalog []seedItem `yaml:"catalog"`
	Tags    []seedTag  `yaml:"tags"`
}

type seedItem struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Approved bool   `yaml:"approved"`
}

type seedTag struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// seedCmd loads catalog items and tags from a YAML file.
var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load catalog items and tags from a YAML file",
	Long: `Loads catalog items and tags from a YAML file. Existing entries are kept,
so the command can be run repeatedly.

File layout:
  catalog:
    - name: Green Onion
      category: produce
      approved: true
  tags:
    - name: Vegan
      category: Diet`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, err := readSeed(args[0])
		if err != nil {
			return err
		}

		rt, err := bootstrap(configPath)
		if err != nil {
			return err
		}
		defer rt.close()

		items := catalog.NewService(rt.db, rt.log, nil)
		stats, err := applySeed(context.Background(), seed, items, recipes.NewService(rt.db, rt.log, items))
		if err != nil {
			return err
		}
		rt.log.Info("Seed applied",
			zap.Int("items_created", stats.itemsCreated),
			zap.Int("items_existing", stats.itemsExisting),
			zap.Int("tags_created", stats.tagsCreated),
			zap.Int("tags_existing", stats.tagsExisting))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
}

// readSeed parses and validates a seed file.
func readSeed(path string) (*seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	for i, item := range seed.Catalog {
		if catalogmodels.NormalizeName(item.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i+1)
		}
		if _, ok := catalogmodels.ParseCategory(item.Category); !ok {
			return nil, fmt.Errorf("catalog entry %q has unknown category %q", item.Name, item.Category)
		}
	}
	for _, tag := range seed.Tags {
		if !models.TagCategory(tag.Category).Valid() {
			return nil, fmt.Errorf("tag %q has unknown category %q", tag.Name, tag.Category)
		}
	}
	return &seed, nil
}

type seedStats struct {
	itemsCreated, itemsExisting int
	tagsCreated, tagsExisting   int
}

func applySeed(ctx context.Context, seed *seedFile, items *catalog.Service, rec *recipes.Service) (seedStats, error) {
	var stats seedStats

	for _, entry := range seed.Catalog {
		category, _ := catalogmodels.ParseCategory(entry.Category)
		item, created, err := items.FindOrCreate(ctx, entry.Name, category)
		if err != nil {
			return stats, err
		}
		if !created {
			stats.itemsExisting++
			continue
		}
		stats.itemsCreated++
		if entry.Approved {
			approved := true
			if _, err := items.Update(ctx, item.ID, catalog.UpdateInput{Approved: &approved}); err != nil {
				return stats, err
			}
		}
	}

	for _, entry := range seed.Tags {
		_, err := rec.CreateTag(ctx, entry.Name, models.TagCategory(entry.Category))
		var conflict *apperr.ConflictError
		switch {
		case errors.As(err, &conflict):
			stats.tagsExisting++
		case err != nil:
			return stats, err
		default:
			stats.tagsCreated++
		}
	}
	return stats, nil
}
