package catalog

import (
	"context"
	"time"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/reconcile"
	"rainbow-recipes/feature/catalog/models"
	"rainbow-recipes/feature/recipes"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MergeResult summarizes a committed merge.
type MergeResult struct {
	SourceID      int    `json:"sourceId"`
	SourceName    string `json:"sourceName"`
	TargetID      int    `json:"targetId"`
	TargetName    string `json:"targetName"`
	ListingsMoved int64  `json:"listingsMoved"`
	RecipeIDs     []int  `json:"recipeIds"`
}

type actorKey struct{}

// WithActor records the user performing catalog changes on ctx.
func WithActor(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) int {
	id, _ := ctx.Value(actorKey{}).(int)
	return id
}

// MergeCatalogItems folds source into target: every vendor listing and recipe
// that referenced source references target afterwards and source is deleted.
// All changes commit together or not at all. Recipe ingredient quantities are
// left as stored.
func (s *Service) MergeCatalogItems(ctx context.Context, sourceID, targetID int) (*MergeResult, error) {
	if sourceID <= 0 || targetID <= 0 {
		return nil, apperr.Validation("catalog item ids must be positive integers")
	}
	if sourceID == targetID {
		return nil, apperr.Validation("cannot merge a catalog item into itself")
	}

	result := &MergeResult{SourceID: sourceID, TargetID: targetID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		source, err := getItem(tx, sourceID)
		if err != nil {
			return err
		}
		target, err := getItem(tx, targetID)
		if err != nil {
			return err
		}
		result.SourceName = source.Name
		result.TargetName = target.Name

		res := tx.Model(&models.VendorListing{}).
			Where("catalog_item_id = ?", sourceID).
			Update("catalog_item_id", targetID)
		if res.Error != nil {
			return apperr.Storage("repoint vendor listings", res.Error)
		}
		result.ListingsMoved = res.RowsAffected

		recipeIDs, err := recipes.RecipesUsing(tx, sourceID)
		if err != nil {
			return apperr.Storage("find affected recipes", err)
		}
		for _, recipeID := range recipeIDs {
			current, err := recipes.IngredientIDs(tx, recipeID)
			if err != nil {
				return apperr.Storage("read recipe ingredients", err)
			}
			next := reconcile.Substitute(current, sourceID, targetID)
			if err := recipes.SetIngredients(tx, recipeID, next); err != nil {
				return apperr.Storage("rewire recipe ingredients", err)
			}
		}
		result.RecipeIDs = append([]int{}, recipeIDs...)

		if err := tx.Delete(&models.CatalogItem{}, sourceID).Error; err != nil {
			return apperr.Storage("delete merged catalog item", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Storage("merge catalog items", err)
	}

	s.logger.Info("Merged catalog items",
		zap.Int("source_id", sourceID),
		zap.Int("target_id", targetID),
		zap.Int64("listings_moved", result.ListingsMoved),
		zap.Ints("recipe_ids", result.RecipeIDs))

	record := MergeRecord{
		MergeResult: *result,
		MergedBy:    actorFrom(ctx),
		MergedAt:    time.Now().UTC(),
	}
	if err := s.audit.Record(ctx, &record); err != nil {
		s.logger.Warn("Failed to write merge audit record",
			zap.Int("source_id", sourceID),
			zap.Int("target_id", targetID),
			zap.Error(err))
	}
	return result, nil
}
