package recipes

import (
	"fmt"

	"rainbow-recipes/feature/recipes/models"

	"gorm.io/gorm"
)

// IngredientIDs reads a recipe's ingredient association in models.IngredientOrder.
func IngredientIDs(tx *gorm.DB, recipeID int) ([]int, error) {
	var ids []int
	err := tx.Table("catalog_items").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.catalog_item_id = catalog_items.id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order(models.IngredientOrder).
		Pluck("catalog_items.id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredients of recipe %d: %w", recipeID, err)
	}
	return ids, nil
}

// RecipesUsing returns the ids of recipes whose ingredient set contains itemID.
func RecipesUsing(tx *gorm.DB, itemID int) ([]int, error) {
	var ids []int
	err := tx.Model(&models.RecipeIngredient{}).
		Where("catalog_item_id = ?", itemID).
		Order("recipe_id").
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes using catalog item %d: %w", itemID, err)
	}
	return ids, nil
}

// DisconnectIngredients removes the given catalog items from a recipe's association.
func DisconnectIngredients(tx *gorm.DB, recipeID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	err := tx.Where("recipe_id = ? AND catalog_item_id IN ?", recipeID, ids).
		Delete(&models.RecipeIngredient{}).Error
	if err != nil {
		return fmt.Errorf("failed to disconnect ingredients of recipe %d: %w", recipeID, err)
	}
	return nil
}

// ConnectIngredients adds the given catalog items to a recipe's association.
// ids must not be associated already.
func ConnectIngredients(tx *gorm.DB, recipeID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	rows := make([]models.RecipeIngredient, len(ids))
	for i, id := range ids {
		rows[i] = models.RecipeIngredient{RecipeID: recipeID, CatalogItemID: id}
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to connect ingredients of recipe %d: %w", recipeID, err)
	}
	return nil
}

// SetIngredients replaces a recipe's whole association with ids.
func SetIngredients(tx *gorm.DB, recipeID int, ids []int) error {
	err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear ingredients of recipe %d: %w", recipeID, err)
	}
	return ConnectIngredients(tx, recipeID, ids)
}
