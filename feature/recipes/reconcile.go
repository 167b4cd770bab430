package recipes

import (
	"context"
	"errors"
	"strings"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/reconcile"
	catalog "rainbow-recipes/feature/catalog/models"
	"rainbow-recipes/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IngredientRef identifies an ingredient either by catalog id or by name.
// ID wins when both are set. Category applies only when the name creates a new item.
type IngredientRef struct {
	ID       *int   `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
}

// ReconcileResult is the association as persisted, with quantities aligned to it.
type ReconcileResult struct {
	IngredientIDs        []int    `json:"ingredientIds"`
	IngredientQuantities []string `json:"ingredientQuantities"`
}

// resolvedRef is an IngredientRef that passed validation.
type resolvedRef struct {
	id       int
	name     string
	category catalog.Category
}

// checkRefs validates the submission without touching the store.
func checkRefs(ingredients []IngredientRef, quantities []string) ([]resolvedRef, error) {
	if len(ingredients) == 0 {
		return nil, apperr.Validation("at least one ingredient is required")
	}
	if len(ingredients) != len(quantities) {
		return nil, apperr.Validation("got %d ingredients but %d quantities", len(ingredients), len(quantities))
	}

	refs := make([]resolvedRef, len(ingredients))
	for i, ref := range ingredients {
		if strings.TrimSpace(quantities[i]) == "" {
			return nil, apperr.Validation("quantity of ingredient %d must not be blank", i+1)
		}

		if ref.ID != nil {
			if *ref.ID <= 0 {
				return nil, apperr.Validation("ingredient %d has invalid id %d", i+1, *ref.ID)
			}
			refs[i] = resolvedRef{id: *ref.ID}
			continue
		}

		name := catalog.DisplayName(ref.Name)
		if name == "" {
			return nil, apperr.Validation("ingredient %d needs an id or a name", i+1)
		}
		category, ok := catalog.ParseCategory(ref.Category)
		if !ok {
			return nil, apperr.Validation("ingredient %d has unknown category %q", i+1, ref.Category)
		}
		refs[i] = resolvedRef{name: name, category: category}
	}
	return refs, nil
}

// checkIDsExist fails with NotFoundError for the first referenced id without a catalog row.
func (s *Service) checkIDsExist(ctx context.Context, refs []resolvedRef) error {
	var ids []int
	for _, ref := range refs {
		if ref.id != 0 {
			ids = append(ids, ref.id)
		}
	}
	ids = reconcile.Unique(ids)
	if len(ids) == 0 {
		return nil
	}

	found, err := s.items.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !reconcile.Contains(found, id) {
			return apperr.NotFound("catalog item", id)
		}
	}
	return nil
}

// ReconcileRecipeIngredients replaces the ingredient set of a recipe with the
// submitted ingredients and stores quantities aligned to the persisted order.
// Nothing is written unless the whole submission is valid. Entries given by
// name are found or created in the catalog; repeated entries collapse to the
// first occurrence.
func (s *Service) ReconcileRecipeIngredients(ctx context.Context, recipeID int, ingredients []IngredientRef, quantities []string) (*ReconcileResult, error) {
	refs, err := checkRefs(ingredients, quantities)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(s.db.WithContext(ctx), recipeID); err != nil {
		return nil, err
	}
	if err := s.checkIDsExist(ctx, refs); err != nil {
		return nil, err
	}

	resolved := make([]int, len(refs))
	for i, ref := range refs {
		if ref.id != 0 {
			resolved[i] = ref.id
			continue
		}
		item, _, err := s.items.FindOrCreate(ctx, ref.name, ref.category)
		if err != nil {
			return nil, err
		}
		resolved[i] = item.ID
	}
	target := reconcile.Unique(resolved)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := IngredientIDs(tx, recipeID)
		if err != nil {
			return err
		}
		if err := DisconnectIngredients(tx, recipeID, existing); err != nil {
			return err
		}
		return ConnectIngredients(tx, recipeID, target)
	})
	if err != nil {
		return nil, apperr.Storage("write recipe ingredients", err)
	}

	persisted, err := IngredientIDs(s.db.WithContext(ctx), recipeID)
	if err != nil {
		return nil, apperr.Storage("read recipe ingredients", err)
	}
	aligned := reconcile.Realign(resolved, quantities, persisted)

	err = s.db.WithContext(ctx).Model(&models.Recipe{ID: recipeID}).
		Select("ingredient_quantities").
		Updates(&models.Recipe{IngredientQuantities: aligned}).Error
	if err != nil {
		return nil, apperr.Storage("write ingredient quantities", err)
	}

	s.logger.Info("Reconciled recipe ingredients",
		zap.Int("recipe_id", recipeID),
		zap.Ints("ingredient_ids", persisted))

	return &ReconcileResult{IngredientIDs: persisted, IngredientQuantities: aligned}, nil
}

func (s *Service) load(tx *gorm.DB, recipeID int) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := tx.First(&recipe, recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("recipe", recipeID)
		}
		return nil, apperr.Storage("load recipe", err)
	}
	return &recipe, nil
}
