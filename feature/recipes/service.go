package recipes

import (
	"context"
	"fmt"
	"strings"

	"rainbow-recipes/core/apperr"
	catalog "rainbow-recipes/feature/catalog/models"
	"rainbow-recipes/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemResolver resolves ingredients against the catalog.
type ItemResolver interface {
	// FindOrCreate returns the item with the normalized name, creating it when absent.
	FindOrCreate(ctx context.Context, name string, category catalog.Category) (*catalog.CatalogItem, bool, error)
	// ExistingIDs returns the subset of ids that exist.
	ExistingIDs(ctx context.Context, ids []int) ([]int, error)
}

// Service handles recipe operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	items  ItemResolver
}

// NewService creates a new recipe service.
func NewService(db *gorm.DB, logger *zap.Logger, items ItemResolver) *Service {
	return &Service{
		db:     db,
		logger: logger,
		items:  items,
	}
}

// CreateInput holds the fields of a new recipe.
type CreateInput struct {
	Name        string
	Cost        float64
	PrepTime    int
	Description string
	Ingredients []IngredientRef
	Quantities  []string
	TagIDs      []int
}

// Create stores a recipe authored by authorID and reconciles its ingredients.
func (s *Service) Create(ctx context.Context, authorID int, in CreateInput) (*models.Recipe, error) {
	recipe := models.Recipe{
		Name:        strings.TrimSpace(in.Name),
		Cost:        in.Cost,
		PrepTime:    in.PrepTime,
		Description: in.Description,
		AuthorID:    authorID,

		IngredientQuantities: []string{},
	}
	if err := checkScalars(recipe.Name, recipe.Cost, recipe.PrepTime); err != nil {
		return nil, err
	}
	refs, err := checkRefs(in.Ingredients, in.Quantities)
	if err != nil {
		return nil, err
	}
	if err := s.checkIDsExist(ctx, refs); err != nil {
		return nil, err
	}
	if err := s.checkTagsExist(ctx, in.TagIDs); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit("Ingredients", "Tags").Create(&recipe).Error; err != nil {
		return nil, apperr.Storage("create recipe", err)
	}
	s.logger.Info("Created recipe",
		zap.Int("id", recipe.ID),
		zap.Int("author_id", authorID),
		zap.String("name", recipe.Name))

	if _, err := s.ReconcileRecipeIngredients(ctx, recipe.ID, in.Ingredients, in.Quantities); err != nil {
		return nil, err
	}
	if len(in.TagIDs) > 0 {
		if err := s.SetTags(ctx, recipe.ID, in.TagIDs); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, recipe.ID)
}

func checkScalars(name string, cost float64, prepTime int) error {
	if name == "" {
		return apperr.Validation("recipe name must not be blank")
	}
	if cost < 0 {
		return apperr.Validation("cost must not be negative")
	}
	if prepTime < 0 {
		return apperr.Validation("prep time must not be negative")
	}
	return nil
}

func (s *Service) query(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order(models.IngredientOrder)
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id")
		})
}

// Get returns a recipe with its ingredients in IngredientOrder and its tags.
func (s *Service) Get(ctx context.Context, id int) (*models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.query(ctx).Where("id = ?", id).Limit(1).Find(&recipes).Error; err != nil {
		return nil, apperr.Storage("load recipe", err)
	}
	if len(recipes) == 0 {
		return nil, apperr.NotFound("recipe", id)
	}
	return &recipes[0], nil
}

// ListFilter narrows List results. A recipe matches TagIDs when it carries all of them.
type ListFilter struct {
	TagIDs   []int
	AuthorID int
}

// List returns recipes ordered by id.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.Recipe, error) {
	q := s.query(ctx).Order("id")
	if filter.AuthorID > 0 {
		q = q.Where("author_id = ?", filter.AuthorID)
	}
	if len(filter.TagIDs) > 0 {
		tagged := s.db.Table("recipe_tags").
			Select("recipe_id").
			Where("tag_id IN ?", filter.TagIDs).
			Group("recipe_id").
			Having("COUNT(DISTINCT tag_id) = ?", len(filter.TagIDs))
		q = q.Where("id IN (?)", tagged)
	}

	var recipes []models.Recipe
	if err := q.Find(&recipes).Error; err != nil {
		return nil, apperr.Storage("list recipes", err)
	}
	return recipes, nil
}

// UpdateInput holds the editable fields of a recipe. Nil fields are left
// unchanged; Ingredients and Quantities are reconciled when Ingredients is non-nil.
type UpdateInput struct {
	Name        *string
	Cost        *float64
	PrepTime    *int
	Description *string
	Ingredients []IngredientRef
	Quantities  []string
}

// Update edits a recipe.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (*models.Recipe, error) {
	recipe, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		recipe.Name = strings.TrimSpace(*in.Name)
	}
	if in.Cost != nil {
		recipe.Cost = *in.Cost
	}
	if in.PrepTime != nil {
		recipe.PrepTime = *in.PrepTime
	}
	if in.Description != nil {
		recipe.Description = *in.Description
	}
	if err := checkScalars(recipe.Name, recipe.Cost, recipe.PrepTime); err != nil {
		return nil, err
	}
	if in.Ingredients != nil {
		refs, err := checkRefs(in.Ingredients, in.Quantities)
		if err != nil {
			return nil, err
		}
		if err := s.checkIDsExist(ctx, refs); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Model(recipe).
		Select("name", "cost", "prep_time", "description").
		Updates(recipe).Error
	if err != nil {
		return nil, apperr.Storage("update recipe", err)
	}
	s.logger.Info("Updated recipe", zap.Int("id", id))

	if in.Ingredients != nil {
		if _, err := s.ReconcileRecipeIngredients(ctx, id, in.Ingredients, in.Quantities); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Delete removes a recipe and its associations.
func (s *Service) Delete(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients: %w", err)
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete tags: %w", err)
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("recipe", id)
		}
		return nil
	})
	if err != nil {
		return apperr.Storage("delete recipe", err)
	}

	s.logger.Info("Deleted recipe", zap.Int("id", id))
	return nil
}
