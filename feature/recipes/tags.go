package recipes

import (
	"context"
	"errors"
	"strings"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/reconcile"
	"rainbow-recipes/feature/recipes/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListTags returns every tag, optionally restricted to one category.
func (s *Service) ListTags(ctx context.Context, category models.TagCategory) ([]models.Tag, error) {
	q := s.db.WithContext(ctx).Order("category").Order("name")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var tags []models.Tag
	if err := q.Find(&tags).Error; err != nil {
		return nil, apperr.Storage("list tags", err)
	}
	return tags, nil
}

// CreateTag adds a tag.
func (s *Service) CreateTag(ctx context.Context, name string, category models.TagCategory) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Validation("tag name must not be blank")
	}
	if !category.Valid() {
		return nil, apperr.Validation("unknown tag category %q", category)
	}

	tag := models.Tag{Name: name, Category: category}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("tag %q already exists", name)
		}
		return nil, apperr.Storage("create tag", err)
	}

	s.logger.Info("Created tag", zap.Int("id", tag.ID), zap.String("name", tag.Name))
	return &tag, nil
}

func (s *Service) checkTagsExist(ctx context.Context, ids []int) error {
	ids = reconcile.Unique(ids)
	if len(ids) == 0 {
		return nil
	}
	var found []int
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return apperr.Storage("check tags", err)
	}
	for _, id := range ids {
		if id <= 0 || !reconcile.Contains(found, id) {
			return apperr.NotFound("tag", id)
		}
	}
	return nil
}

// SetTags replaces the tags of a recipe. An empty list clears them.
func (s *Service) SetTags(ctx context.Context, recipeID int, tagIDs []int) error {
	recipe, err := s.load(s.db.WithContext(ctx), recipeID)
	if err != nil {
		return err
	}
	if err := s.checkTagsExist(ctx, tagIDs); err != nil {
		return err
	}

	tags := make([]models.Tag, 0, len(tagIDs))
	for _, id := range reconcile.Unique(tagIDs) {
		tags = append(tags, models.Tag{ID: id})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Model(recipe).Omit("Tags.*").Association("Tags").Replace(tags)
	})
	if err != nil {
		return apperr.Storage("set recipe tags", err)
	}

	s.logger.Info("Set recipe tags", zap.Int("recipe_id", recipeID), zap.Ints("tag_ids", tagIDs))
	return nil
}
