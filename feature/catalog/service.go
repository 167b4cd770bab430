package catalog

import (
	"context"
	"errors"
	"fmt"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/reconcile"
	"rainbow-recipes/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles catalog item operations.
type Service struct {
	db      *gorm.DB
	logger  *zap.Logger
	audit   *AuditLog
	creates reconcile.Group[*models.CatalogItem]
}

// NewService creates a new catalog service. audit may be nil.
func NewService(db *gorm.DB, logger *zap.Logger, audit *AuditLog) *Service {
	return &Service{
		db:     db,
		logger: logger,
		audit:  audit,
	}
}

// ListFilter narrows List results.
type ListFilter struct {
	Approved *bool
	Category models.Category
}

// List returns catalog items ordered by name.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.CatalogItem, error) {
	q := s.db.WithContext(ctx).Order("name_key")
	if filter.Approved != nil {
		q = q.Where("approved = ?", *filter.Approved)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	var items []models.CatalogItem
	if err := q.Find(&items).Error; err != nil {
		return nil, apperr.Storage("list catalog items", err)
	}
	return items, nil
}

// Get returns a single catalog item.
func (s *Service) Get(ctx context.Context, id int) (*models.CatalogItem, error) {
	return getItem(s.db.WithContext(ctx), id)
}

func getItem(tx *gorm.DB, id int) (*models.CatalogItem, error) {
	var item models.CatalogItem
	if err := tx.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("catalog item", id)
		}
		return nil, apperr.Storage("load catalog item", err)
	}
	return &item, nil
}

// ExistingIDs returns the subset of ids that have a catalog row.
func (s *Service) ExistingIDs(ctx context.Context, ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int
	err := s.db.WithContext(ctx).Model(&models.CatalogItem{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, apperr.Storage("check catalog items", err)
	}
	return found, nil
}

// FindOrCreate returns the catalog item whose normalized name matches name,
// creating it with category when none exists. created reports whether this
// call inserted the row. Concurrent calls for the same normalized name share
// one lookup.
func (s *Service) FindOrCreate(ctx context.Context, name string, category models.Category) (item *models.CatalogItem, created bool, err error) {
	display := models.DisplayName(name)
	key := models.NormalizeName(name)
	if key == "" {
		return nil, false, apperr.Validation("ingredient name must not be blank")
	}
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, false, apperr.Validation("unknown category %q", category)
	}

	inserted := false
	item, err = s.creates.Do(ctx, key, func() (*models.CatalogItem, error) {
		// The shared lookup outlives any single caller's cancellation.
		tx := s.db.WithContext(context.WithoutCancel(ctx))

		existing, err := findByKey(tx, key)
		if err != nil || existing != nil {
			return existing, err
		}

		row := models.CatalogItem{Name: display, NameKey: key, Category: category}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, apperr.Storage("create catalog item", res.Error)
		}
		if res.Error == nil && res.RowsAffected == 1 && row.ID != 0 {
			inserted = true
			s.logger.Info("Created catalog item",
				zap.Int("id", row.ID),
				zap.String("name", row.Name),
				zap.String("category", string(row.Category)))
			return &row, nil
		}

		// Another writer inserted the key first; read it back once.
		existing, err = findByKey(tx, key)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, apperr.Conflict("catalog item %q conflicts with an existing item", display)
		}
		return existing, nil
	})
	if err != nil {
		return nil, false, err
	}
	return item, inserted, nil
}

func findByKey(tx *gorm.DB, key string) (*models.CatalogItem, error) {
	var items []models.CatalogItem
	if err := tx.Where("name_key = ?", key).Limit(1).Find(&items).Error; err != nil {
		return nil, apperr.Storage("find catalog item", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// UpdateInput carries the editable fields of a catalog item. Nil fields are left unchanged.
type UpdateInput struct {
	Name     *string
	Category *models.Category
	Approved *bool
}

// Update edits a catalog item.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (*models.CatalogItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		key := models.NormalizeName(*in.Name)
		if key == "" {
			return nil, apperr.Validation("name must not be blank")
		}
		item.Name = models.DisplayName(*in.Name)
		item.NameKey = key
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperr.Validation("unknown category %q", *in.Category)
		}
		item.Category = *in.Category
	}
	if in.Approved != nil {
		item.Approved = *in.Approved
	}

	err = s.db.WithContext(ctx).Model(item).
		Select("name", "name_key", "category", "approved").
		Updates(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("a catalog item named %q already exists", item.Name)
		}
		return nil, apperr.Storage("update catalog item", err)
	}

	s.logger.Info("Updated catalog item",
		zap.Int("id", item.ID),
		zap.String("name", item.Name),
		zap.Bool("approved", item.Approved))
	return item, nil
}

// Merges returns the most recent merge audit records, newest first.
func (s *Service) Merges(ctx context.Context, limit int) ([]MergeRecord, error) {
	records, err := s.audit.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list merge records: %w", err)
	}
	return records, nil
}
