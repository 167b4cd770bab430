package listings

import (
	"context"
	"errors"
	"strings"

	"rainbow-recipes/core/apperr"
	catalog "rainbow-recipes/feature/catalog/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ItemResolver resolves the catalog item a listing sells.
type ItemResolver interface {
	FindOrCreate(ctx context.Context, name string, category catalog.Category) (*catalog.CatalogItem, bool, error)
	Get(ctx context.Context, id int) (*catalog.CatalogItem, error)
}

// Service handles vendor listing operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	items  ItemResolver
}

// NewService creates a new listing service.
func NewService(db *gorm.DB, logger *zap.Logger, items ItemResolver) *Service {
	return &Service{db: db, logger: logger, items: items}
}

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	CatalogItemID int
	OwnerID       int
	AvailableOnly bool
}

// List returns listings ordered by price, then id.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]catalog.VendorListing, error) {
	q := s.db.WithContext(ctx).Preload("CatalogItem").Order("price").Order("id")
	if filter.CatalogItemID > 0 {
		q = q.Where("catalog_item_id = ?", filter.CatalogItemID)
	}
	if filter.OwnerID > 0 {
		q = q.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.AvailableOnly {
		q = q.Where("availability = ?", true)
	}

	var listings []catalog.VendorListing
	if err := q.Find(&listings).Error; err != nil {
		return nil, apperr.Storage("list vendor listings", err)
	}
	return listings, nil
}

// Get returns one listing with its catalog item.
func (s *Service) Get(ctx context.Context, id int) (*catalog.VendorListing, error) {
	var listing catalog.VendorListing
	if err := s.db.WithContext(ctx).Preload("CatalogItem").First(&listing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("vendor listing", id)
		}
		return nil, apperr.Storage("load vendor listing", err)
	}
	return &listing, nil
}

// CreateInput holds the fields of a new listing. The item is CatalogItemID when
// set, otherwise the catalog item found or created from Name and Category.
type CreateInput struct {
	CatalogItemID *int
	Name          string
	Category      catalog.Category
	Price         float64
	Unit          string
	Availability  *bool
}

// Create stores a listing owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int, in CreateInput) (*catalog.VendorListing, error) {
	if in.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}

	var item *catalog.CatalogItem
	var err error
	switch {
	case in.CatalogItemID != nil:
		if *in.CatalogItemID <= 0 {
			return nil, apperr.Validation("catalogItemId must be a positive integer")
		}
		item, err = s.items.Get(ctx, *in.CatalogItemID)
	case strings.TrimSpace(in.Name) != "":
		item, _, err = s.items.FindOrCreate(ctx, in.Name, in.Category)
	default:
		return nil, apperr.Validation("a catalog item id or an ingredient name is required")
	}
	if err != nil {
		return nil, err
	}

	listing := catalog.VendorListing{
		CatalogItemID: item.ID,
		Price:         in.Price,
		Unit:          strings.TrimSpace(in.Unit),
		Availability:  true,
		OwnerID:       ownerID,
	}
	if in.Availability != nil {
		listing.Availability = *in.Availability
	}

	// The column defaults to true; naming it keeps a false value in the INSERT.
	err = s.db.WithContext(ctx).
		Select("CatalogItemID", "Price", "Unit", "Availability", "OwnerID").
		Create(&listing).Error
	if err != nil {
		return nil, apperr.Storage("create vendor listing", err)
	}
	listing.CatalogItem = item

	s.logger.Info("Created vendor listing",
		zap.Int("id", listing.ID),
		zap.Int("catalog_item_id", item.ID),
		zap.Int("owner_id", ownerID))
	return &listing, nil
}

// UpdateInput holds the editable fields of a listing. Nil fields are left unchanged.
type UpdateInput struct {
	Price        *float64
	Unit         *string
	Availability *bool
}

// Update edits a listing.
func (s *Service) Update(ctx context.Context, id int, in UpdateInput) (*catalog.VendorListing, error) {
	listing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Validation("price must not be negative")
		}
		listing.Price = *in.Price
	}
	if in.Unit != nil {
		listing.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.Availability != nil {
		listing.Availability = *in.Availability
	}

	err = s.db.WithContext(ctx).Model(listing).
		Select("price", "unit", "availability").
		Updates(listing).Error
	if err != nil {
		return nil, apperr.Storage("update vendor listing", err)
	}

	s.logger.Info("Updated vendor listing", zap.Int("id", id))
	return listing, nil
}

// Delete removes a listing.
func (s *Service) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&catalog.VendorListing{}, id)
	if res.Error != nil {
		return apperr.Storage("delete vendor listing", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("vendor listing", id)
	}
	s.logger.Info("Deleted vendor listing", zap.Int("id", id))
	return nil
}
