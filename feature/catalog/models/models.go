package models

import (
	"strings"

	"rainbow-recipes/core/utils"
)

// Category is the closed set of catalog item categories.
type Category string

const (
	CategoryProduce          Category = "produce"
	CategoryMeatSeafood      Category = "meat_seafood"
	CategoryDairyEggs        Category = "dairy_eggs"
	CategoryFrozen           Category = "frozen"
	CategoryCanned           Category = "canned"
	CategoryDry              Category = "dry"
	CategoryCondimentsSpices Category = "condiments_spices"
	CategoryOther            Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryProduce,
	CategoryMeatSeafood,
	CategoryDairyEggs,
	CategoryFrozen,
	CategoryCanned,
	CategoryDry,
	CategoryCondimentsSpices,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory validates raw, mapping the empty string to CategoryOther.
func ParseCategory(raw string) (Category, bool) {
	if strings.TrimSpace(raw) == "" {
		return CategoryOther, true
	}
	c := Category(strings.TrimSpace(raw))
	return c, c.Valid()
}

// CatalogItem is the canonical, de-duplicated ingredient entry shared by vendors and recipes.
type CatalogItem struct {
	ID   int    `gorm:"column:id;primaryKey" json:"id"`
	Name string `gorm:"column:name;type:varchar(191);uniqueIndex;not null" json:"name"`
	// NameKey is the normalized Name used for case- and whitespace-insensitive lookups.
	NameKey  string   `gorm:"column:name_key;type:varchar(191);uniqueIndex;not null" json:"-"`
	Category Category `gorm:"column:category;type:varchar(32);not null;default:other" json:"category"`
	Approved bool     `gorm:"column:approved;not null;default:false" json:"approved"`
}

// TableName overrides the table name.
func (CatalogItem) TableName() string {
	return "catalog_items"
}

// VendorListing is one vendor's priced offering of a catalog item.
type VendorListing struct {
	ID            int          `gorm:"column:id;primaryKey" json:"id"`
	CatalogItemID int          `gorm:"column:catalog_item_id;not null;index" json:"catalogItemId"`
	CatalogItem   *CatalogItem `gorm:"foreignKey:CatalogItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"catalogItem,omitempty"`
	Price         float64      `gorm:"column:price;not null;default:0" json:"price"`
	Unit          string       `gorm:"column:unit;type:varchar(64)" json:"unit"`
	Availability  bool         `gorm:"column:availability;not null;default:true" json:"availability"`
	OwnerID       int          `gorm:"column:owner_id;not null;index" json:"ownerId"`
}

// TableName overrides the table name.
func (VendorListing) TableName() string {
	return "vendor_listings"
}

// DisplayName trims name and collapses internal whitespace.
func DisplayName(name string) string {
	return utils.CollapseSpace(name)
}

// NormalizeName returns the lookup key for name: whitespace collapsed, lower-cased.
func NormalizeName(name string) string {
	return strings.ToLower(utils.CollapseSpace(name))
}
