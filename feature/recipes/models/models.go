package models

import (
	catalog "rainbow-recipes/feature/catalog/models"
)

// TagCategory is the closed set of tag categories.
type TagCategory string

const (
	TagDiet      TagCategory = "Diet"
	TagAppliance TagCategory = "Appliance"
)

// Valid reports whether c is a known tag category.
func (c TagCategory) Valid() bool {
	return c == TagDiet || c == TagAppliance
}

// IngredientOrder is the ordering applied whenever a recipe's ingredient
// association is read. IngredientQuantities is aligned to it.
const IngredientOrder = "catalog_items.id"

// Recipe is a published dish.
type Recipe struct {
	ID          int     `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name;type:varchar(191);not null" json:"name"`
	Cost        float64 `gorm:"column:cost;not null;default:0" json:"cost"`
	PrepTime    int     `gorm:"column:prep_time;not null;default:0" json:"prepTime"`
	Description string  `gorm:"column:description;type:text" json:"description"`
	AuthorID    int     `gorm:"column:author_id;not null;index" json:"authorId"`
	// IngredientQuantities[i] describes Ingredients[i] as read in IngredientOrder.
	IngredientQuantities []string              `gorm:"column:ingredient_quantities;type:text;serializer:json" json:"ingredientQuantities"`
	Ingredients          []catalog.CatalogItem `gorm:"many2many:recipe_ingredients;constraint:OnDelete:CASCADE" json:"ingredients"`
	Tags                 []Tag                 `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
}

// TableName overrides the table name.
func (Recipe) TableName() string {
	return "recipes"
}

// RecipeIngredient is a row of the recipe <-> catalog item association.
// Writes to the association go through it so connects and disconnects stay explicit.
type RecipeIngredient struct {
	RecipeID      int `gorm:"column:recipe_id;primaryKey"`
	CatalogItemID int `gorm:"column:catalog_item_id;primaryKey"`
}

// TableName overrides the table name.
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// Tag is a label attached to recipes.
type Tag struct {
	ID       int         `gorm:"column:id;primaryKey" json:"id"`
	Name     string      `gorm:"column:name;type:varchar(191);uniqueIndex;not null" json:"name"`
	Category TagCategory `gorm:"column:category;type:varchar(32);not null" json:"category"`
}

// TableName overrides the table name.
func (Tag) TableName() string {
	return "tags"
}

// All lists every persisted model in migration order.
// Join tables are created from the many2many tags of Recipe.
func All() []any {
	return []any{
		&catalog.CatalogItem{},
		&catalog.VendorListing{},
		&Tag{},
		&Recipe{},
	}
}

// JoinColumns lists the columns each association table must carry.
func JoinColumns() map[string][]string {
	return map[string][]string{
		"recipe_ingredients": {"recipe_id", "catalog_item_id"},
		"recipe_tags":        {"recipe_id", "tag_id"},
	}
}

// IngredientLine pairs one ingredient of a recipe with its quantity.
type IngredientLine struct {
	CatalogItemID int              `json:"catalogItemId"`
	Name          string           `json:"name"`
	Category      catalog.Category `json:"category"`
	Quantity      string           `json:"quantity"`
}

// Lines pairs Ingredients with IngredientQuantities by position.
// Ingredients must have been loaded in IngredientOrder.
func (r *Recipe) Lines() []IngredientLine {
	lines := make([]IngredientLine, len(r.Ingredients))
	for i, item := range r.Ingredients {
		lines[i] = IngredientLine{
			CatalogItemID: item.ID,
			Name:          item.Name,
			Category:      item.Category,
		}
		if i < len(r.IngredientQuantities) {
			lines[i].Quantity = r.IngredientQuantities[i]
		}
	}
	return lines
}
