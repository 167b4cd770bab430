// Package recipes manages recipes, their ingredient sets and their tags.
//
// A recipe's ingredients are an association to catalog items plus a parallel
// list of quantity strings. The association is always read in
// models.IngredientOrder and the quantities are stored aligned to that order,
// so entry i of the quantities describes ingredient i as read back.
package recipes
