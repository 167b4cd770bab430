package recipes_test

import (
	"context"
	"testing"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/feature/recipes"
	"rainbow-recipes/feature/recipes/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) tag(t *testing.T, name string, category models.TagCategory) *models.Tag {
	t.Helper()
	tag, err := e.svc.CreateTag(context.Background(), name, category)
	require.NoError(t, err)
	return tag
}

func TestCreateAndGet(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	vegan := e.tag(t, "Vegan", models.TagDiet)

	r, err := e.svc.Create(ctx, 5, recipes.CreateInput{
		Name:        "  Pancakes ",
		Cost:        3.5,
		PrepTime:    20,
		Ingredients: []recipes.IngredientRef{named("Flour"), named("Oat Milk")},
		Quantities:  []string{"200 g", "300 ml"},
		TagIDs:      []int{vegan.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Name)
	assert.Equal(t, 5, r.AuthorID)
	require.Len(t, r.Ingredients, 2)
	assert.Equal(t, "Flour", r.Ingredients[0].Name)
	assert.Equal(t, []string{"200 g", "300 ml"}, r.IngredientQuantities)
	require.Len(t, r.Tags, 1)
	assert.Equal(t, "Vegan", r.Tags[0].Name)

	_, err = e.svc.Get(ctx, r.ID+1)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCreate_ValidatesFirst(t *testing.T) {
	e := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   recipes.CreateInput
	}{
		{"blank name", recipes.CreateInput{Name: " ", Ingredients: []recipes.IngredientRef{named("Egg")}, Quantities: []string{"1"}}},
		{"negative cost", recipes.CreateInput{Name: "Omelette", Cost: -1, Ingredients: []recipes.IngredientRef{named("Egg")}, Quantities: []string{"1"}}},
		{"no ingredients", recipes.CreateInput{Name: "Omelette"}},
		{"missing tag", recipes.CreateInput{Name: "Omelette", Ingredients: []recipes.IngredientRef{named("Egg")}, Quantities: []string{"1"}, TagIDs: []int{77}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Create(ctx, 1, tt.in)
			require.Error(t, err)
			assert.True(t, apperr.IsTyped(err))
		})
	}

	list, err := e.svc.List(ctx, recipes.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, e.countItems(t))
}

func TestList_TagFilter(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	vegan := e.tag(t, "Vegan", models.TagDiet)
	oven := e.tag(t, "Oven", models.TagAppliance)

	newRecipe := func(name string, tagIDs ...int) *models.Recipe {
		r, err := e.svc.Create(ctx, 1, recipes.CreateInput{
			Name:        name,
			Ingredients: []recipes.IngredientRef{named("Potato")},
			Quantities:  []string{"2"},
			TagIDs:      tagIDs,
		})
		require.NoError(t, err)
		return r
	}
	both := newRecipe("Roast", vegan.ID, oven.ID)
	onlyVegan := newRecipe("Salad", vegan.ID)
	newRecipe("Mash")

	all, err := e.svc.List(ctx, recipes.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	tagged, err := e.svc.List(ctx, recipes.ListFilter{TagIDs: []int{vegan.ID}})
	require.NoError(t, err)
	require.Len(t, tagged, 2)
	assert.Equal(t, both.ID, tagged[0].ID)
	assert.Equal(t, onlyVegan.ID, tagged[1].ID)

	strict, err := e.svc.List(ctx, recipes.ListFilter{TagIDs: []int{vegan.ID, oven.ID}})
	require.NoError(t, err)
	require.Len(t, strict, 1)
	assert.Equal(t, both.ID, strict[0].ID)

	byAuthor, err := e.svc.List(ctx, recipes.ListFilter{AuthorID: 2})
	require.NoError(t, err)
	assert.Empty(t, byAuthor)
}

func TestUpdate(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	r, err := e.svc.Create(ctx, 1, recipes.CreateInput{
		Name:        "Tea",
		Ingredients: []recipes.IngredientRef{named("Tea Leaves")},
		Quantities:  []string{"1 tsp"},
	})
	require.NoError(t, err)

	name := "Iced Tea"
	prep := 5
	updated, err := e.svc.Update(ctx, r.ID, recipes.UpdateInput{
		Name:        &name,
		PrepTime:    &prep,
		Ingredients: []recipes.IngredientRef{named("Tea Leaves"), named("Ice")},
		Quantities:  []string{"2 tsp", "1 cup"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Iced Tea", updated.Name)
	assert.Equal(t, 5, updated.PrepTime)
	assert.Equal(t, []string{"2 tsp", "1 cup"}, updated.IngredientQuantities)

	// A rejected ingredient list leaves the scalar fields untouched too.
	other := "Hot Tea"
	_, err = e.svc.Update(ctx, r.ID, recipes.UpdateInput{
		Name:        &other,
		Ingredients: []recipes.IngredientRef{named("Tea Leaves")},
		Quantities:  []string{},
	})
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	got, err := e.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Iced Tea", got.Name)
}

func TestDelete(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	tag := e.tag(t, "Quick", models.TagDiet)
	r, err := e.svc.Create(ctx, 1, recipes.CreateInput{
		Name:        "Toast",
		Ingredients: []recipes.IngredientRef{named("Bread")},
		Quantities:  []string{"2 slices"},
		TagIDs:      []int{tag.ID},
	})
	require.NoError(t, err)

	require.NoError(t, e.svc.Delete(ctx, r.ID))

	ids, err := recipes.IngredientIDs(e.db, r.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)
	var tagRows int64
	require.NoError(t, e.db.Table("recipe_tags").Where("recipe_id = ?", r.ID).Count(&tagRows).Error)
	assert.Zero(t, tagRows)

	// The catalog item outlives the recipe.
	assert.EqualValues(t, 1, e.countItems(t))

	err = e.svc.Delete(ctx, r.ID)
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestSetTags(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	a := e.tag(t, "Vegetarian", models.TagDiet)
	b := e.tag(t, "Microwave", models.TagAppliance)
	r := e.recipe(t, 1)

	require.NoError(t, e.svc.SetTags(ctx, r.ID, []int{a.ID, b.ID, a.ID}))
	got, err := e.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, got.Tags, 2)

	require.NoError(t, e.svc.SetTags(ctx, r.ID, []int{b.ID}))
	got, err = e.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "Microwave", got.Tags[0].Name)

	err = e.svc.SetTags(ctx, r.ID, []int{999})
	var nf *apperr.NotFoundError
	assert.ErrorAs(t, err, &nf)

	require.NoError(t, e.svc.SetTags(ctx, r.ID, nil))
	got, err = e.svc.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Tags)
}

func TestTags(t *testing.T) {
	e := setup(t)
	ctx := context.Background()
	e.tag(t, "Oven", models.TagAppliance)
	e.tag(t, "Keto", models.TagDiet)

	_, err := e.svc.CreateTag(ctx, "Oven", models.TagAppliance)
	var cerr *apperr.ConflictError
	assert.ErrorAs(t, err, &cerr)

	_, err = e.svc.CreateTag(ctx, "Grill", models.TagCategory("Tool"))
	var verr *apperr.ValidationError
	assert.ErrorAs(t, err, &verr)

	all, err := e.svc.ListTags(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Oven", all[0].Name)

	diet, err := e.svc.ListTags(ctx, models.TagDiet)
	require.NoError(t, err)
	require.Len(t, diet, 1)
	assert.Equal(t, "Keto", diet[0].Name)
}
