package recipes

import (
	"strings"

	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/logger"
	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/core/utils"
	"rainbow-recipes/feature/recipes/models"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for recipes and tags.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the recipe and tag routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/recipes")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Post("/", auth.RequireLogin(), h.HandleCreate)
	group.Patch("/:id", auth.RequireLogin(), h.HandleUpdate)
	group.Put("/:id/ingredients", auth.RequireLogin(), h.HandleReconcile)
	group.Put("/:id/tags", auth.RequireLogin(), h.HandleSetTags)
	group.Delete("/:id", auth.RequireLogin(), h.HandleDelete)

	tags := app.Group("/tags")
	tags.Get("/", h.HandleListTags)
	tags.Post("/", auth.RequireAdmin(), h.HandleCreateTag)
}

// RecipeResponse is a recipe with its ingredients paired to quantities.
type RecipeResponse struct {
	*models.Recipe
	Lines []models.IngredientLine `json:"lines"`
}

func respond(r *models.Recipe) RecipeResponse {
	return RecipeResponse{Recipe: r, Lines: r.Lines()}
}

// IngredientInput is one submitted ingredient. ID may be a number or a numeric string.
type IngredientInput struct {
	ID       any    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func toRefs(inputs []IngredientInput) ([]IngredientRef, error) {
	if inputs == nil {
		return nil, nil
	}
	refs := make([]IngredientRef, len(inputs))
	for i, in := range inputs {
		refs[i] = IngredientRef{Name: in.Name, Category: in.Category}
		if in.ID == nil {
			continue
		}
		if s, ok := in.ID.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		id, err := utils.ParseID(in.ID)
		if err != nil {
			return nil, apperr.Validation("ingredient %d: %v", i+1, err)
		}
		refs[i].ID = &id
	}
	return refs, nil
}

// HandleList lists recipes.
// @Summary List recipes
// @Tags recipes
// @Produce json
// @Param tags query string false "Comma separated tag ids; recipes must carry all of them"
// @Param author query int false "Author id"
// @Success 200 {array} RecipeResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /recipes [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var filter ListFilter
	if raw := c.Query("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := utils.ParseID(part)
			if err != nil || id <= 0 {
				return apperr.Write(c, l, apperr.Validation("invalid tag id %q", part))
			}
			filter.TagIDs = append(filter.TagIDs, id)
		}
	}
	filter.AuthorID = c.QueryInt("author", 0)

	list, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	out := make([]RecipeResponse, len(list))
	for i := range list {
		out[i] = respond(&list[i])
	}
	return c.JSON(out)
}

// HandleGet returns a recipe.
// @Summary Get recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe id"
// @Success 200 {object} RecipeResponse
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := pathID(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	recipe, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(respond(recipe))
}

// CreateRequest is the body of POST /recipes.
type CreateRequest struct {
	Name                 string            `json:"name"`
	Cost                 float64           `json:"cost"`
	PrepTime             int               `json:"prepTime"`
	Description          string            `json:"description"`
	Ingredients          []IngredientInput `json:"ingredients"`
	IngredientQuantities []string          `json:"ingredientQuantities"`
	TagIDs               []int             `json:"tagIds"`
}

// HandleCreate publishes a recipe authored by the caller.
// @Summary Create recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param body body CreateRequest true "Recipe"
// @Success 201 {object} RecipeResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	refs, err := toRefs(req.Ingredients)
	if err != nil {
		return apperr.Write(c, l, err)
	}

	recipe, err := h.service.Create(c.UserContext(), auth.FromCtx(c).UserID, CreateInput{
		Name:        req.Name,
		Cost:        req.Cost,
		PrepTime:    req.PrepTime,
		Description: req.Description,
		Ingredients: refs,
		Quantities:  req.IngredientQuantities,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(respond(recipe))
}

// UpdateRequest is the body of PATCH /recipes/:id.
type UpdateRequest struct {
	Name                 *string           `json:"name"`
	Cost                 *float64          `json:"cost"`
	PrepTime             *int              `json:"prepTime"`
	Description          *string           `json:"description"`
	Ingredients          []IngredientInput `json:"ingredients"`
	IngredientQuantities []string          `json:"ingredientQuantities"`
}

// HandleUpdate edits a recipe. Only its author or an admin may do so.
// @Summary Update recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe id"
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} RecipeResponse
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	refs, err := toRefs(req.Ingredients)
	if err != nil {
		return apperr.Write(c, l, err)
	}

	recipe, err := h.service.Update(c.UserContext(), id, UpdateInput{
		Name:        req.Name,
		Cost:        req.Cost,
		PrepTime:    req.PrepTime,
		Description: req.Description,
		Ingredients: refs,
		Quantities:  req.IngredientQuantities,
	})
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(respond(recipe))
}

// ReconcileRequest is the body of PUT /recipes/:id/ingredients.
type ReconcileRequest struct {
	Ingredients          []IngredientInput `json:"ingredients"`
	IngredientQuantities []string          `json:"ingredientQuantities"`
}

// HandleReconcile replaces the ingredient set of a recipe.
// @Summary Replace recipe ingredients
// @Description Finds or creates named ingredients, replaces the association and returns quantities aligned to the stored order.
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe id"
// @Param body body ReconcileRequest true "Ingredients and quantities"
// @Success 200 {object} ReconcileResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /recipes/{id}/ingredients [put]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	var req ReconcileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	refs, err := toRefs(req.Ingredients)
	if err != nil {
		return apperr.Write(c, l, err)
	}

	result, err := h.service.ReconcileRecipeIngredients(c.UserContext(), id, refs, req.IngredientQuantities)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(result)
}

// SetTagsRequest is the body of PUT /recipes/:id/tags.
type SetTagsRequest struct {
	TagIDs []int `json:"tagIds"`
}

// HandleSetTags replaces the tags of a recipe.
// @Summary Set recipe tags
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe id"
// @Param body body SetTagsRequest true "Tag ids"
// @Success 200 {object} RecipeResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/{id}/tags [put]
func (h *Handler) HandleSetTags(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	var req SetTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	if err := h.service.SetTags(c.UserContext(), id, req.TagIDs); err != nil {
		return apperr.Write(c, l, err)
	}
	recipe, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(respond(recipe))
}

// HandleDelete removes a recipe.
// @Summary Delete recipe
// @Tags recipes
// @Param id path int true "Recipe id"
// @Success 204
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /recipes/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := h.authorize(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperr.Write(c, l, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListTags lists tags.
// @Summary List tags
// @Tags tags
// @Produce json
// @Param category query string false "Diet or Appliance"
// @Success 200 {array} models.Tag
// @Router /tags [get]
func (h *Handler) HandleListTags(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	category := models.TagCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		return apperr.Write(c, l, apperr.Validation("unknown tag category %q", category))
	}
	tags, err := h.service.ListTags(c.UserContext(), category)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(tags)
}

// CreateTagRequest is the body of POST /tags.
type CreateTagRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// HandleCreateTag adds a tag.
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Param body body CreateTagRequest true "Tag"
// @Success 201 {object} models.Tag
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /tags [post]
func (h *Handler) HandleCreateTag(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CreateTagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	tag, err := h.service.CreateTag(c.UserContext(), req.Name, models.TagCategory(req.Category))
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// authorize resolves the recipe id of the request and checks the caller may edit it.
func (h *Handler) authorize(c *fiber.Ctx) (int, error) {
	id, err := pathID(c)
	if err != nil {
		return 0, err
	}
	recipe, err := h.service.load(h.service.db.WithContext(c.UserContext()), id)
	if err != nil {
		return 0, err
	}
	if !auth.FromCtx(c).Owns(recipe.AuthorID) {
		return 0, fiber.NewError(fiber.StatusForbidden, "only the author or an admin can change this recipe")
	}
	return id, nil
}

func pathID(c *fiber.Ctx) (int, error) {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id must be a positive integer")
	}
	return id, nil
}
