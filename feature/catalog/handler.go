package catalog

import (
	"rainbow-recipes/core/apperr"
	"rainbow-recipes/core/logger"
	"rainbow-recipes/core/middleware/auth"
	"rainbow-recipes/core/utils"
	"rainbow-recipes/feature/catalog/models"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/", h.HandleList)
	group.Get("/categories", h.HandleCategories)
	group.Get("/merges", auth.RequireAdmin(), h.HandleListMerges)
	group.Post("/merge", auth.RequireAdmin(), h.HandleMerge)
	group.Post("/", auth.RequireLogin(), h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id", auth.RequireAdmin(), h.HandleUpdate)
}

// HandleList lists catalog items.
// @Summary List catalog items
// @Tags catalog
// @Produce json
// @Param approved query bool false "Only approved (true) or pending (false) items"
// @Param category query string false "Category filter"
// @Success 200 {array} models.CatalogItem
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /catalog [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var filter ListFilter
	if raw := c.Query("approved"); raw != "" {
		approved := utils.ToBool(raw)
		filter.Approved = &approved
	}
	if raw := c.Query("category"); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			return apperr.Write(c, l, apperr.Validation("unknown category %q", raw))
		}
		filter.Category = category
	}

	items, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(items)
}

// HandleCategories lists the valid categories.
// @Summary List catalog categories
// @Tags catalog
// @Produce json
// @Success 200 {array} string
// @Router /catalog/categories [get]
func (h *Handler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(models.Categories)
}

// HandleGet returns one catalog item.
// @Summary Get catalog item
// @Tags catalog
// @Produce json
// @Param id path int true "Catalog item id"
// @Success 200 {object} models.CatalogItem
// @Failure 404 {object} map[string]string "Not Found"
// @Router /catalog/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := pathID(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(item)
}

// CreateRequest is the body of POST /catalog.
type CreateRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// HandleCreate finds or creates a catalog item by name.
// @Summary Find or create catalog item
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body CreateRequest true "Item"
// @Success 200 {object} models.CatalogItem "Existing item"
// @Success 201 {object} models.CatalogItem "Created item"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /catalog [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return apperr.Write(c, l, apperr.Validation("unknown category %q", req.Category))
	}

	item, created, err := h.service.FindOrCreate(c.UserContext(), req.Name, category)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	if created {
		return c.Status(fiber.StatusCreated).JSON(item)
	}
	return c.JSON(item)
}

// UpdateRequest is the body of PATCH /catalog/:id.
type UpdateRequest struct {
	Name     *string `json:"name"`
	Category *string `json:"category"`
	Approved *bool   `json:"approved"`
}

// HandleUpdate edits a catalog item.
// @Summary Update catalog item
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path int true "Catalog item id"
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} models.CatalogItem
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 409 {object} map[string]string "Conflict"
// @Router /catalog/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := pathID(c)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}

	in := UpdateInput{Name: req.Name, Approved: req.Approved}
	if req.Category != nil {
		category := models.Category(*req.Category)
		in.Category = &category
	}

	item, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(item)
}

// MergeRequest is the body of POST /catalog/merge. Ids may arrive as numbers or numeric strings.
type MergeRequest struct {
	SourceID any `json:"sourceId"`
	TargetID any `json:"targetId"`
}

// HandleMerge merges a duplicate catalog item into its canonical item.
// @Summary Merge catalog items
// @Description Repoints every vendor listing and recipe from the source item to the target item and deletes the source.
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body MergeRequest true "Source and target ids"
// @Success 200 {object} map[string]interface{} "Merge result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req MergeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Write(c, l, apperr.Validation("invalid request body"))
	}
	sourceID, err := utils.ParseID(req.SourceID)
	if err != nil {
		return apperr.Write(c, l, apperr.Validation("sourceId must be a positive integer"))
	}
	targetID, err := utils.ParseID(req.TargetID)
	if err != nil {
		return apperr.Write(c, l, apperr.Validation("targetId must be a positive integer"))
	}

	ctx := WithActor(c.UserContext(), auth.FromCtx(c).UserID)
	result, err := h.service.MergeCatalogItems(ctx, sourceID, targetID)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"result":  result,
	})
}

// HandleListMerges lists recent merge audit records.
// @Summary List merge audit records
// @Tags catalog
// @Produce json
// @Param limit query int false "Maximum records (default 50)"
// @Success 200 {array} MergeRecord
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/merges [get]
func (h *Handler) HandleListMerges(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	limit := c.QueryInt("limit", 50)
	records, err := h.service.Merges(c.UserContext(), limit)
	if err != nil {
		return apperr.Write(c, l, err)
	}
	return c.JSON(records)
}

func pathID(c *fiber.Ctx) (int, error) {
	id, err := utils.ParseID(c.Params("id"))
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id must be a positive integer")
	}
	return id, nil
}
